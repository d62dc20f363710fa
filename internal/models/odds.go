package models

// OddsQuote is a market price for one runner, keyed like RunnerRow.
type OddsQuote struct {
	Track       string  `json:"track" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	Race        int     `json:"race" validate:"required,gt=0"`
	Box         int     `json:"box" validate:"required,gte=1,lte=8"`
	OddsDecimal float64 `json:"odds_decimal" validate:"required,gte=1.01"`
}

// Key returns the natural key used to join quotes onto scored rows.
func (q OddsQuote) Key() RowKey {
	return RowKey{RaceKey: RaceKey{Track: q.Track, Date: q.Date, Race: q.Race}, Box: q.Box}
}
