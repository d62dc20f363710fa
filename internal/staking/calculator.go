// Package staking joins scored runners with market odds and sizes value bets
// with fractional Kelly.
package staking

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yourusername/form-guide/internal/models"
)

// DefaultMinEdge is the smallest model edge over the market worth staking.
const DefaultMinEdge = 0.01

// Config holds staking parameters.
type Config struct {
	Bankroll      float64
	KellyFraction float64
	MinEdge       float64
	// MaxStake caps a single stake; 0 means no cap.
	MaxStake float64
}

// Calculator turns scored rows plus odds into value bets.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator. MinEdge is used as given, so 0 keeps
// every non-negative edge.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Config returns the effective configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Kelly returns the full Kelly fraction (p*(b+1) - 1) / b for decimal odds,
// clipped at zero. It is zero when b <= 0.
func Kelly(probability, odds float64) float64 {
	b := odds - 1.0
	if b <= 0 || probability <= 0 {
		return 0
	}
	k := (probability*(b+1) - 1) / b
	if k <= 0 {
		return 0
	}
	return k
}

// Edge returns the model probability minus the implied market probability.
func Edge(probability, odds float64) float64 {
	if odds <= 0 {
		return 0
	}
	return probability - 1.0/odds
}

// Stake sizes a bet: bankroll x fraction x kelly, rounded half-up to cents
// and capped at MaxStake when set.
func (c *Calculator) Stake(kelly float64) decimal.Decimal {
	stake := decimal.NewFromFloat(c.cfg.Bankroll).
		Mul(decimal.NewFromFloat(c.cfg.KellyFraction)).
		Mul(decimal.NewFromFloat(kelly)).
		Round(2)
	if c.cfg.MaxStake > 0 {
		limit := decimal.NewFromFloat(c.cfg.MaxStake).Round(2)
		if stake.GreaterThan(limit) {
			stake = limit
		}
	}
	if stake.IsNegative() {
		return decimal.Zero
	}
	return stake
}

// Evaluate prices one scored row against one quote. ok is false when the row
// is not a value bet: odds of 1.0 or less or an edge below MinEdge. A stake
// that rounds to 0.00 is still returned.
func (c *Calculator) Evaluate(row models.ScoredRow, odds float64) (models.ValueBet, bool) {
	if odds-1.0 <= 0 {
		return models.ValueBet{}, false
	}
	edge := Edge(row.ProbWin, odds)
	if edge < c.cfg.MinEdge {
		return models.ValueBet{}, false
	}

	kelly := Kelly(row.ProbWin, odds)
	stake := c.Stake(kelly)

	return models.ValueBet{
		ScoredRow:   row,
		OddsDecimal: odds,
		Implied:     1.0 / odds,
		Edge:        edge,
		Kelly:       kelly,
		Stake:       stake,
	}, true
}

// ValueBets joins rows with quotes on (track, date, race, box) and returns the
// value bets, ordered by track, date, race and then stake descending. Rows
// without a quote are skipped.
func (c *Calculator) ValueBets(rows []models.ScoredRow, quotes []models.OddsQuote) []models.ValueBet {
	byKey := IndexQuotes(quotes)

	var bets []models.ValueBet
	for _, row := range rows {
		q, ok := byKey[row.Key()]
		if !ok {
			continue
		}
		if bet, ok := c.Evaluate(row, q.OddsDecimal); ok {
			bets = append(bets, bet)
		}
	}
	SortBets(bets)
	return bets
}

// IndexQuotes maps quotes by key. The first quote for a key wins.
func IndexQuotes(quotes []models.OddsQuote) map[models.RowKey]models.OddsQuote {
	byKey := make(map[models.RowKey]models.OddsQuote, len(quotes))
	for _, q := range quotes {
		if _, dup := byKey[q.Key()]; !dup {
			byKey[q.Key()] = q
		}
	}
	return byKey
}

// SortBets orders bets by race and then by stake, largest first. Equal stakes
// fall back to box order.
func SortBets(bets []models.ValueBet) {
	sort.SliceStable(bets, func(i, j int) bool {
		ri, rj := bets[i].RaceKey(), bets[j].RaceKey()
		if ri != rj {
			return ri.Less(rj)
		}
		if !bets[i].Stake.Equal(bets[j].Stake) {
			return bets[i].Stake.GreaterThan(bets[j].Stake)
		}
		return bets[i].Box < bets[j].Box
	})
}

// Summary aggregates a set of value bets.
type Summary struct {
	Bets          int
	TotalStake    decimal.Decimal
	ExpectedValue float64
}

// Summarize totals stakes and expected profit over bets.
func Summarize(bets []models.ValueBet) Summary {
	s := Summary{Bets: len(bets), TotalStake: decimal.Zero}
	for _, b := range bets {
		s.TotalStake = s.TotalStake.Add(b.Stake)
		s.ExpectedValue += b.ExpectedValue()
	}
	return s
}
