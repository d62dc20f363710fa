package models

import (
	"github.com/google/uuid"
)

// rowNamespace seeds deterministic runner row identifiers.
var rowNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("form-guide/runner-row"))

// RunnerRow is one greyhound parsed out of a form guide.
type RunnerRow struct {
	Track    string `json:"track" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Race     int    `json:"race" validate:"required,gt=0"`
	Box      int    `json:"box" validate:"required,gte=1,lte=8"`
	Runner   string `json:"runner" validate:"required,min=2"`
	Trainer  string `json:"trainer,omitempty"`
	Form     string `json:"form,omitempty"`     // recent finishing positions, oldest first
	Distance int    `json:"distance,omitempty"` // metres
	Grade    string `json:"grade,omitempty"`
}

// Key returns the deduplication key of the row.
func (r RunnerRow) Key() RowKey {
	return RowKey{RaceKey: r.RaceKey(), Box: r.Box}
}

// RaceKey returns the race group the row belongs to.
func (r RunnerRow) RaceKey() RaceKey {
	return RaceKey{Track: r.Track, Date: r.Date, Race: r.Race}
}

// ID derives a stable identifier from the natural key, so re-parsing the same
// document yields the same ID.
func (r RunnerRow) ID() uuid.UUID {
	return uuid.NewSHA1(rowNamespace, []byte(r.Key().String()))
}
