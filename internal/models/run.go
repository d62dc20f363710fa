package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Run records one pass of the pipeline over an input directory.
type Run struct {
	ID         uuid.UUID       `json:"id"`
	Trigger    string          `json:"trigger"` // cli, schedule
	Strategy   string          `json:"strategy"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Documents  int             `json:"documents"`
	Rows       int             `json:"rows"`
	Bets       int             `json:"bets"`
	TotalStake decimal.Decimal `json:"total_stake"`
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
