package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrProbabilitySum  = errors.New("race probabilities do not sum to one")
	ErrZeroWeight      = errors.New("race group has zero total weight")
	ErrInvalidOdds     = errors.New("invalid decimal odds")
	ErrUnknownStrategy = errors.New("unknown scoring strategy")
	ErrEmptyRun        = errors.New("no runner rows parsed")
)
