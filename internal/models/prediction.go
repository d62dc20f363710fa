package models

// ScoredRow is a runner row with its scorer prior and normalised win probability.
type ScoredRow struct {
	RunnerRow
	Prior   float64 `json:"prior"`
	ProbWin float64 `json:"prob_win" validate:"gt=0,lte=1"`
}
