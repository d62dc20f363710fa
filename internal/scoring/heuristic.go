package scoring

import "github.com/yourusername/form-guide/internal/models"

// HeuristicName is the registry name of HeuristicStrategy.
const HeuristicName = "heuristic"

// Weights blends the per-runner features into a prior.
type Weights struct {
	Form float64 `mapstructure:"form"`
	Box  float64 `mapstructure:"box"`
	Pace float64 `mapstructure:"pace"`
}

// DefaultWeights returns form 0.60, box 0.35, pace 0.05.
func DefaultWeights() Weights {
	return Weights{Form: 0.60, Box: 0.35, Pace: 0.05}
}

// HeuristicStrategy scores a runner on recent form, box draw and pace trend and
// converts the priors of a race to probabilities with a softmax.
type HeuristicStrategy struct {
	Weights     Weights
	Temperature float64
	BoxValues   map[int]float64
}

// NewHeuristicStrategy creates a heuristic strategy. A non-positive
// temperature falls back to 1.0 and a nil box table to the standard one.
func NewHeuristicStrategy(w Weights, temperature float64, box map[int]float64) *HeuristicStrategy {
	if temperature <= 0 {
		temperature = 1.0
	}
	return &HeuristicStrategy{Weights: w, Temperature: temperature, BoxValues: box}
}

// Name returns strategy name
func (s *HeuristicStrategy) Name() string {
	return HeuristicName
}

// Prior returns the weighted feature sum for one runner.
func (s *HeuristicStrategy) Prior(row models.RunnerRow) float64 {
	return s.Weights.Form*FormScore(row.Form) +
		s.Weights.Box*BoxValue(row.Box, s.BoxValues) +
		s.Weights.Pace*PaceScore(row.Form)
}

// Priors returns the prior of every row in the group.
func (s *HeuristicStrategy) Priors(group []models.RunnerRow) []float64 {
	priors := make([]float64, len(group))
	for i, row := range group {
		priors[i] = s.Prior(row)
	}
	return priors
}

// Score applies a temperature softmax over the group priors.
func (s *HeuristicStrategy) Score(group []models.RunnerRow) ([]float64, error) {
	return softmax(s.Priors(group), s.Temperature), nil
}
