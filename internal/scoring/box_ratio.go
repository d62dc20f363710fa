package scoring

import (
	"fmt"

	"github.com/yourusername/form-guide/internal/models"
)

// BoxRatioName is the registry name of BoxRatioStrategy.
const BoxRatioName = "box_ratio"

// BoxRatioStrategy divides each runner's box value by the race total.
type BoxRatioStrategy struct {
	BoxValues map[int]float64
}

// NewBoxRatioStrategy creates a box ratio strategy. A nil table uses the
// standard inside-draw values.
func NewBoxRatioStrategy(box map[int]float64) *BoxRatioStrategy {
	return &BoxRatioStrategy{BoxValues: box}
}

// Name returns strategy name
func (s *BoxRatioStrategy) Name() string {
	return BoxRatioName
}

// Priors returns the box value of each row.
func (s *BoxRatioStrategy) Priors(group []models.RunnerRow) []float64 {
	priors := make([]float64, len(group))
	for i, row := range group {
		priors[i] = BoxValue(row.Box, s.BoxValues)
	}
	return priors
}

// Score normalises the box values by direct division.
func (s *BoxRatioStrategy) Score(group []models.RunnerRow) ([]float64, error) {
	priors := s.Priors(group)
	var total float64
	for _, p := range priors {
		total += p
	}
	if total <= 0 {
		return nil, fmt.Errorf("box ratio over %d runners: %w", len(group), models.ErrZeroWeight)
	}
	for i := range priors {
		priors[i] /= total
	}
	return priors, nil
}
