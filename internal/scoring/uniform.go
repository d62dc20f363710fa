package scoring

import "github.com/yourusername/form-guide/internal/models"

// UniformName is the registry name of UniformStrategy.
const UniformName = "uniform"

// UniformStrategy gives every runner in a race the same chance.
type UniformStrategy struct{}

// NewUniformStrategy creates a uniform strategy.
func NewUniformStrategy() *UniformStrategy {
	return &UniformStrategy{}
}

// Name returns strategy name
func (s *UniformStrategy) Name() string {
	return UniformName
}

// Score returns 1/n for each of the n rows.
func (s *UniformStrategy) Score(group []models.RunnerRow) ([]float64, error) {
	out := make([]float64, len(group))
	for i := range out {
		out[i] = 1.0 / float64(len(group))
	}
	return out, nil
}
