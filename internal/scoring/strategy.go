// Package scoring turns the runners of each race into a win probability
// distribution.
package scoring

import (
	"fmt"
	"sort"

	"github.com/yourusername/form-guide/internal/models"
)

// Strategy scores one race group. It returns exactly one probability per row,
// in row order.
type Strategy interface {
	Name() string
	Score(group []models.RunnerRow) ([]float64, error)
}

// PriorStrategy is implemented by strategies that compute an unnormalised
// prior per runner before turning it into probabilities.
type PriorStrategy interface {
	Strategy
	Priors(group []models.RunnerRow) []float64
}

// Params configures strategy construction.
type Params struct {
	Name        string
	Temperature float64
	Weights     Weights
	BoxValues   map[int]float64
}

// DefaultParams returns the heuristic strategy with its standard weights.
func DefaultParams() Params {
	return Params{
		Name:        HeuristicName,
		Temperature: 1.0,
		Weights:     DefaultWeights(),
	}
}

var constructors = map[string]func(Params) Strategy{
	UniformName:   func(Params) Strategy { return NewUniformStrategy() },
	HeuristicName: func(p Params) Strategy { return NewHeuristicStrategy(p.Weights, p.Temperature, p.BoxValues) },
	BoxRatioName:  func(p Params) Strategy { return NewBoxRatioStrategy(p.BoxValues) },
}

// New resolves a strategy by name.
func New(p Params) (Strategy, error) {
	build, ok := constructors[p.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStrategy, p.Name)
	}
	return build(p), nil
}

// Names lists the registered strategy names.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name resolves to a strategy.
func IsRegistered(name string) bool {
	_, ok := constructors[name]
	return ok
}
