package scoring

import (
	"fmt"
	"math"

	"github.com/yourusername/form-guide/internal/models"
)

// SumTolerance is how far a race's probabilities may drift from 1.
const SumTolerance = 1e-6

// Scorer groups rows into races and applies a strategy to each group.
type Scorer struct {
	strategy Strategy
}

// NewScorer creates a scorer around a strategy.
func NewScorer(strategy Strategy) *Scorer {
	return &Scorer{strategy: strategy}
}

// Strategy returns the strategy in use.
func (s *Scorer) Strategy() Strategy {
	return s.strategy
}

// ScoreRows scores every race group in rows. Output keeps the input order.
// A strategy that breaks the probability contract fails the whole call.
func (s *Scorer) ScoreRows(rows []models.RunnerRow) ([]models.ScoredRow, error) {
	out := make([]models.ScoredRow, len(rows))
	for _, g := range groupByRace(rows) {
		group := make([]models.RunnerRow, len(g.idx))
		for i, idx := range g.idx {
			group[i] = rows[idx]
		}

		probs, err := s.strategy.Score(group)
		if err != nil {
			return nil, fmt.Errorf("score %s with %s: %w", g.key, s.strategy.Name(), err)
		}
		if err := checkDistribution(probs, len(group)); err != nil {
			return nil, fmt.Errorf("score %s with %s: %w", g.key, s.strategy.Name(), err)
		}

		priors := probs
		if ps, ok := s.strategy.(PriorStrategy); ok {
			priors = ps.Priors(group)
		}
		for i, idx := range g.idx {
			out[idx] = models.ScoredRow{RunnerRow: rows[idx], Prior: priors[i], ProbWin: probs[i]}
		}
	}
	return out, nil
}

type raceGroup struct {
	key models.RaceKey
	idx []int
}

// groupByRace groups row indexes by race in order of first appearance.
func groupByRace(rows []models.RunnerRow) []raceGroup {
	pos := make(map[models.RaceKey]int)
	var groups []raceGroup
	for i, r := range rows {
		k := r.RaceKey()
		j, ok := pos[k]
		if !ok {
			j = len(groups)
			pos[k] = j
			groups = append(groups, raceGroup{key: k})
		}
		groups[j].idx = append(groups[j].idx, i)
	}
	return groups
}

func checkDistribution(probs []float64, n int) error {
	if len(probs) != n {
		return fmt.Errorf("%w: got %d probabilities for %d runners", models.ErrProbabilitySum, len(probs), n)
	}
	var sum float64
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
			return fmt.Errorf("%w: non-positive probability %v", models.ErrProbabilitySum, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > SumTolerance {
		return fmt.Errorf("%w: sum %.9f", models.ErrProbabilitySum, sum)
	}
	return nil
}
