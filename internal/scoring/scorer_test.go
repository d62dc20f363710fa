package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/form-guide/internal/models"
)

func runner(race, box int, form string) models.RunnerRow {
	return models.RunnerRow{Track: "QSTR", Date: "2025-09-08", Race: race, Box: box, Runner: "Dog", Form: form}
}

func sumByRace(rows []models.ScoredRow) map[models.RaceKey]float64 {
	sums := make(map[models.RaceKey]float64)
	for _, r := range rows {
		sums[r.RaceKey()] += r.ProbWin
	}
	return sums
}

func TestUniformScoring(t *testing.T) {
	scorer := NewScorer(NewUniformStrategy())

	scored, err := scorer.ScoreRows([]models.RunnerRow{runner(1, 1, ""), runner(1, 2, ""), runner(2, 1, "")})

	require.NoError(t, err)
	require.Len(t, scored, 3)
	assert.Equal(t, 0.5, scored[0].ProbWin)
	assert.Equal(t, 0.5, scored[1].ProbWin)
	assert.Equal(t, 1.0, scored[2].ProbWin)
}

func TestScoreRowsEmpty(t *testing.T) {
	scored, err := NewScorer(NewUniformStrategy()).ScoreRows(nil)

	require.NoError(t, err)
	assert.Empty(t, scored)
}

func TestEveryStrategyProducesADistribution(t *testing.T) {
	rows := []models.RunnerRow{
		runner(1, 1, "1112"), runner(1, 2, "8765"), runner(1, 3, ""),
		runner(1, 4, "x1f2"), runner(1, 5, "44"), runner(1, 6, "3"),
		runner(1, 7, "12345678"), runner(1, 8, "2211"),
		runner(2, 1, ""),
		runner(3, 5, "1"), runner(3, 6, "8"),
	}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			p := DefaultParams()
			p.Name = name
			strategy, err := New(p)
			require.NoError(t, err)

			scored, err := NewScorer(strategy).ScoreRows(rows)
			require.NoError(t, err)
			require.Len(t, scored, len(rows))

			for _, r := range scored {
				assert.Greater(t, r.ProbWin, 0.0)
			}
			for key, sum := range sumByRace(scored) {
				assert.InDelta(t, 1.0, sum, SumTolerance, "race %s", key)
			}
		})
	}
}

func TestScoreRowsKeepsInputOrder(t *testing.T) {
	rows := []models.RunnerRow{runner(2, 1, ""), runner(1, 1, ""), runner(2, 2, "")}

	scored, err := NewScorer(NewUniformStrategy()).ScoreRows(rows)

	require.NoError(t, err)
	for i := range rows {
		assert.Equal(t, rows[i], scored[i].RunnerRow)
	}
	assert.Equal(t, 1.0, scored[1].ProbWin)
}

func TestBoxRatioDirectDivision(t *testing.T) {
	scored, err := NewScorer(NewBoxRatioStrategy(nil)).ScoreRows([]models.RunnerRow{runner(1, 1, ""), runner(1, 8, "")})

	require.NoError(t, err)
	assert.InDelta(t, 1.20/2.08, scored[0].ProbWin, 1e-12)
	assert.InDelta(t, 0.88/2.08, scored[1].ProbWin, 1e-12)
	assert.Equal(t, 1.20, scored[0].Prior)
}

func TestBoxRatioZeroWeight(t *testing.T) {
	strategy := NewBoxRatioStrategy(map[int]float64{1: 0, 2: 0})

	_, err := NewScorer(strategy).ScoreRows([]models.RunnerRow{runner(1, 1, ""), runner(1, 2, "")})

	assert.ErrorIs(t, err, models.ErrZeroWeight)
}

func TestHeuristicPrefersInsideBoxWithEqualForm(t *testing.T) {
	scored, err := NewScorer(NewHeuristicStrategy(DefaultWeights(), 1.0, nil)).
		ScoreRows([]models.RunnerRow{runner(1, 1, "22"), runner(1, 8, "22")})

	require.NoError(t, err)
	assert.Greater(t, scored[0].ProbWin, scored[1].ProbWin)
}

func TestHeuristicPrefersBetterForm(t *testing.T) {
	scored, err := NewScorer(NewHeuristicStrategy(DefaultWeights(), 1.0, nil)).
		ScoreRows([]models.RunnerRow{runner(1, 4, "1111"), runner(1, 4, "8888")})

	require.NoError(t, err)
	assert.Greater(t, scored[0].ProbWin, scored[1].ProbWin)
}

func TestHeuristicTemperatureFlattens(t *testing.T) {
	rows := []models.RunnerRow{runner(1, 1, "1111"), runner(1, 8, "8888")}

	sharp, err := NewScorer(NewHeuristicStrategy(DefaultWeights(), 0.1, nil)).ScoreRows(rows)
	require.NoError(t, err)
	flat, err := NewScorer(NewHeuristicStrategy(DefaultWeights(), 10, nil)).ScoreRows(rows)
	require.NoError(t, err)

	assert.Greater(t, sharp[0].ProbWin, flat[0].ProbWin)
	assert.InDelta(t, 0.5, flat[0].ProbWin, 0.05)
}

func TestHeuristicDefaultsTemperature(t *testing.T) {
	s := NewHeuristicStrategy(DefaultWeights(), 0, nil)

	assert.Equal(t, 1.0, s.Temperature)
}

func TestNewUnknownStrategy(t *testing.T) {
	_, err := New(Params{Name: "crystal_ball"})

	assert.ErrorIs(t, err, models.ErrUnknownStrategy)
	assert.False(t, IsRegistered("crystal_ball"))
	assert.Equal(t, []string{"box_ratio", "heuristic", "uniform"}, Names())
}

type brokenStrategy struct {
	probs []float64
	err   error
}

func (b brokenStrategy) Name() string { return "broken" }

func (b brokenStrategy) Score([]models.RunnerRow) ([]float64, error) {
	return b.probs, b.err
}

func TestScoreRowsRejectsBrokenContract(t *testing.T) {
	rows := []models.RunnerRow{runner(1, 1, ""), runner(1, 2, "")}

	tests := []struct {
		name  string
		probs []float64
	}{
		{name: "sum above one", probs: []float64{0.6, 0.6}},
		{name: "sum below one", probs: []float64{0.3, 0.3}},
		{name: "zero probability", probs: []float64{1.0, 0}},
		{name: "negative probability", probs: []float64{1.5, -0.5}},
		{name: "wrong length", probs: []float64{1.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScorer(brokenStrategy{probs: tt.probs}).ScoreRows(rows)
			assert.ErrorIs(t, err, models.ErrProbabilitySum)
		})
	}
}

func TestScoreRowsPropagatesStrategyError(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewScorer(brokenStrategy{err: boom}).ScoreRows([]models.RunnerRow{runner(1, 1, "")})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "QSTR/2025-09-08/R1")
}
