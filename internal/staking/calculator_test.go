package staking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/form-guide/internal/models"
)

func scored(race, box int, p float64) models.ScoredRow {
	return models.ScoredRow{
		RunnerRow: models.RunnerRow{Track: "QSTR", Date: "2025-09-08", Race: race, Box: box, Runner: "Dog"},
		ProbWin:   p,
	}
}

func quote(race, box int, odds float64) models.OddsQuote {
	return models.OddsQuote{Track: "QSTR", Date: "2025-09-08", Race: race, Box: box, OddsDecimal: odds}
}

func standardCalculator() *Calculator {
	return NewCalculator(Config{Bankroll: 1000, KellyFraction: 0.25, MinEdge: DefaultMinEdge})
}

func TestEvaluateValueBet(t *testing.T) {
	bet, ok := standardCalculator().Evaluate(scored(1, 1, 0.5), 3.0)

	require.True(t, ok)
	assert.InDelta(t, 1.0/3.0, bet.Implied, 1e-12)
	assert.InDelta(t, 0.5-1.0/3.0, bet.Edge, 1e-12)
	assert.InDelta(t, 0.25, bet.Kelly, 1e-12)
	assert.Equal(t, "62.5", bet.Stake.String())
	assert.True(t, bet.Stake.Equal(decimal.RequireFromString("62.50")))
}

func TestEvaluateExclusions(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		odds float64
	}{
		{name: "negative edge", p: 0.2, odds: 2.0},
		{name: "edge below minimum", p: 0.505, odds: 2.0},
		{name: "even money", p: 0.9, odds: 1.0},
		{name: "odds below one", p: 0.9, odds: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := standardCalculator().Evaluate(scored(1, 1, tt.p), tt.odds)
			assert.False(t, ok)
		})
	}
}

func TestEvaluateMinEdgeBoundary(t *testing.T) {
	c := NewCalculator(Config{Bankroll: 1000, KellyFraction: 0.25, MinEdge: 0.05})

	_, ok := c.Evaluate(scored(1, 1, 0.54), 2.0)
	assert.False(t, ok)

	_, ok = c.Evaluate(scored(1, 1, 0.56), 2.0)
	assert.True(t, ok)
}

func TestEvaluateZeroMinEdge(t *testing.T) {
	c := NewCalculator(Config{Bankroll: 1000, KellyFraction: 0.25, MinEdge: 0})

	assert.Zero(t, c.Config().MinEdge)

	bet, ok := c.Evaluate(scored(1, 1, 0.505), 2.0)
	require.True(t, ok, "edge 0.005 passes a zero threshold")
	assert.InDelta(t, 0.005, bet.Edge, 1e-12)
	assert.Equal(t, "2.50", bet.Stake.StringFixed(2))

	_, ok = c.Evaluate(scored(1, 1, 0.49), 2.0)
	assert.False(t, ok, "negative edge stays excluded")
}

func TestStakeRoundsHalfUpToCents(t *testing.T) {
	c := NewCalculator(Config{Bankroll: 100, KellyFraction: 1})

	assert.Equal(t, "12.35", c.Stake(0.12345).StringFixed(2))
	assert.Equal(t, "0.00", c.Stake(0.00004).StringFixed(2))
}

func TestStakeCap(t *testing.T) {
	c := NewCalculator(Config{Bankroll: 1000, KellyFraction: 0.25, MaxStake: 50})

	bet, ok := c.Evaluate(scored(1, 1, 0.5), 3.0)

	require.True(t, ok)
	assert.Equal(t, "50.00", bet.Stake.StringFixed(2))
}

func TestTinyStakeIsKeptAtZero(t *testing.T) {
	c := NewCalculator(Config{Bankroll: 1, KellyFraction: 0.01, MinEdge: DefaultMinEdge})

	bet, ok := c.Evaluate(scored(1, 1, 0.52), 2.0)

	require.True(t, ok)
	assert.InDelta(t, 0.02, bet.Edge, 1e-12)
	assert.Equal(t, "0.00", bet.Stake.StringFixed(2))
}

func TestKelly(t *testing.T) {
	assert.InDelta(t, 0.25, Kelly(0.5, 3.0), 1e-12)
	assert.Zero(t, Kelly(0.2, 2.0))
	assert.Zero(t, Kelly(0.9, 1.0))
	assert.Zero(t, Kelly(0, 3.0))
}

func TestValueBetsJoinAndOrder(t *testing.T) {
	rows := []models.ScoredRow{
		scored(2, 1, 0.5),
		scored(1, 1, 0.4),
		scored(1, 2, 0.5),
		scored(1, 3, 0.5), // no quote
		scored(1, 4, 0.1),
	}
	quotes := []models.OddsQuote{
		quote(2, 1, 3.0),
		quote(1, 1, 3.0),
		quote(1, 2, 3.0),
		quote(1, 2, 10.0), // duplicate, ignored
		quote(1, 4, 3.0),
	}

	bets := standardCalculator().ValueBets(rows, quotes)

	require.Len(t, bets, 3)
	assert.Equal(t, models.RowKey{RaceKey: models.RaceKey{Track: "QSTR", Date: "2025-09-08", Race: 1}, Box: 2}, bets[0].Key())
	assert.Equal(t, 1, bets[1].Box)
	assert.Equal(t, 1, bets[1].Race)
	assert.Equal(t, 2, bets[2].Race)
	assert.True(t, bets[0].Stake.GreaterThan(bets[1].Stake))
	assert.Equal(t, 3.0, bets[0].OddsDecimal)
}

func TestValueBetsWithoutQuotes(t *testing.T) {
	bets := standardCalculator().ValueBets([]models.ScoredRow{scored(1, 1, 0.9)}, nil)

	assert.Empty(t, bets)
}

func TestSummarize(t *testing.T) {
	bets := standardCalculator().ValueBets(
		[]models.ScoredRow{scored(1, 1, 0.5), scored(1, 2, 0.5)},
		[]models.OddsQuote{quote(1, 1, 3.0), quote(1, 2, 3.0)},
	)

	s := Summarize(bets)

	assert.Equal(t, 2, s.Bets)
	assert.Equal(t, "125.00", s.TotalStake.StringFixed(2))
	assert.InDelta(t, 2*(0.5*2*62.5-0.5*62.5), s.ExpectedValue, 1e-9)
}
