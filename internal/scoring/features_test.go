package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormScore(t *testing.T) {
	tests := []struct {
		form string
		want float64
	}{
		{form: "1", want: 1.0},
		{form: "11111", want: 1.0},
		{form: "8", want: 0.05},
		{form: "", want: 0.41375},
		{form: "xxf", want: 0.41375},
		// most recent (2) weighted 1.0, previous (1) weighted 0.8
		{form: "12", want: (0.75*1.0 + 1.0*0.8) / 1.8},
		// only the last five finishes count
		{form: "88811111", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			assert.InDelta(t, tt.want, FormScore(tt.form), 1e-9)
		})
	}
}

func TestPaceScore(t *testing.T) {
	assert.Zero(t, PaceScore(""))
	assert.Zero(t, PaceScore("3"))
	assert.InDelta(t, 1.0, PaceScore("81"), 1e-9)
	assert.InDelta(t, -1.0, PaceScore("18"), 1e-9)
	assert.InDelta(t, 2.0/7.0, PaceScore("5x43"), 1e-9)
}

func TestBoxValue(t *testing.T) {
	assert.Equal(t, 1.20, BoxValue(1, nil))
	assert.Equal(t, 0.88, BoxValue(8, nil))
	assert.Equal(t, 1.0, BoxValue(9, nil))
	assert.Equal(t, 2.0, BoxValue(1, map[int]float64{1: 2.0}))
}

func TestSoftmaxIsShiftInvariant(t *testing.T) {
	a := softmax([]float64{1, 2, 3}, 1)
	b := softmax([]float64{1001, 1002, 1003}, 1)

	for i := range a {
		assert.InDelta(t, a[i], b[i], 1e-12)
	}
}
