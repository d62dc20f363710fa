package scoring

import "math"

// boxValues is the inside-draw bias: box 1 strongest, box 8 weakest.
var boxValues = map[int]float64{
	1: 1.20, 2: 1.12, 3: 1.06, 4: 1.00,
	5: 0.96, 6: 0.92, 7: 0.90, 8: 0.88,
}

// finishValues maps a finishing position to a form contribution.
var finishValues = [9]float64{0, 1.00, 0.75, 0.55, 0.40, 0.28, 0.18, 0.10, 0.05}

// recencyWeights apply to the last five finishes, most recent first.
var recencyWeights = [formWindow]float64{1.0, 0.8, 0.6, 0.4, 0.2}

const formWindow = 5

// BoxValue returns the draw value of a box, 1.0 for anything off the table.
func BoxValue(box int, table map[int]float64) float64 {
	if table == nil {
		table = boxValues
	}
	if v, ok := table[box]; ok {
		return v
	}
	return 1.0
}

// finishes extracts the finishing positions 1..8 from a form string. Letters
// (falls, scratchings) are skipped. Oldest first.
func finishes(form string) []int {
	var out []int
	for _, r := range form {
		if r >= '1' && r <= '8' {
			out = append(out, int(r-'0'))
		}
	}
	if len(out) > formWindow {
		out = out[len(out)-formWindow:]
	}
	return out
}

// FormScore is the recency-weighted mean of the finish values over the last
// five finishes. A runner without form scores the table mean.
func FormScore(form string) float64 {
	runs := finishes(form)
	if len(runs) == 0 {
		return meanFinishValue()
	}

	var sum, weight float64
	for i := range runs {
		pos := runs[len(runs)-1-i]
		w := recencyWeights[i]
		sum += w * finishValues[pos]
		weight += w
	}
	return sum / weight
}

// PaceScore is the trend from the oldest to the newest finish in the window,
// scaled to [-1, 1]. Improving form is positive.
func PaceScore(form string) float64 {
	runs := finishes(form)
	if len(runs) < 2 {
		return 0
	}
	trend := float64(runs[0]-runs[len(runs)-1]) / 7.0
	return math.Max(-1, math.Min(1, trend))
}

func meanFinishValue() float64 {
	var sum float64
	for _, v := range finishValues[1:] {
		sum += v
	}
	return sum / float64(len(finishValues)-1)
}

// softmax returns exp(v/t) normalised over the slice, shifted by the maximum.
func softmax(values []float64, temperature float64) []float64 {
	if temperature <= 0 {
		temperature = 1
	}
	mx := math.Inf(-1)
	for _, v := range values {
		mx = math.Max(mx, v)
	}

	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		out[i] = math.Exp((v - mx) / temperature)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
