package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLine(t *testing.T, raw string) Line {
	t.Helper()
	line, ok := NormalizeLine(raw)
	require.True(t, ok, "line %q normalised to blank", raw)
	return line
}

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantText  string
		wantNoise bool
		wantOK    bool
	}{
		{name: "collapses whitespace", raw: "  1   Fast\tDog  ", wantText: "1 Fast Dog", wantOK: true},
		{name: "non-breaking space", raw: "1\u00a0Fast\u00a0Dog", wantText: "1 Fast Dog", wantOK: true},
		{name: "control characters", raw: "Race\x0b5\x00", wantText: "Race 5", wantOK: true},
		{name: "blank", raw: " \t ", wantOK: false},
		{name: "percentage", raw: "Win 12%", wantText: "Win 12%", wantNoise: true, wantOK: true},
		{name: "weight", raw: "32.5kg", wantText: "32.5kg", wantNoise: true, wantOK: true},
		{name: "split time", raw: "1st split 05.41 29.85", wantText: "1st split 05.41 29.85", wantNoise: true, wantOK: true},
		{name: "tote label", raw: "Tote: $4.60", wantText: "Tote: $4.60", wantNoise: true, wantOK: true},
		{name: "sp label", raw: "sp: 3/1", wantText: "sp: 3/1", wantNoise: true, wantOK: true},
		{name: "plain runner", raw: "3 Zippy Zoe", wantText: "3 Zippy Zoe", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, ok := NormalizeLine(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantText, line.Text)
			assert.Equal(t, tt.wantNoise, line.Noise)
		})
	}
}

func TestNormalizeLineKeepsGapsInRaw(t *testing.T) {
	line := mustLine(t, "1 Fast Dog     J Smith")

	assert.Equal(t, "1 Fast Dog     J Smith", line.Raw)
	assert.Equal(t, "1 Fast Dog J Smith", line.Text)
}

func TestDetectRaceHeader(t *testing.T) {
	tests := []struct {
		text string
		want HeaderMatch
		ok   bool
	}{
		{text: "Race 5", want: HeaderMatch{Race: 5}, ok: true},
		{text: "RACE 12 - 19:42", want: HeaderMatch{Race: 12}, ok: true},
		{text: "R7 Maiden 515m", want: HeaderMatch{Race: 7, Distance: 515, Grade: "Maiden"}, ok: true},
		{text: "race3 Grade 5 300m", want: HeaderMatch{Race: 3, Distance: 300, Grade: "Grade 5"}, ok: true},
		{text: "Race 0", ok: false},
		{text: "Race 123", ok: false},
		{text: "R2D2", ok: false},
		{text: "SAND 12Sep25 R7 515m", ok: false},
		{text: "2 Racey Lady", ok: false},
		{text: "Racing tips", ok: false},
		{text: "515m", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := DetectRaceHeader(tt.text)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDetectAnnotation(t *testing.T) {
	got, ok := DetectAnnotation("Distance 457m Mixed 4/5")
	require.True(t, ok)
	assert.Equal(t, HeaderMatch{Distance: 457, Grade: "Mixed 4"}, got)

	_, ok = DetectAnnotation("Track conditions good")
	assert.False(t, ok)
}

func TestMatchRunner(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want RunnerMatch
		ok   bool
	}{
		{name: "space", raw: "1 Fast Dog", want: RunnerMatch{Box: 1, Name: "Fast Dog"}, ok: true},
		{name: "box prefix", raw: "Box 2 Slow Dog", want: RunnerMatch{Box: 2, Name: "Slow Dog"}, ok: true},
		{name: "period", raw: "3. Zippy Zoe", want: RunnerMatch{Box: 3, Name: "Zippy Zoe"}, ok: true},
		{name: "dash", raw: "4 - Dash It", want: RunnerMatch{Box: 4, Name: "Dash It"}, ok: true},
		{name: "colon", raw: "5: Colon Cutie", want: RunnerMatch{Box: 5, Name: "Colon Cutie"}, ok: true},
		{name: "paren", raw: "6) Paren Pete", want: RunnerMatch{Box: 6, Name: "Paren Pete"}, ok: true},
		{name: "apostrophe", raw: "7 O'Brien's Boy", want: RunnerMatch{Box: 7, Name: "O'Brien's Boy"}, ok: true},
		{name: "truncated at wide gap", raw: "8 Wide Gap    $4.60", want: RunnerMatch{Box: 8, Name: "Wide Gap"}, ok: true},
		{name: "trailing parenthetical", raw: "1 Kiwi Flyer (NZ) 2yo", want: RunnerMatch{Box: 1, Name: "Kiwi Flyer"}, ok: true},
		{name: "box in own column", raw: "2      Lonely Box", want: RunnerMatch{Box: 2, Name: "Lonely Box"}, ok: true},
		{
			name: "trainer and form columns",
			raw:  "3 Form Star   1x23   J. Smith",
			want: RunnerMatch{Box: 3, Name: "Form Star", Trainer: "J. Smith", Form: "1X23"},
			ok:   true,
		},
		{name: "box nine", raw: "9 Ghost Dog", ok: false},
		{name: "box zero", raw: "0 Zero Dog", ok: false},
		{name: "two digit box", raw: "12 Dozen Dog", ok: false},
		{name: "numeric name", raw: "1 2345", ok: false},
		{name: "symbol name", raw: "1 --", ok: false},
		{name: "single char name", raw: "1 A", ok: false},
		{name: "no separator", raw: "1Fast", ok: false},
		{name: "no box", raw: "Fast Dog", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchRunner(mustLine(t, tt.raw))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClassifierPriority(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, []string{"noise", "race_header", "runner", "annotation"}, c.Names())

	tests := []struct {
		raw     string
		kind    LineKind
		matcher string
	}{
		{raw: "Race 1 - 19:42", kind: KindHeader, matcher: "race_header"},
		{raw: "2nd 29.85 SAND 12Sep25 R7 515m", kind: KindNoise, matcher: "noise"},
		{raw: "1 Fast Dog 29.85", kind: KindNoise, matcher: "noise"},
		{raw: "1 Fast Dog", kind: KindRunner, matcher: "runner"},
		{raw: "Grade 5", kind: KindAnnotation, matcher: "annotation"},
		{raw: "Trainer notes", kind: KindUnmatched, matcher: ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cls := c.Classify(mustLine(t, tt.raw))
			assert.Equal(t, tt.kind, cls.Kind)
			assert.Equal(t, tt.matcher, cls.Matcher)
		})
	}
}

func TestClassifierCustomOrder(t *testing.T) {
	c := NewClassifier(Matcher{Name: "race_header", Match: matchRaceHeader}, Matcher{Name: "noise", Match: matchNoise})

	cls := c.Classify(mustLine(t, "Race 1 - 19.42"))

	assert.Equal(t, KindHeader, cls.Kind)
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "runner", KindRunner.String())
	assert.Equal(t, "unmatched", LineKind(99).String())
}
