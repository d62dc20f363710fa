package parser

// LineKind tags what a classified line is.
type LineKind int

const (
	KindUnmatched LineKind = iota
	KindNoise
	KindHeader
	KindRunner
	KindAnnotation
)

func (k LineKind) String() string {
	switch k {
	case KindNoise:
		return "noise"
	case KindHeader:
		return "header"
	case KindRunner:
		return "runner"
	case KindAnnotation:
		return "annotation"
	default:
		return "unmatched"
	}
}

// Classification is the tagged result of running a line through the matcher table.
// Header is set for KindHeader and KindAnnotation, Runner for KindRunner.
type Classification struct {
	Kind    LineKind
	Matcher string
	Header  HeaderMatch
	Runner  RunnerMatch
}

// Matcher is one named entry of the classification table.
type Matcher struct {
	Name  string
	Match func(line Line) (Classification, bool)
}

// Classifier tries its matchers in order and returns the first hit.
type Classifier struct {
	matchers []Matcher
}

// NewClassifier builds a classifier from an explicit matcher order. With no
// matchers it uses DefaultMatchers.
func NewClassifier(matchers ...Matcher) *Classifier {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Classifier{matchers: matchers}
}

// DefaultMatchers returns the standard priority order:
//
//  1. noise       - percentages, weights, split times, boilerplate labels
//  2. race_header - "Race N" or "RN" at the start of the line
//  3. runner      - box + runner name
//  4. annotation  - distance or grade without a race number
//
// Noise goes first: form-history lines such as "2nd 29.85 SAND 12Sep25 R7 515m"
// carry race tokens and must not reopen a race.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Name: "noise", Match: matchNoise},
		{Name: "race_header", Match: matchRaceHeader},
		{Name: "runner", Match: matchRunnerLine},
		{Name: "annotation", Match: matchAnnotation},
	}
}

// Names lists the matcher names in priority order.
func (c *Classifier) Names() []string {
	names := make([]string, len(c.matchers))
	for i, m := range c.matchers {
		names[i] = m.Name
	}
	return names
}

// Classify returns the first matching classification, or KindUnmatched.
func (c *Classifier) Classify(line Line) Classification {
	for _, m := range c.matchers {
		if cls, ok := m.Match(line); ok {
			cls.Matcher = m.Name
			return cls
		}
	}
	return Classification{Kind: KindUnmatched}
}

func matchRaceHeader(line Line) (Classification, bool) {
	h, ok := DetectRaceHeader(line.Text)
	if !ok {
		return Classification{}, false
	}
	return Classification{Kind: KindHeader, Header: h}, true
}

func matchNoise(line Line) (Classification, bool) {
	if !line.Noise {
		return Classification{}, false
	}
	return Classification{Kind: KindNoise}, true
}

func matchRunnerLine(line Line) (Classification, bool) {
	r, ok := MatchRunner(line)
	if !ok {
		return Classification{}, false
	}
	return Classification{Kind: KindRunner, Runner: r}, true
}

func matchAnnotation(line Line) (Classification, bool) {
	h, ok := DetectAnnotation(line.Text)
	if !ok {
		return Classification{}, false
	}
	return Classification{Kind: KindAnnotation, Header: h}, true
}
