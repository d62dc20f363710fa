package parser

import (
	"sort"

	"github.com/yourusername/form-guide/internal/models"
)

// Phase is the document-level parse state.
type Phase int

const (
	AwaitingRaceHeader Phase = iota
	InRace
)

func (p Phase) String() string {
	if p == InRace {
		return "in_race"
	}
	return "awaiting_race_header"
}

// ParseState is threaded through the fold over a document's lines. It is a
// value: Step never mutates its input.
type ParseState struct {
	Phase   Phase
	Context models.RaceContext
}

// Event is the side output of one fold step.
type Event struct {
	Kind   LineKind
	Row    *models.RunnerRow
	Orphan bool
}

// Step advances the parse state by one classified line.
//
//	AWAITING_RACE_HEADER --header--> IN_RACE
//	IN_RACE --runner--> IN_RACE (row emitted)
//	IN_RACE --header--> IN_RACE (context replaced)
//	IN_RACE --annotation--> IN_RACE (distance/grade updated)
//
// Runner lines seen while awaiting a header are orphans and emit no row.
func Step(state ParseState, cls Classification, id Identity) (ParseState, Event) {
	ev := Event{Kind: cls.Kind}

	switch cls.Kind {
	case KindHeader:
		state = ParseState{
			Phase: InRace,
			Context: models.RaceContext{
				Race:     cls.Header.Race,
				Distance: cls.Header.Distance,
				Grade:    cls.Header.Grade,
			},
		}

	case KindAnnotation:
		if state.Phase == InRace {
			if cls.Header.Distance > 0 {
				state.Context = state.Context.WithDistance(cls.Header.Distance)
			}
			if cls.Header.Grade != "" {
				state.Context = state.Context.WithGrade(cls.Header.Grade)
			}
		}

	case KindRunner:
		if state.Phase != InRace {
			ev.Orphan = true
			break
		}
		ev.Row = &models.RunnerRow{
			Track:    id.Track,
			Date:     id.Date,
			Race:     state.Context.Race,
			Box:      cls.Runner.Box,
			Runner:   cls.Runner.Name,
			Trainer:  cls.Runner.Trainer,
			Form:     cls.Runner.Form,
			Distance: state.Context.Distance,
			Grade:    state.Context.Grade,
		}
	}

	return state, ev
}

// Stats counts what a parse pass saw.
type Stats struct {
	Lines       int `json:"lines"`
	Blank       int `json:"blank"`
	Noise       int `json:"noise"`
	Headers     int `json:"headers"`
	Runners     int `json:"runners"`
	Annotations int `json:"annotations"`
	Unmatched   int `json:"unmatched"`
	Orphans     int `json:"orphans"`
	Duplicates  int `json:"duplicates"`
}

// Add accumulates another pass's counts.
func (s *Stats) Add(o Stats) {
	s.Lines += o.Lines
	s.Blank += o.Blank
	s.Noise += o.Noise
	s.Headers += o.Headers
	s.Runners += o.Runners
	s.Annotations += o.Annotations
	s.Unmatched += o.Unmatched
	s.Orphans += o.Orphans
	s.Duplicates += o.Duplicates
}

func (s *Stats) record(kind LineKind) {
	switch kind {
	case KindNoise:
		s.Noise++
	case KindHeader:
		s.Headers++
	case KindRunner:
		s.Runners++
	case KindAnnotation:
		s.Annotations++
	default:
		s.Unmatched++
	}
}

// OrphanLine is a runner line that appeared before any race header.
type OrphanLine struct {
	LineNo int    `json:"line_no"` // 1-based
	Text   string `json:"text"`
}

// Result is the output of assembling one document.
type Result struct {
	Identity Identity
	Rows     []models.RunnerRow
	Stats    Stats
	Orphans  []OrphanLine
}

// Assemble folds the lines of one document into deduplicated, sorted rows.
// It holds no state between calls, so the same input always yields the same
// output.
func Assemble(id Identity, lines []string, classifier *Classifier) Result {
	if classifier == nil {
		classifier = NewClassifier()
	}

	res := Result{Identity: id}
	state := ParseState{Phase: AwaitingRaceHeader}
	var emitted []models.RunnerRow

	for i, raw := range lines {
		res.Stats.Lines++
		line, ok := NormalizeLine(raw)
		if !ok {
			res.Stats.Blank++
			continue
		}

		cls := classifier.Classify(line)
		res.Stats.record(cls.Kind)

		var ev Event
		state, ev = Step(state, cls, id)
		if ev.Orphan {
			res.Stats.Orphans++
			res.Orphans = append(res.Orphans, OrphanLine{LineNo: i + 1, Text: line.Text})
		}
		if ev.Row != nil {
			emitted = append(emitted, *ev.Row)
		}
	}

	rows, dups := Dedupe(emitted)
	res.Rows = rows
	res.Stats.Duplicates = dups
	return res
}

// Dedupe keeps the first row seen for each (track, date, race, box) and
// returns the survivors sorted by that key along with the number discarded.
func Dedupe(rows []models.RunnerRow) ([]models.RunnerRow, int) {
	seen := make(map[models.RowKey]struct{}, len(rows))
	out := make([]models.RunnerRow, 0, len(rows))
	for _, r := range rows {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	SortRows(out)
	return out, len(rows) - len(out)
}

// SortRows orders rows by track, date, race, box. The sort is stable.
func SortRows(rows []models.RunnerRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key().Less(rows[j].Key())
	})
}
