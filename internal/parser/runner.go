package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yourusername/form-guide/internal/models"
)

var (
	runnerLineRe    = regexp.MustCompile(`^(?:[Bb]ox\s*)?(\d{1,2})(?:\s*[.\-:)–]\s*|\s+)(.+)$`)
	boxOnlyRe       = regexp.MustCompile(`^(?:[Bb]ox\s*)?\d{1,2}[.\-:)–]?$`)
	runnerNameRe    = regexp.MustCompile(`^[A-Za-z0-9'.\- ]{2,}$`)
	trailingParenRe = regexp.MustCompile(`\s*\(.*$`)
	wideGapRe       = regexp.MustCompile(`\s{2,}`)
	trainerRe       = regexp.MustCompile(`^[A-Z][a-z]*\.?(?:\s+[A-Z][A-Za-z'\-]+)+$`)
	formRe          = regexp.MustCompile(`^[1-8xXfF]{2,10}$`)
)

// RunnerMatch is a box and runner name read from one line, plus whatever
// trainer and form columns sat to the right of the name.
type RunnerMatch struct {
	Box     int
	Name    string
	Trainer string
	Form    string
}

// MatchRunner recognises "1 Fast Dog", "Box 1 Fast Dog", "1. Fast Dog",
// "1 - Fast Dog", "1: Fast Dog" and "1) Fast Dog". The name stops at the first
// wide gap and at any parenthetical.
func MatchRunner(line Line) (RunnerMatch, bool) {
	cols := columns(line.Raw)
	if len(cols) == 0 {
		return RunnerMatch{}, false
	}

	m := runnerLineRe.FindStringSubmatch(cols[0])
	if m == nil {
		return RunnerMatch{}, false
	}
	box, err := strconv.Atoi(m[1])
	if err != nil || box < 1 || box > models.MaxBox {
		return RunnerMatch{}, false
	}

	name, ok := cleanRunnerName(m[2])
	if !ok {
		return RunnerMatch{}, false
	}

	match := RunnerMatch{Box: box, Name: name}
	for _, col := range cols[1:] {
		switch {
		case match.Form == "" && formRe.MatchString(col):
			match.Form = strings.ToUpper(col)
		case match.Trainer == "" && trainerRe.MatchString(col):
			match.Trainer = col
		}
	}
	return match, true
}

// columns splits a raw line on wide gaps. A leading column holding only the
// box token is glued back onto the name column.
func columns(raw string) []string {
	parts := wideGapRe.Split(strings.TrimSpace(raw), -1)
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = collapseSpaces(p); p != "" {
			cols = append(cols, p)
		}
	}
	if len(cols) > 1 && boxOnlyRe.MatchString(cols[0]) {
		cols = append([]string{cols[0] + " " + cols[1]}, cols[2:]...)
	}
	return cols
}

func cleanRunnerName(s string) (string, bool) {
	name := trailingParenRe.ReplaceAllString(s, "")
	name = strings.Trim(name, " -–•.")
	name = collapseSpaces(name)
	if !runnerNameRe.MatchString(name) {
		return "", false
	}
	if strings.IndexFunc(name, unicode.IsLetter) < 0 {
		return "", false
	}
	return name, true
}
