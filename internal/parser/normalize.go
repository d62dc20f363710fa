// Package parser turns form-guide page text into deduplicated runner rows.
//
// Parsing a document is a single sequential fold over its lines: each line is
// normalised, classified by an ordered table of named matchers and fed to a
// pure step function that carries the current race context forward.
package parser

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Noise patterns. A line matching any of these is discarded wholesale.
var (
	percentRe     = regexp.MustCompile(`\d+(?:\.\d+)?\s?%`)
	weightRe      = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?kg\b`)
	splitTimeRe   = regexp.MustCompile(`\b\d{2}\.\d{2}\b`)
	boilerplateRe = regexp.MustCompile(`(?i)\b(?:horse|tote|sp|time):`)
)

// Line is a normalised page-text line.
type Line struct {
	// Text has internal whitespace collapsed to single spaces.
	Text string
	// Raw is trimmed but keeps the original gaps; layout engines right-align
	// columns after wide gaps and the runner matcher relies on them.
	Raw string
	// Noise is set when Text matches one of the noise patterns.
	Noise bool
}

// NormalizeLine cleans one raw line. It returns false for blank lines.
func NormalizeLine(raw string) (Line, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, norm.NFKC.String(raw))

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return Line{}, false
	}

	text := collapseSpaces(cleaned)
	return Line{Text: text, Raw: cleaned, Noise: IsNoise(text)}, true
}

// IsNoise reports whether a normalised line carries percentages, weights,
// split times or boilerplate labels.
func IsNoise(text string) bool {
	return percentRe.MatchString(text) ||
		weightRe.MatchString(text) ||
		splitTimeRe.MatchString(text) ||
		boilerplateRe.MatchString(text)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
