package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	raceHeaderRe = regexp.MustCompile(`^(?:[Rr][Aa][Cc][Ee]\s*|R)(\d{1,2})\b`)
	distanceRe   = regexp.MustCompile(`\b(\d{3,4})[mM]\b`)
	gradeRe      = regexp.MustCompile(`\b(Grade\s+[A-Za-z0-9]+|Maiden|Open|Mixed\s?\d+)\b`)
)

// HeaderMatch is what a race header or annotation line tells us about the race.
type HeaderMatch struct {
	Race     int
	Distance int
	Grade    string
}

// DetectRaceHeader recognises a line starting with "Race 5", "RACE5" or "R5" and
// picks up a distance ("515m") and grade label found on the same line.
func DetectRaceHeader(text string) (HeaderMatch, bool) {
	m := raceHeaderRe.FindStringSubmatch(text)
	if m == nil {
		return HeaderMatch{}, false
	}
	race, err := strconv.Atoi(m[1])
	if err != nil || race < 1 {
		return HeaderMatch{}, false
	}

	h := HeaderMatch{Race: race}
	h.Distance, _ = detectDistance(text)
	h.Grade, _ = detectGrade(text)
	return h, true
}

// DetectAnnotation recognises a line that only carries race details (distance
// and/or grade) without a race number.
func DetectAnnotation(text string) (HeaderMatch, bool) {
	distance, hasDistance := detectDistance(text)
	grade, hasGrade := detectGrade(text)
	if !hasDistance && !hasGrade {
		return HeaderMatch{}, false
	}
	return HeaderMatch{Distance: distance, Grade: grade}, true
}

func detectDistance(text string) (int, bool) {
	m := distanceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	metres, err := strconv.Atoi(m[1])
	if err != nil || metres <= 0 {
		return 0, false
	}
	return metres, true
}

func detectGrade(text string) (string, bool) {
	m := gradeRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return collapseSpaces(strings.TrimSpace(m[1])), true
}
