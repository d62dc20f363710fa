package models

import "fmt"

// Unknown labels a track or date that could not be inferred from a document identifier.
const Unknown = "UNKNOWN"

// MaxBox is the widest greyhound field; boxes run 1..MaxBox.
const MaxBox = 8

// RaceContext is the race a parser is currently attributing runner lines to.
// A zero Race means no header has been seen yet.
type RaceContext struct {
	Race     int    `json:"race"`
	Distance int    `json:"distance,omitempty"` // metres, 0 when unknown
	Grade    string `json:"grade,omitempty"`
}

// WithDistance returns a copy of the context carrying the given distance.
func (c RaceContext) WithDistance(metres int) RaceContext {
	c.Distance = metres
	return c
}

// WithGrade returns a copy of the context carrying the given grade label.
func (c RaceContext) WithGrade(grade string) RaceContext {
	c.Grade = grade
	return c
}

// RaceKey identifies one race at one meeting.
type RaceKey struct {
	Track string
	Date  string
	Race  int
}

func (k RaceKey) String() string {
	return fmt.Sprintf("%s/%s/R%d", k.Track, k.Date, k.Race)
}

// Less orders race keys by track, date, race.
func (k RaceKey) Less(o RaceKey) bool {
	if k.Track != o.Track {
		return k.Track < o.Track
	}
	if k.Date != o.Date {
		return k.Date < o.Date
	}
	return k.Race < o.Race
}

// RowKey is the natural key of a runner row and of an odds quote.
type RowKey struct {
	RaceKey
	Box int
}

func (k RowKey) String() string {
	return fmt.Sprintf("%s/B%d", k.RaceKey, k.Box)
}

// Less orders row keys by track, date, race, box.
func (k RowKey) Less(o RowKey) bool {
	if k.RaceKey != o.RaceKey {
		return k.RaceKey.Less(o.RaceKey)
	}
	return k.Box < o.Box
}
