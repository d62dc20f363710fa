package service

import (
	"fmt"
	"sync"
	"time"
)

// RunCounts is a point-in-time copy of run statistics.
type RunCounts struct {
	StartTime time.Time
	Duration  time.Duration
	Documents int
	Parsed    int
	Cached    int
	Failed    int
	Empty     int
	Rows      int
	Races     int
	Bets      int
}

// String returns a formatted string representation of the counts
func (c RunCounts) String() string {
	return fmt.Sprintf(
		"RunStats{Documents=%d, Parsed=%d, Cached=%d, Failed=%d, Empty=%d, Rows=%d, Races=%d, Bets=%d, Duration=%v}",
		c.Documents,
		c.Parsed,
		c.Cached,
		c.Failed,
		c.Empty,
		c.Rows,
		c.Races,
		c.Bets,
		c.Duration,
	)
}

// RunStats tracks document outcomes of one run. Workers update it concurrently.
type RunStats struct {
	mu     sync.RWMutex
	counts RunCounts
}

// NewRunStats creates a new stats tracker
func NewRunStats(start time.Time, documents int) *RunStats {
	return &RunStats{counts: RunCounts{StartTime: start, Documents: documents}}
}

// RecordParsed counts a freshly parsed document.
func (s *RunStats) RecordParsed(rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts.Parsed++
	if rows == 0 {
		s.counts.Empty++
	}
}

// RecordCached counts a document served from the parse cache.
func (s *RunStats) RecordCached(rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts.Cached++
	if rows == 0 {
		s.counts.Empty++
	}
}

// RecordFailed counts a document that could not be read or extracted.
func (s *RunStats) RecordFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts.Failed++
}

// Finish records the merged totals of the run.
func (s *RunStats) Finish(rows, races, bets int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts.Rows = rows
	s.counts.Races = races
	s.counts.Bets = bets
	s.counts.Duration = duration
}

// Snapshot returns the current counts.
func (s *RunStats) Snapshot() RunCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts
}

// String returns a formatted string representation of the stats
func (s *RunStats) String() string {
	return s.Snapshot().String()
}
