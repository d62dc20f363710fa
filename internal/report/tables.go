// Package report writes parsed rows, probabilities and value bets as CSV, JSON
// and markdown.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/yourusername/form-guide/internal/models"
)

// Column sets of the produced tables.
var (
	RowColumns    = []string{"track", "date", "race", "box", "runner", "trainer", "form", "distance", "grade"}
	ScoredColumns = []string{"track", "date", "race", "box", "runner", "trainer", "prior", "prob_win"}
	BetColumns    = []string{"track", "date", "race", "box", "runner", "odds_decimal", "prob_win", "implied", "edge", "kelly", "stake"}
)

func itoa(i int) string { return strconv.Itoa(i) }

func ftoa(f float64, prec int) string { return strconv.FormatFloat(f, 'f', prec, 64) }

func writeCSV(w io.Writer, header []string, n int, record func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(record(i)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRowsCSV writes parsed runner rows.
func WriteRowsCSV(w io.Writer, rows []models.RunnerRow) error {
	return writeCSV(w, RowColumns, len(rows), func(i int) []string {
		r := rows[i]
		distance := ""
		if r.Distance > 0 {
			distance = itoa(r.Distance)
		}
		return []string{r.Track, r.Date, itoa(r.Race), itoa(r.Box), r.Runner, r.Trainer, r.Form, distance, r.Grade}
	})
}

// WriteScoredCSV writes the probability table.
func WriteScoredCSV(w io.Writer, rows []models.ScoredRow) error {
	return writeCSV(w, ScoredColumns, len(rows), func(i int) []string {
		r := rows[i]
		return []string{r.Track, r.Date, itoa(r.Race), itoa(r.Box), r.Runner, r.Trainer, ftoa(r.Prior, 4), ftoa(r.ProbWin, 6)}
	})
}

// WriteBetsCSV writes the value bet table.
func WriteBetsCSV(w io.Writer, bets []models.ValueBet) error {
	return writeCSV(w, BetColumns, len(bets), func(i int) []string {
		b := bets[i]
		return []string{
			b.Track, b.Date, itoa(b.Race), itoa(b.Box), b.Runner,
			ftoa(b.OddsDecimal, 2), ftoa(b.ProbWin, 4), ftoa(b.Implied, 4),
			ftoa(b.Edge, 4), ftoa(b.Kelly, 4), b.Stake.StringFixed(2),
		}
	})
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
