package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yourusername/form-guide/internal/models"
)

// Artifact file names inside a report directory.
const (
	ParsedFile        = "parsed.csv"
	ProbabilitiesFile = "probabilities.csv"
	ValueBetsFile     = "value_bets.csv"
	SummaryFile       = "summary.md"
)

// Save writes the report directory: parsed rows, probabilities, value bets
// (only when there are any) and the markdown summary. It returns the paths
// written.
func Save(dir string, s Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	var written []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		if err := writeFile(path, fn); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	rows := make([]models.RunnerRow, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, r.RunnerRow)
	}
	if err := write(ParsedFile, func(w io.Writer) error { return WriteRowsCSV(w, rows) }); err != nil {
		return written, err
	}
	if err := write(ProbabilitiesFile, func(w io.Writer) error { return WriteScoredCSV(w, s.Rows) }); err != nil {
		return written, err
	}
	if len(s.Bets) > 0 {
		if err := write(ValueBetsFile, func(w io.Writer) error { return WriteBetsCSV(w, s.Bets) }); err != nil {
			return written, err
		}
	}
	if err := write(SummaryFile, func(w io.Writer) error { return WriteMarkdown(w, s) }); err != nil {
		return written, err
	}
	return written, nil
}

// writeFile writes through a temporary file and renames it into place.
func writeFile(path string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := fn(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
