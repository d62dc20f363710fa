// Package odds loads market price tables keyed by (track, date, race, box).
package odds

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/form-guide/internal/models"
)

// Rejected is a row that could not be turned into a valid quote.
type Rejected struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Table is the result of loading an odds file.
type Table struct {
	Quotes   []models.OddsQuote
	Rejected []Rejected
}

// Loader reads odds tables and validates every quote.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates an odds loader.
func NewLoader() *Loader {
	return &Loader{validate: validator.New()}
}

// LoadFile reads a .csv or .json odds table.
func (l *Loader) LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open odds file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.ReadCSV(f)
	case ".json":
		return l.ReadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported odds file type %q", filepath.Ext(path))
	}
}

// columns maps header names onto field indexes. "odds" is an alias of
// "odds_decimal".
type columns map[string]int

var requiredColumns = []string{"track", "date", "race", "box", "odds_decimal"}

func readHeader(header []string) (columns, error) {
	cols := make(columns, len(header))
	alias := -1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if name == "odds" {
			if alias < 0 {
				alias = i
			}
			continue
		}
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}
	if _, ok := cols["odds_decimal"]; !ok && alias >= 0 {
		cols["odds_decimal"] = alias
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("odds table missing column %q", name)
		}
	}
	return cols, nil
}

func (c columns) get(record []string, name string) string {
	i := c[name]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadCSV reads a CSV odds table. Rows that fail to parse or validate are
// collected in Table.Rejected.
func (l *Loader) ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("failed to read odds header: %w", err)
	}
	cols, err := readHeader(header)
	if err != nil {
		return nil, err
	}

	table := &Table{}
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			table.Rejected = append(table.Rejected, Rejected{Line: line, Reason: err.Error()})
			continue
		}

		q, err := l.quoteFromRecord(cols, record)
		if err != nil {
			table.Rejected = append(table.Rejected, Rejected{Line: line, Reason: err.Error()})
			continue
		}
		table.Quotes = append(table.Quotes, q)
	}
	return table, nil
}

func (l *Loader) quoteFromRecord(cols columns, record []string) (models.OddsQuote, error) {
	race, err := strconv.Atoi(cols.get(record, "race"))
	if err != nil {
		return models.OddsQuote{}, fmt.Errorf("invalid race: %w", err)
	}
	box, err := strconv.Atoi(cols.get(record, "box"))
	if err != nil {
		return models.OddsQuote{}, fmt.Errorf("invalid box: %w", err)
	}
	price, err := ParsePrice(cols.get(record, "odds_decimal"))
	if err != nil {
		return models.OddsQuote{}, err
	}

	q := models.OddsQuote{
		Track:       strings.ToUpper(cols.get(record, "track")),
		Date:        cols.get(record, "date"),
		Race:        race,
		Box:         box,
		OddsDecimal: price,
	}
	return q, l.Validate(q)
}

type jsonQuote struct {
	Track       string          `json:"track"`
	Date        string          `json:"date"`
	Race        int             `json:"race"`
	Box         int             `json:"box"`
	OddsDecimal json.RawMessage `json:"odds_decimal"`
	Odds        json.RawMessage `json:"odds"`
}

// ReadJSON reads a JSON array of quotes. Prices may be numbers or strings.
func (l *Loader) ReadJSON(r io.Reader) (*Table, error) {
	var raw []jsonQuote
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("failed to decode odds JSON: %w", err)
	}

	table := &Table{}
	for i, jq := range raw {
		msg := jq.OddsDecimal
		if len(msg) == 0 {
			msg = jq.Odds
		}
		price, err := ParsePrice(strings.Trim(string(msg), `"`))
		if err == nil {
			q := models.OddsQuote{
				Track:       strings.ToUpper(strings.TrimSpace(jq.Track)),
				Date:        strings.TrimSpace(jq.Date),
				Race:        jq.Race,
				Box:         jq.Box,
				OddsDecimal: price,
			}
			if err = l.Validate(q); err == nil {
				table.Quotes = append(table.Quotes, q)
				continue
			}
		}
		table.Rejected = append(table.Rejected, Rejected{Line: i + 1, Reason: err.Error()})
	}
	return table, nil
}

// Validate checks a quote's struct tags.
func (l *Loader) Validate(q models.OddsQuote) error {
	if err := l.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("field '%s' failed validation: %s", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
