package odds

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/form-guide/internal/models"
)

// ParsePrice reads decimal odds ("3.50", "$3.50"), fractional odds ("5/2") or
// evens ("EVS", "evens") and returns decimal odds.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, fmt.Errorf("%w: empty price", models.ErrInvalidOdds)
	}

	switch strings.ToLower(s) {
	case "evs", "evens", "even":
		return 2.0, nil
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := decimal.NewFromString(strings.TrimSpace(num))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", models.ErrInvalidOdds, s)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(den))
		if err != nil || !d.IsPositive() {
			return 0, fmt.Errorf("%w: %q", models.ErrInvalidOdds, s)
		}
		return n.Div(d).Add(decimal.NewFromInt(1)).Round(4).InexactFloat64(), nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidOdds, s)
	}
	return d.InexactFloat64(), nil
}
