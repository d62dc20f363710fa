package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/form-guide/internal/models"
)

// RowValidator checks scored rows against their struct tags before they leave
// the pipeline.
type RowValidator struct {
	validate *validator.Validate
}

// NewRowValidator creates a validator for pipeline output.
func NewRowValidator() *RowValidator {
	return &RowValidator{validate: validator.New()}
}

// ValidateRow validates one scored row.
func (v *RowValidator) ValidateRow(row models.ScoredRow) error {
	if err := v.validate.Struct(row); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("row %s: field '%s' failed validation: %s", row.Key(), verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("row %s: %w", row.Key(), err)
	}
	return nil
}

// ValidateRows returns the first invalid row, if any.
func (v *RowValidator) ValidateRows(rows []models.ScoredRow) error {
	for _, row := range rows {
		if err := v.ValidateRow(row); err != nil {
			return err
		}
	}
	return nil
}
