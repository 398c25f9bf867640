package masterdata

import (
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TaxCategory tells whether a tax code applies to sales or purchases.
type TaxCategory string

const (
	TaxOutput TaxCategory = "output"
	TaxInput  TaxCategory = "input"
)

// TaxCode is a VAT/sales tax code with its current rate.
type TaxCode struct {
	ID       int64           `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Category TaxCategory     `json:"category"`
	Rate     decimal.Decimal `json:"rate"`
	Active   bool            `json:"active"`
}

// Validate checks code, category and rate bounds.
func (t *TaxCode) Validate() error {
	t.Code = strings.TrimSpace(t.Code)
	t.Name = strings.TrimSpace(t.Name)
	if t.Code == "" {
		return shared.NewValidationError("tax code is required")
	}
	if len(t.Code) > 8 {
		return shared.NewValidationError("tax code cannot exceed 8 characters")
	}
	if t.Name == "" {
		return shared.NewValidationError("tax name is required")
	}
	switch t.Category {
	case TaxOutput, TaxInput:
	case "":
		t.Category = TaxOutput
	default:
		return shared.NewValidationError("tax category must be output or input")
	}
	if t.Rate.IsNegative() || t.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("tax rate must be between 0 and 100")
	}
	return nil
}
