package masterdata

import (
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
)

// Warehouse is a stock location.
type Warehouse struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Active  bool   `json:"active"`
}

// Validate checks code and name.
func (w *Warehouse) Validate() error {
	w.Code = strings.TrimSpace(w.Code)
	w.Name = strings.TrimSpace(w.Name)
	if w.Code == "" {
		return shared.NewValidationError("warehouse code is required")
	}
	if len(w.Code) > 8 {
		return shared.NewValidationError("warehouse code cannot exceed 8 characters")
	}
	if w.Name == "" {
		return shared.NewValidationError("warehouse name is required")
	}
	return nil
}
