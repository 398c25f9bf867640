package masterdata

import (
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
)

// ShippingType is a carrier or delivery method.
type ShippingType struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website"`
}

// Validate checks the shipping type name.
func (s *ShippingType) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Website = strings.TrimSpace(s.Website)
	if s.Name == "" {
		return shared.NewValidationError("shipping type name is required")
	}
	return nil
}
