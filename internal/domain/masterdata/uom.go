package masterdata

import (
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
)

// UOM is a unit of measure.
type UOM struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Validate checks the unit code and name.
func (u *UOM) Validate() error {
	u.Code = strings.TrimSpace(u.Code)
	u.Name = strings.TrimSpace(u.Name)
	if u.Code == "" {
		return shared.NewValidationError("UOM code is required")
	}
	if u.Name == "" {
		u.Name = u.Code
	}
	return nil
}

// UOMGroup groups units around a base unit.
type UOMGroup struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	BaseUOMID int64  `json:"baseUomId"`
}

// Validate checks the group code and name.
func (g *UOMGroup) Validate() error {
	g.Code = strings.TrimSpace(g.Code)
	g.Name = strings.TrimSpace(g.Name)
	if g.Code == "" {
		return shared.NewValidationError("UOM group code is required")
	}
	if g.Name == "" {
		g.Name = g.Code
	}
	if g.BaseUOMID < 0 {
		return shared.NewValidationError("base UOM id cannot be negative")
	}
	return nil
}
