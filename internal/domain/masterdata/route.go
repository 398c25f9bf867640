package masterdata

import (
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
)

// Route is a delivery route, stored upstream as a sales territory.
type Route struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parentId"`
	Active   bool   `json:"active"`
}

// Validate checks the route name.
func (r *Route) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return shared.NewValidationError("route name is required")
	}
	if r.ParentID < 0 {
		return shared.NewValidationError("parent route id cannot be negative")
	}
	return nil
}
