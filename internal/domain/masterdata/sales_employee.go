package masterdata

import (
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
)

// SalesEmployee is a salesperson that documents can be attributed to.
type SalesEmployee struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Telephone string `json:"telephone"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
	Remarks   string `json:"remarks"`
	Active    bool   `json:"active"`
}

// Validate checks the employee name.
func (e *SalesEmployee) Validate() error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return shared.NewValidationError("sales employee name is required")
	}
	return nil
}
