package masterdata

import (
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartnerKind distinguishes customers from vendors.
type PartnerKind string

const (
	PartnerCustomer PartnerKind = "customer"
	PartnerVendor   PartnerKind = "vendor"
)

// Label returns the display name used in messages.
func (k PartnerKind) Label() string {
	if k == PartnerVendor {
		return "Vendor"
	}
	return "Customer"
}

// BusinessPartner is a customer or a vendor.
type BusinessPartner struct {
	ID            int64           `json:"id"`
	Kind          PartnerKind     `json:"kind"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	GroupCode     int64           `json:"groupCode"`
	GroupName     string          `json:"groupName"`
	Phone         string          `json:"phone"`
	Mobile        string          `json:"mobile"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	ContactPerson string          `json:"contactPerson"`
	TaxCode       string          `json:"taxCode"`
	RouteID       int64           `json:"routeId"`
	CreditLimit   decimal.Decimal `json:"creditLimit"`
	Balance       decimal.Decimal `json:"balance"`
	Remarks       string          `json:"remarks"`
	Active        bool            `json:"active"`
}

// Validate checks the fields every backend requires.
func (p *BusinessPartner) Validate() error {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	if p.Code == "" {
		return shared.NewValidationError("%s code is required", p.Kind.Label())
	}
	if len(p.Code) > 15 {
		return shared.NewValidationError("%s code cannot exceed 15 characters", p.Kind.Label())
	}
	if p.Name == "" {
		return shared.NewValidationError("%s name is required", p.Kind.Label())
	}
	if p.CreditLimit.IsNegative() {
		return shared.NewValidationError("credit limit cannot be negative")
	}
	return nil
}

// PartnerGroup is a customer or vendor group.
type PartnerGroup struct {
	ID   int64       `json:"id"`
	Kind PartnerKind `json:"kind"`
	Name string      `json:"name"`
}

// Validate checks the group name.
func (g *PartnerGroup) Validate() error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return shared.NewValidationError("%s group name is required", g.Kind.Label())
	}
	if len(g.Name) > 20 {
		return shared.NewValidationError("%s group name cannot exceed 20 characters", g.Kind.Label())
	}
	return nil
}
