package masterdata

import (
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable or purchasable item.
type Product struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Barcode       string          `json:"barcode"`
	UOMGroupID    int64           `json:"uomGroupId"`
	SalesUOM      string          `json:"salesUom"`
	PurchaseUOM   string          `json:"purchaseUom"`
	TaxCode       string          `json:"taxCode"`
	Price         decimal.Decimal `json:"price"`
	InventoryItem bool            `json:"inventoryItem"`
	SalesItem     bool            `json:"salesItem"`
	PurchaseItem  bool            `json:"purchaseItem"`
	Active        bool            `json:"active"`
	Remarks       string          `json:"remarks"`
}

// Validate checks the fields every backend requires.
func (p *Product) Validate() error {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	if p.Code == "" {
		return shared.NewValidationError("product code is required")
	}
	if len(p.Code) > 50 {
		return shared.NewValidationError("product code cannot exceed 50 characters")
	}
	if p.Name == "" {
		return shared.NewValidationError("product name is required")
	}
	if p.Price.IsNegative() {
		return shared.NewValidationError("price cannot be negative")
	}
	return nil
}
