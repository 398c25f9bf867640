// Package document defines the sales and purchasing documents: sales
// orders, purchase orders, goods receipt POs and A/R invoices. Every kind
// shares one header + lines + attachments shape and is numbered from its
// own tracker.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind identifies a document type.
type Kind string

const (
	KindSalesOrder    Kind = "sales_order"
	KindPurchaseOrder Kind = "purchase_order"
	KindGoodsReceipt  Kind = "grpo"
	KindARInvoice     Kind = "ar_invoice"
)

type kindInfo struct {
	prefix  string
	label   string
	folder  string
	table   string
	partner masterdata.PartnerKind
}

var kinds = map[Kind]kindInfo{
	KindSalesOrder:    {"SO", "Sales order", "sales-orders", "sales_orders", masterdata.PartnerCustomer},
	KindPurchaseOrder: {"PO", "Purchase order", "purchase-orders", "purchase_orders", masterdata.PartnerVendor},
	KindGoodsReceipt:  {"GRPO", "Goods receipt PO", "grpos", "grpos", masterdata.PartnerVendor},
	KindARInvoice:     {"INV", "A/R invoice", "ar-invoices", "ar_invoices", masterdata.PartnerCustomer},
}

// Kinds returns every document kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindSalesOrder, KindPurchaseOrder, KindGoodsReceipt, KindARInvoice}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Prefix is the document number prefix, e.g. SO.
func (k Kind) Prefix() string { return kinds[k].prefix }

// Label is the display name used in messages.
func (k Kind) Label() string { return kinds[k].label }

// Folder is the attachment sub-folder for this kind.
func (k Kind) Folder() string { return kinds[k].folder }

// PartnerKind tells whether documents of this kind reference customers or vendors.
func (k Kind) PartnerKind() masterdata.PartnerKind { return kinds[k].partner }

// Table is the header table; items and attachments use the singular form
// with _items and _attachments suffixes.
func (k Kind) Table() string { return kinds[k].table }

// ItemTable returns the line table name.
func (k Kind) ItemTable() string { return strings.TrimSuffix(kinds[k].table, "s") + "_items" }

// AttachmentTable returns the attachment table name.
func (k Kind) AttachmentTable() string { return strings.TrimSuffix(kinds[k].table, "s") + "_attachments" }

// FormatNumber renders the human-readable document number, e.g. SO-000042.
func (k Kind) FormatNumber(n int64) string {
	return fmt.Sprintf("%s-%06d", k.Prefix(), n)
}

// Document is a header with its lines and attachments.
type Document struct {
	ID              int64           `json:"id"`
	Kind            Kind            `json:"kind"`
	Number          int64           `json:"number"`
	DocNo           string          `json:"docNo"`
	PartnerCode     string          `json:"partnerCode"`
	PartnerName     string          `json:"partnerName"`
	DocDate         time.Time       `json:"docDate"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	Reference       string          `json:"reference"`
	WarehouseCode   string          `json:"warehouseCode"`
	SalesEmployeeID int64           `json:"salesEmployeeId"`
	Remarks         string          `json:"remarks"`
	Total           decimal.Decimal `json:"total"`
	Items           []Item          `json:"items"`
	Attachments     []Attachment    `json:"attachments"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Item is one document line.
type Item struct {
	ID          int64           `json:"id"`
	LineNo      int             `json:"lineNo"`
	ProductCode string          `json:"productCode"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UOM         string          `json:"uom"`
	TaxCode     string          `json:"taxCode"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// Attachment is an uploaded file. Path is relative to the storage root and
// always uses forward slashes.
type Attachment struct {
	ID          int64     `json:"id"`
	FileName    string    `json:"fileName"`
	Path        string    `json:"path"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks the header and lines and recomputes the totals.
func (d *Document) Validate() error {
	if !d.Kind.Valid() {
		return shared.NewValidationError("unknown document kind '%s'", d.Kind)
	}
	d.PartnerCode = strings.TrimSpace(d.PartnerCode)
	d.PartnerName = strings.TrimSpace(d.PartnerName)
	if d.PartnerCode == "" && d.PartnerName == "" {
		return shared.NewValidationError("%s requires a %s", d.Kind.Label(), d.Kind.PartnerKind())
	}
	if d.DocDate.IsZero() {
		return shared.NewValidationError("document date is required")
	}
	if d.DueDate != nil && d.DueDate.Before(d.DocDate) {
		return shared.NewValidationError("due date cannot be before the document date")
	}
	if len(d.Items) == 0 {
		return shared.NewValidationError("%s must have at least one item", d.Kind.Label())
	}
	for i := range d.Items {
		item := &d.Items[i]
		item.ProductCode = strings.TrimSpace(item.ProductCode)
		if item.ProductCode == "" {
			return shared.NewValidationError("item %d: product code is required", i+1)
		}
		if !item.Quantity.IsPositive() {
			return shared.NewValidationError("item %d: quantity must be greater than zero", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return shared.NewValidationError("item %d: price cannot be negative", i+1)
		}
	}
	d.CalculateTotals()
	return nil
}

// CalculateTotals sets each line total to quantity × price, numbers the
// lines, and sums them into the header total.
func (d *Document) CalculateTotals() {
	total := decimal.Zero
	for i := range d.Items {
		item := &d.Items[i]
		item.LineNo = i + 1
		item.LineTotal = item.Quantity.Mul(item.UnitPrice)
		total = total.Add(item.LineTotal)
	}
	d.Total = total
}

// ListFilter narrows a document list. PartnerName is a case-sensitive
// substring match; From and To bound the document date inclusively.
type ListFilter struct {
	PartnerName string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}
