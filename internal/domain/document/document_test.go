package document

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

func TestKind(t *testing.T) {
	tests := []struct {
		kind      Kind
		prefix    string
		table     string
		items     string
		files     string
		partner   masterdata.PartnerKind
		formatted string
	}{
		{KindSalesOrder, "SO", "sales_orders", "sales_order_items", "sales_order_attachments", masterdata.PartnerCustomer, "SO-000042"},
		{KindPurchaseOrder, "PO", "purchase_orders", "purchase_order_items", "purchase_order_attachments", masterdata.PartnerVendor, "PO-000042"},
		{KindGoodsReceipt, "GRPO", "grpos", "grpo_items", "grpo_attachments", masterdata.PartnerVendor, "GRPO-000042"},
		{KindARInvoice, "INV", "ar_invoices", "ar_invoice_items", "ar_invoice_attachments", masterdata.PartnerCustomer, "INV-000042"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.True(t, tt.kind.Valid())
			assert.Equal(t, tt.prefix, tt.kind.Prefix())
			assert.Equal(t, tt.table, tt.kind.Table())
			assert.Equal(t, tt.items, tt.kind.ItemTable())
			assert.Equal(t, tt.files, tt.kind.AttachmentTable())
			assert.Equal(t, tt.partner, tt.kind.PartnerKind())
			assert.Equal(t, tt.formatted, tt.kind.FormatNumber(42))
		})
	}
	assert.False(t, Kind("quote").Valid())
	assert.Len(t, Kinds(), 4)
}

func validDocument() *Document {
	return &Document{
		Kind:        KindSalesOrder,
		PartnerCode: "C001",
		DocDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []Item{
			{ProductCode: "P1", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("2.50")},
			{ProductCode: "P2", Quantity: decimal.RequireFromString("0.5"), UnitPrice: decimal.NewFromInt(10)},
		},
	}
}

func TestDocument_Validate(t *testing.T) {
	t.Run("computes totals", func(t *testing.T) {
		d := validDocument()
		require.NoError(t, d.Validate())

		assert.True(t, d.Items[0].LineTotal.Equal(decimal.RequireFromString("7.5")))
		assert.True(t, d.Items[1].LineTotal.Equal(decimal.NewFromInt(5)))
		assert.True(t, d.Total.Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, 2, d.Items[1].LineNo)
	})

	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	cases := map[string]func(d *Document){
		"no items":        func(d *Document) { d.Items = nil },
		"no partner":      func(d *Document) { d.PartnerCode = "" },
		"no date":         func(d *Document) { d.DocDate = time.Time{} },
		"due before date": func(d *Document) { d.DueDate = &due },
		"zero quantity":   func(d *Document) { d.Items[0].Quantity = decimal.Zero },
		"negative price":  func(d *Document) { d.Items[1].UnitPrice = decimal.NewFromInt(-1) },
		"missing product": func(d *Document) { d.Items[0].ProductCode = " " },
		"unknown kind":    func(d *Document) { d.Kind = "quote" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := validDocument()
			mutate(d)
			err := d.Validate()
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, shared.CodeValidation, de.Code)
		})
	}
}
