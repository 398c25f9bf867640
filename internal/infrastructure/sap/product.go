package sap

import (
	"context"
	"strconv"
	"strings"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

// defaultPriceList is the price list a product's Price is read from and
// written to.
const defaultPriceList = 1

var productFields = []string{
	"ItemCode", "ItemName", "ForeignName", "BarCode", "UoMGroupEntry", "SalesUnit",
	"PurchaseUnit", "SalesVATGroup", "InventoryItem", "SalesItem", "PurchaseItem",
	"Valid", "User_Text", "ItemPrices",
}

type itemPrice struct {
	PriceList Int    `json:"PriceList"`
	Price     Number `json:"Price"`
}

type productDTO struct {
	ItemCode      string      `json:"ItemCode"`
	ItemName      string      `json:"ItemName"`
	ForeignName   string      `json:"ForeignName"`
	BarCode       string      `json:"BarCode"`
	UoMGroupEntry Int         `json:"UoMGroupEntry"`
	SalesUnit     string      `json:"SalesUnit"`
	PurchaseUnit  string      `json:"PurchaseUnit"`
	SalesVATGroup string      `json:"SalesVATGroup"`
	InventoryItem YesNo       `json:"InventoryItem"`
	SalesItem     YesNo       `json:"SalesItem"`
	PurchaseItem  YesNo       `json:"PurchaseItem"`
	Valid         YesNo       `json:"Valid"`
	UserText      string      `json:"User_Text"`
	ItemPrices    []itemPrice `json:"ItemPrices"`
}

type productCreate struct {
	ItemCode      string      `json:"ItemCode"`
	ItemName      string      `json:"ItemName"`
	ForeignName   *string     `json:"ForeignName,omitempty"`
	BarCode       *string     `json:"BarCode,omitempty"`
	UoMGroupEntry *int64      `json:"UoMGroupEntry,omitempty"`
	SalesUnit     *string     `json:"SalesUnit,omitempty"`
	PurchaseUnit  *string     `json:"PurchaseUnit,omitempty"`
	SalesVATGroup *string     `json:"SalesVATGroup,omitempty"`
	InventoryItem YesNo       `json:"InventoryItem"`
	SalesItem     YesNo       `json:"SalesItem"`
	PurchaseItem  YesNo       `json:"PurchaseItem"`
	Valid         YesNo       `json:"Valid"`
	UserText      *string     `json:"User_Text,omitempty"`
	ItemPrices    []itemPrice `json:"ItemPrices"`
}

type productPatch struct {
	ItemName      string      `json:"ItemName"`
	ForeignName   string      `json:"ForeignName"`
	BarCode       *string     `json:"BarCode,omitempty"`
	UoMGroupEntry *int64      `json:"UoMGroupEntry,omitempty"`
	SalesUnit     string      `json:"SalesUnit"`
	PurchaseUnit  string      `json:"PurchaseUnit"`
	SalesVATGroup *string     `json:"SalesVATGroup,omitempty"`
	InventoryItem YesNo       `json:"InventoryItem"`
	SalesItem     YesNo       `json:"SalesItem"`
	PurchaseItem  YesNo       `json:"PurchaseItem"`
	Valid         YesNo       `json:"Valid"`
	UserText      string      `json:"User_Text"`
	ItemPrices    []itemPrice `json:"ItemPrices"`
}

// ProductStore maps products onto Items.
type ProductStore struct {
	set entitySet[productDTO]
}

// NewProductStore creates the remote product store.
func NewProductStore(client *Client) *ProductStore {
	return &ProductStore{set: newEntitySet[productDTO](client, "Items", "Product", productFields...)}
}

func productToDomain(r *productDTO) *masterdata.Product {
	p := &masterdata.Product{
		Code:          r.ItemCode,
		Name:          r.ItemName,
		Description:   r.ForeignName,
		Barcode:       r.BarCode,
		UOMGroupID:    int64(r.UoMGroupEntry),
		SalesUOM:      r.SalesUnit,
		PurchaseUOM:   r.PurchaseUnit,
		TaxCode:       r.SalesVATGroup,
		InventoryItem: r.InventoryItem.Bool(),
		SalesItem:     r.SalesItem.Bool(),
		PurchaseItem:  r.PurchaseItem.Bool(),
		Active:        r.Valid.Bool(),
		Remarks:       r.UserText,
	}
	for _, ip := range r.ItemPrices {
		if ip.PriceList == defaultPriceList {
			p.Price = ip.Price.Decimal
			break
		}
	}
	return p
}

func prices(p *masterdata.Product) []itemPrice {
	return []itemPrice{{PriceList: defaultPriceList, Price: NewNumber(p.Price)}}
}

func productToCreate(p *masterdata.Product) productCreate {
	return productCreate{
		ItemCode:      p.Code,
		ItemName:      p.Name,
		ForeignName:   NilIfEmpty(p.Description),
		BarCode:       NilIfEmpty(p.Barcode),
		UoMGroupEntry: NilIfZero(p.UOMGroupID),
		SalesUnit:     NilIfEmpty(p.SalesUOM),
		PurchaseUnit:  NilIfEmpty(p.PurchaseUOM),
		SalesVATGroup: NilIfEmpty(p.TaxCode),
		InventoryItem: FromBool(p.InventoryItem),
		SalesItem:     FromBool(p.SalesItem),
		PurchaseItem:  FromBool(p.PurchaseItem),
		Valid:         FromBool(p.Active),
		UserText:      NilIfEmpty(p.Remarks),
		ItemPrices:    prices(p),
	}
}

func productToPatch(p *masterdata.Product) productPatch {
	return productPatch{
		ItemName:      p.Name,
		ForeignName:   p.Description,
		BarCode:       NilIfEmpty(p.Barcode),
		UoMGroupEntry: NilIfZero(p.UOMGroupID),
		SalesUnit:     p.SalesUOM,
		PurchaseUnit:  p.PurchaseUOM,
		SalesVATGroup: NilIfEmpty(p.TaxCode),
		InventoryItem: FromBool(p.InventoryItem),
		SalesItem:     FromBool(p.SalesItem),
		PurchaseItem:  FromBool(p.PurchaseItem),
		Valid:         FromBool(p.Active),
		UserText:      p.Remarks,
		ItemPrices:    prices(p),
	}
}

// FindAll lists items. Group filters by UoM group entry.
func (s *ProductStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.Product, error) {
	f := NewFilter().Contains("ItemCode", filter.Code).Contains("ItemName", filter.Name)
	if group := strings.TrimSpace(filter.Group); group != "" {
		entry, err := strconv.ParseInt(group, 10, 64)
		if err != nil {
			return nil, shared.NewValidationError("product group filter must be a UOM group id")
		}
		f.Eq("UoMGroupEntry", entry)
	}

	rows, err := s.set.list(ctx, f.String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.Product, 0, len(rows))
	for i := range rows {
		out = append(out, *productToDomain(&rows[i]))
	}
	return out, nil
}

// FindByKey returns the item with ItemCode key.
func (s *ProductStore) FindByKey(ctx context.Context, key string) (*masterdata.Product, error) {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, code)
	if err != nil {
		return nil, err
	}
	return productToDomain(r), nil
}

// Create adds an item.
func (s *ProductStore) Create(ctx context.Context, p *masterdata.Product) (*masterdata.Product, error) {
	r, err := s.set.create(ctx, productToCreate(p))
	if err != nil {
		return nil, err
	}
	return productToDomain(r), nil
}

// Update patches the item with ItemCode key.
func (s *ProductStore) Update(ctx context.Context, key string, p *masterdata.Product) (*masterdata.Product, error) {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.patch(ctx, code, productToPatch(p))
	if err != nil {
		return nil, err
	}
	return productToDomain(r), nil
}

// Delete removes the item with ItemCode key.
func (s *ProductStore) Delete(ctx context.Context, key string) error {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return err
	}
	return s.set.delete(ctx, code)
}

var _ masterdata.ProductStore = (*ProductStore)(nil)
