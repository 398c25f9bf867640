package models

import (
	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/shopspring/decimal"
)

// UOMModel is the persistence model for units of measure.
type UOMModel struct {
	BaseModel
	Code string `gorm:"type:varchar(20);not null"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (UOMModel) TableName() string {
	return "uoms"
}

func (m *UOMModel) ToDomain() *masterdata.UOM {
	return &masterdata.UOM{ID: m.ID, Code: m.Code, Name: m.Name}
}

func (m *UOMModel) FromDomain(u *masterdata.UOM) {
	m.ID = u.ID
	m.Code = u.Code
	m.Name = u.Name
}

// UOMGroupModel is the persistence model for UOM groups.
type UOMGroupModel struct {
	BaseModel
	Code      string    `gorm:"type:varchar(20);not null"`
	Name      string    `gorm:"type:varchar(100);not null"`
	BaseUOMID *int64    `gorm:"column:base_uom_id;index"`
	BaseUOM   *UOMModel `gorm:"foreignKey:BaseUOMID;constraint:OnDelete:NO ACTION"`
}

// TableName returns the table name for GORM
func (UOMGroupModel) TableName() string {
	return "uom_groups"
}

func (m *UOMGroupModel) ToDomain() *masterdata.UOMGroup {
	return &masterdata.UOMGroup{ID: m.ID, Code: m.Code, Name: m.Name, BaseUOMID: idOrZero(m.BaseUOMID)}
}

func (m *UOMGroupModel) FromDomain(g *masterdata.UOMGroup) {
	m.ID = g.ID
	m.Code = g.Code
	m.Name = g.Name
	m.BaseUOMID = nullableID(g.BaseUOMID)
}

// ProductModel is the persistence model for products.
type ProductModel struct {
	BaseModel
	Code          string          `gorm:"type:varchar(50);not null"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Barcode       string          `gorm:"type:varchar(50)"`
	UOMGroupID    *int64          `gorm:"column:uom_group_id;index"`
	UOMGroup      *UOMGroupModel  `gorm:"foreignKey:UOMGroupID;constraint:OnDelete:NO ACTION"`
	SalesUOM      string          `gorm:"column:sales_uom;type:varchar(20)"`
	PurchaseUOM   string          `gorm:"column:purchase_uom;type:varchar(20)"`
	TaxCode       string          `gorm:"type:varchar(8)"`
	Price         decimal.Decimal `gorm:"type:decimal(19,6);not null;default:0"`
	InventoryItem bool            `gorm:"not null"`
	SalesItem     bool            `gorm:"not null"`
	PurchaseItem  bool            `gorm:"not null"`
	Active        bool            `gorm:"not null"`
	Remarks       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

func (m *ProductModel) ToDomain() *masterdata.Product {
	return &masterdata.Product{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Description:   m.Description,
		Barcode:       m.Barcode,
		UOMGroupID:    idOrZero(m.UOMGroupID),
		SalesUOM:      m.SalesUOM,
		PurchaseUOM:   m.PurchaseUOM,
		TaxCode:       m.TaxCode,
		Price:         m.Price,
		InventoryItem: m.InventoryItem,
		SalesItem:     m.SalesItem,
		PurchaseItem:  m.PurchaseItem,
		Active:        m.Active,
		Remarks:       m.Remarks,
	}
}

func (m *ProductModel) FromDomain(p *masterdata.Product) {
	m.ID = p.ID
	m.Code = p.Code
	m.Name = p.Name
	m.Description = p.Description
	m.Barcode = p.Barcode
	m.UOMGroupID = nullableID(p.UOMGroupID)
	m.SalesUOM = p.SalesUOM
	m.PurchaseUOM = p.PurchaseUOM
	m.TaxCode = p.TaxCode
	m.Price = p.Price
	m.InventoryItem = p.InventoryItem
	m.SalesItem = p.SalesItem
	m.PurchaseItem = p.PurchaseItem
	m.Active = p.Active
	m.Remarks = p.Remarks
}

// TaxCodeModel is the persistence model for tax codes.
type TaxCodeModel struct {
	BaseModel
	Code     string          `gorm:"type:varchar(8);not null"`
	Name     string          `gorm:"type:varchar(100);not null"`
	Category string          `gorm:"type:varchar(10);not null;default:'output'"`
	Rate     decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	Active   bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxCodeModel) TableName() string {
	return "tax_codes"
}

func (m *TaxCodeModel) ToDomain() *masterdata.TaxCode {
	return &masterdata.TaxCode{
		ID:       m.ID,
		Code:     m.Code,
		Name:     m.Name,
		Category: masterdata.TaxCategory(m.Category),
		Rate:     m.Rate,
		Active:   m.Active,
	}
}

func (m *TaxCodeModel) FromDomain(t *masterdata.TaxCode) {
	m.ID = t.ID
	m.Code = t.Code
	m.Name = t.Name
	m.Category = string(t.Category)
	m.Rate = t.Rate
	m.Active = t.Active
}
