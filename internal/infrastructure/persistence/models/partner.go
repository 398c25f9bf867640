package models

import (
	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/shopspring/decimal"
)

// CustomerGroupModel is the persistence model for customer groups.
type CustomerGroupModel struct {
	BaseModel
	Name string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (CustomerGroupModel) TableName() string {
	return "customer_groups"
}

func (m *CustomerGroupModel) ToDomain() *masterdata.PartnerGroup {
	return &masterdata.PartnerGroup{ID: m.ID, Kind: masterdata.PartnerCustomer, Name: m.Name}
}

func (m *CustomerGroupModel) FromDomain(g *masterdata.PartnerGroup) {
	m.ID = g.ID
	m.Name = g.Name
}

// VendorGroupModel is the persistence model for vendor groups.
type VendorGroupModel struct {
	BaseModel
	Name string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (VendorGroupModel) TableName() string {
	return "vendor_groups"
}

func (m *VendorGroupModel) ToDomain() *masterdata.PartnerGroup {
	return &masterdata.PartnerGroup{ID: m.ID, Kind: masterdata.PartnerVendor, Name: m.Name}
}

func (m *VendorGroupModel) FromDomain(g *masterdata.PartnerGroup) {
	m.ID = g.ID
	m.Name = g.Name
}

// PartnerColumns holds the columns shared by customers and vendors. It is
// exported because GORM skips unexported embedded structs.
type PartnerColumns struct {
	Code          string          `gorm:"type:varchar(15);not null"`
	Name          string          `gorm:"type:varchar(100);not null"`
	GroupID       *int64          `gorm:"index"`
	Phone         string          `gorm:"type:varchar(50)"`
	Mobile        string          `gorm:"type:varchar(50)"`
	Email         string          `gorm:"type:varchar(100)"`
	Address       string          `gorm:"type:text"`
	City          string          `gorm:"type:varchar(100)"`
	ContactPerson string          `gorm:"type:varchar(100)"`
	TaxCode       string          `gorm:"type:varchar(8)"`
	RouteID       *int64          `gorm:"index"`
	CreditLimit   decimal.Decimal `gorm:"type:decimal(19,6);not null;default:0"`
	Balance       decimal.Decimal `gorm:"type:decimal(19,6);not null;default:0"`
	Remarks       string          `gorm:"type:text"`
	Active        bool            `gorm:"not null"`
	// GroupName is filled by the group join on reads only.
	GroupName string `gorm:"->;-:migration"`
}

func (c *PartnerColumns) toDomain(id int64, kind masterdata.PartnerKind) *masterdata.BusinessPartner {
	return &masterdata.BusinessPartner{
		ID:            id,
		Kind:          kind,
		Code:          c.Code,
		Name:          c.Name,
		GroupCode:     idOrZero(c.GroupID),
		GroupName:     c.GroupName,
		Phone:         c.Phone,
		Mobile:        c.Mobile,
		Email:         c.Email,
		Address:       c.Address,
		City:          c.City,
		ContactPerson: c.ContactPerson,
		TaxCode:       c.TaxCode,
		RouteID:       idOrZero(c.RouteID),
		CreditLimit:   c.CreditLimit,
		Balance:       c.Balance,
		Remarks:       c.Remarks,
		Active:        c.Active,
	}
}

func (c *PartnerColumns) fromDomain(p *masterdata.BusinessPartner) {
	c.Code = p.Code
	c.Name = p.Name
	c.GroupID = nullableID(p.GroupCode)
	c.Phone = p.Phone
	c.Mobile = p.Mobile
	c.Email = p.Email
	c.Address = p.Address
	c.City = p.City
	c.ContactPerson = p.ContactPerson
	c.TaxCode = p.TaxCode
	c.RouteID = nullableID(p.RouteID)
	c.CreditLimit = p.CreditLimit
	c.Balance = p.Balance
	c.Remarks = p.Remarks
	c.Active = p.Active
}

// CustomerModel is the persistence model for customers.
type CustomerModel struct {
	BaseModel
	PartnerColumns
	Group *CustomerGroupModel `gorm:"foreignKey:GroupID;constraint:OnDelete:NO ACTION"`
	Route *RouteModel         `gorm:"foreignKey:RouteID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

func (m *CustomerModel) ToDomain() *masterdata.BusinessPartner {
	return m.toDomain(m.ID, masterdata.PartnerCustomer)
}

func (m *CustomerModel) FromDomain(p *masterdata.BusinessPartner) {
	m.ID = p.ID
	m.fromDomain(p)
}

// VendorModel is the persistence model for vendors.
type VendorModel struct {
	BaseModel
	PartnerColumns
	Group *VendorGroupModel `gorm:"foreignKey:GroupID;constraint:OnDelete:NO ACTION"`
	Route *RouteModel       `gorm:"foreignKey:RouteID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

func (m *VendorModel) ToDomain() *masterdata.BusinessPartner {
	return m.toDomain(m.ID, masterdata.PartnerVendor)
}

func (m *VendorModel) FromDomain(p *masterdata.BusinessPartner) {
	m.ID = p.ID
	m.fromDomain(p)
}
