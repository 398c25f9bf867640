package models

import "github.com/distributor/backend/internal/domain/masterdata"

// WarehouseModel is the persistence model for warehouses.
type WarehouseModel struct {
	BaseModel
	Code    string `gorm:"type:varchar(8);not null"`
	Name    string `gorm:"type:varchar(100);not null"`
	Street  string `gorm:"type:varchar(200)"`
	City    string `gorm:"type:varchar(100)"`
	ZipCode string `gorm:"type:varchar(20)"`
	Country string `gorm:"type:varchar(3)"`
	Active  bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

func (m *WarehouseModel) ToDomain() *masterdata.Warehouse {
	return &masterdata.Warehouse{
		ID:      m.ID,
		Code:    m.Code,
		Name:    m.Name,
		Street:  m.Street,
		City:    m.City,
		ZipCode: m.ZipCode,
		Country: m.Country,
		Active:  m.Active,
	}
}

func (m *WarehouseModel) FromDomain(w *masterdata.Warehouse) {
	m.ID = w.ID
	m.Code = w.Code
	m.Name = w.Name
	m.Street = w.Street
	m.City = w.City
	m.ZipCode = w.ZipCode
	m.Country = w.Country
	m.Active = w.Active
}

// RouteModel is the persistence model for delivery routes.
type RouteModel struct {
	BaseModel
	Name     string      `gorm:"type:varchar(100);not null"`
	ParentID *int64      `gorm:"index"`
	Parent   *RouteModel `gorm:"foreignKey:ParentID;constraint:OnDelete:NO ACTION"`
	Active   bool        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RouteModel) TableName() string {
	return "routes"
}

func (m *RouteModel) ToDomain() *masterdata.Route {
	return &masterdata.Route{ID: m.ID, Name: m.Name, ParentID: idOrZero(m.ParentID), Active: m.Active}
}

func (m *RouteModel) FromDomain(r *masterdata.Route) {
	m.ID = r.ID
	m.Name = r.Name
	m.ParentID = nullableID(r.ParentID)
	m.Active = r.Active
}

// ShippingTypeModel is the persistence model for shipping types.
type ShippingTypeModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null"`
	Website string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ShippingTypeModel) TableName() string {
	return "shipping_types"
}

func (m *ShippingTypeModel) ToDomain() *masterdata.ShippingType {
	return &masterdata.ShippingType{ID: m.ID, Name: m.Name, Website: m.Website}
}

func (m *ShippingTypeModel) FromDomain(s *masterdata.ShippingType) {
	m.ID = s.ID
	m.Name = s.Name
	m.Website = s.Website
}

// SalesEmployeeModel is the persistence model for sales employees.
type SalesEmployeeModel struct {
	BaseModel
	Name      string `gorm:"type:varchar(100);not null"`
	Telephone string `gorm:"type:varchar(50)"`
	Mobile    string `gorm:"type:varchar(50)"`
	Email     string `gorm:"type:varchar(100)"`
	Remarks   string `gorm:"type:text"`
	Active    bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesEmployeeModel) TableName() string {
	return "sales_employees"
}

func (m *SalesEmployeeModel) ToDomain() *masterdata.SalesEmployee {
	return &masterdata.SalesEmployee{
		ID:        m.ID,
		Name:      m.Name,
		Telephone: m.Telephone,
		Mobile:    m.Mobile,
		Email:     m.Email,
		Remarks:   m.Remarks,
		Active:    m.Active,
	}
}

func (m *SalesEmployeeModel) FromDomain(e *masterdata.SalesEmployee) {
	m.ID = e.ID
	m.Name = e.Name
	m.Telephone = e.Telephone
	m.Mobile = e.Mobile
	m.Email = e.Email
	m.Remarks = e.Remarks
	m.Active = e.Active
}
