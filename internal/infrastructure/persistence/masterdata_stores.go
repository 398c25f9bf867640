package persistence

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/persistence/models"
)

// NewCustomerStore returns the local customer store.
func NewCustomerStore(db *gorm.DB) masterdata.PartnerStore {
	return newGormStore[masterdata.BusinessPartner, models.CustomerModel](db, partnerSpec("customers", "customer_groups", masterdata.PartnerCustomer))
}

// NewVendorStore returns the local vendor store.
func NewVendorStore(db *gorm.DB) masterdata.PartnerStore {
	return newGormStore[masterdata.BusinessPartner, models.VendorModel](db, partnerSpec("vendors", "vendor_groups", masterdata.PartnerVendor))
}

// partnerSpec joins the group table so reads carry the group name. Group
// filters accept a numeric group id or a group name.
func partnerSpec(table, groups string, kind masterdata.PartnerKind) storeSpec[masterdata.BusinessPartner] {
	return storeSpec[masterdata.BusinessPartner]{
		table:       table,
		label:       kind.Label(),
		code:        "code",
		name:        "name",
		unique:      "code",
		uniqueValue: func(p *masterdata.BusinessPartner) string { return p.Code },
		reads: func(db *gorm.DB) *gorm.DB {
			return db.Select(table + ".*, g.name AS group_name").
				Joins("LEFT JOIN " + groups + " g ON g.id = " + table + ".group_id")
		},
		group: func(db *gorm.DB, group string) (*gorm.DB, error) {
			if id, err := strconv.ParseInt(group, 10, 64); err == nil {
				return db.Where(table+".group_id = ?", id), nil
			}
			return db.Where("LOWER(g.name) = LOWER(?)", group), nil
		},
	}
}

// NewCustomerGroupStore returns the local customer group store.
func NewCustomerGroupStore(db *gorm.DB) masterdata.PartnerGroupStore {
	return newGormStore[masterdata.PartnerGroup, models.CustomerGroupModel](db, groupSpec("customer_groups", masterdata.PartnerCustomer))
}

// NewVendorGroupStore returns the local vendor group store.
func NewVendorGroupStore(db *gorm.DB) masterdata.PartnerGroupStore {
	return newGormStore[masterdata.PartnerGroup, models.VendorGroupModel](db, groupSpec("vendor_groups", masterdata.PartnerVendor))
}

func groupSpec(table string, kind masterdata.PartnerKind) storeSpec[masterdata.PartnerGroup] {
	return storeSpec[masterdata.PartnerGroup]{
		table:       table,
		label:       kind.Label() + " group",
		name:        "name",
		unique:      "name",
		uniqueValue: func(g *masterdata.PartnerGroup) string { return g.Name },
	}
}

// NewProductStore returns the local product store. Its group filter is the
// UOM group id.
func NewProductStore(db *gorm.DB) masterdata.ProductStore {
	return newGormStore[masterdata.Product, models.ProductModel](db, storeSpec[masterdata.Product]{
		table:       "products",
		label:       "Product",
		code:        "code",
		name:        "name",
		unique:      "code",
		uniqueValue: func(p *masterdata.Product) string { return p.Code },
		group: func(db *gorm.DB, group string) (*gorm.DB, error) {
			id, err := strconv.ParseInt(group, 10, 64)
			if err != nil {
				return nil, shared.NewValidationError("product group filter must be a UOM group id, got '%s'", group)
			}
			return db.Where("products.uom_group_id = ?", id), nil
		},
	})
}

// NewUOMStore returns the local unit of measure store.
func NewUOMStore(db *gorm.DB) masterdata.UOMStore {
	return newGormStore[masterdata.UOM, models.UOMModel](db, storeSpec[masterdata.UOM]{
		table:       "uoms",
		label:       "UOM",
		code:        "code",
		name:        "name",
		unique:      "code",
		uniqueValue: func(u *masterdata.UOM) string { return u.Code },
	})
}

// NewUOMGroupStore returns the local UOM group store.
func NewUOMGroupStore(db *gorm.DB) masterdata.UOMGroupStore {
	return newGormStore[masterdata.UOMGroup, models.UOMGroupModel](db, storeSpec[masterdata.UOMGroup]{
		table:       "uom_groups",
		label:       "UOM group",
		code:        "code",
		name:        "name",
		unique:      "code",
		uniqueValue: func(g *masterdata.UOMGroup) string { return g.Code },
	})
}

// NewTaxCodeStore returns the local tax code store.
func NewTaxCodeStore(db *gorm.DB) masterdata.TaxCodeStore {
	return newGormStore[masterdata.TaxCode, models.TaxCodeModel](db, storeSpec[masterdata.TaxCode]{
		table:       "tax_codes",
		label:       "Tax code",
		code:        "code",
		name:        "name",
		unique:      "code",
		uniqueValue: func(t *masterdata.TaxCode) string { return t.Code },
	})
}

// NewWarehouseStore returns the local warehouse store.
func NewWarehouseStore(db *gorm.DB) masterdata.WarehouseStore {
	return newGormStore[masterdata.Warehouse, models.WarehouseModel](db, storeSpec[masterdata.Warehouse]{
		table:       "warehouses",
		label:       "Warehouse",
		code:        "code",
		name:        "name",
		unique:      "code",
		uniqueValue: func(w *masterdata.Warehouse) string { return w.Code },
	})
}

// NewRouteStore returns the local route store.
func NewRouteStore(db *gorm.DB) masterdata.RouteStore {
	return newGormStore[masterdata.Route, models.RouteModel](db, storeSpec[masterdata.Route]{
		table:       "routes",
		label:       "Route",
		name:        "name",
		unique:      "name",
		uniqueValue: func(r *masterdata.Route) string { return r.Name },
	})
}

// NewShippingTypeStore returns the local shipping type store.
func NewShippingTypeStore(db *gorm.DB) masterdata.ShippingTypeStore {
	return newGormStore[masterdata.ShippingType, models.ShippingTypeModel](db, storeSpec[masterdata.ShippingType]{
		table:       "shipping_types",
		label:       "Shipping type",
		name:        "name",
		unique:      "name",
		uniqueValue: func(s *masterdata.ShippingType) string { return s.Name },
	})
}

// NewSalesEmployeeStore returns the local sales employee store.
func NewSalesEmployeeStore(db *gorm.DB) masterdata.SalesEmployeeStore {
	return newGormStore[masterdata.SalesEmployee, models.SalesEmployeeModel](db, storeSpec[masterdata.SalesEmployee]{
		table:       "sales_employees",
		label:       "Sales employee",
		name:        "name",
		unique:      "name",
		uniqueValue: func(e *masterdata.SalesEmployee) string { return e.Name },
	})
}
