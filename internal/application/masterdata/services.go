package masterdata

import (
	"go.uber.org/zap"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/infrastructure/telemetry"
)

// StoreProvider supplies the store of every entity for the active backend.
type StoreProvider interface {
	Customers() masterdata.PartnerStore
	Vendors() masterdata.PartnerStore
	CustomerGroups() masterdata.PartnerGroupStore
	VendorGroups() masterdata.PartnerGroupStore
	Products() masterdata.ProductStore
	UOMs() masterdata.UOMStore
	UOMGroups() masterdata.UOMGroupStore
	TaxCodes() masterdata.TaxCodeStore
	Warehouses() masterdata.WarehouseStore
	Routes() masterdata.RouteStore
	ShippingTypes() masterdata.ShippingTypeStore
	SalesEmployees() masterdata.SalesEmployeeStore
}

// Services groups one service per master-data entity.
type Services struct {
	Customers      *Service[masterdata.BusinessPartner]
	Vendors        *Service[masterdata.BusinessPartner]
	CustomerGroups *Service[masterdata.PartnerGroup]
	VendorGroups   *Service[masterdata.PartnerGroup]
	Products       *Service[masterdata.Product]
	UOMs           *Service[masterdata.UOM]
	UOMGroups      *Service[masterdata.UOMGroup]
	TaxCodes       *Service[masterdata.TaxCode]
	Warehouses     *Service[masterdata.Warehouse]
	Routes         *Service[masterdata.Route]
	ShippingTypes  *Service[masterdata.ShippingType]
	SalesEmployees *Service[masterdata.SalesEmployee]
}

// NewServices wires every service to the stores of p. Lookups always use
// stores of the same backend.
func NewServices(p StoreProvider, log *zap.Logger, metrics *telemetry.Metrics) *Services {
	customerGroups := p.CustomerGroups()
	vendorGroups := p.VendorGroups()
	uomGroups := p.UOMGroups()

	return &Services{
		Customers: NewService("Customer", p.Customers(), (*masterdata.BusinessPartner).Validate, log,
			WithMetrics[masterdata.BusinessPartner](metrics),
			WithPrepare(setPartnerKind(masterdata.PartnerCustomer)),
			WithCheck(resolvePartnerGroup(customerGroups)),
			WithEnricher(partnerGroupNames(customerGroups)),
		),
		Vendors: NewService("Vendor", p.Vendors(), (*masterdata.BusinessPartner).Validate, log,
			WithMetrics[masterdata.BusinessPartner](metrics),
			WithPrepare(setPartnerKind(masterdata.PartnerVendor)),
			WithCheck(resolvePartnerGroup(vendorGroups)),
			WithEnricher(partnerGroupNames(vendorGroups)),
		),
		CustomerGroups: NewService("CustomerGroup", customerGroups, (*masterdata.PartnerGroup).Validate, log,
			WithMetrics[masterdata.PartnerGroup](metrics),
			WithPrepare(setGroupKind(masterdata.PartnerCustomer)),
		),
		VendorGroups: NewService("VendorGroup", vendorGroups, (*masterdata.PartnerGroup).Validate, log,
			WithMetrics[masterdata.PartnerGroup](metrics),
			WithPrepare(setGroupKind(masterdata.PartnerVendor)),
		),
		Products: NewService("Product", p.Products(), (*masterdata.Product).Validate, log,
			WithMetrics[masterdata.Product](metrics),
			WithCheck(checkUOMGroup(uomGroups)),
		),
		UOMs:           NewService("UOM", p.UOMs(), (*masterdata.UOM).Validate, log, WithMetrics[masterdata.UOM](metrics)),
		UOMGroups:      NewService("UOMGroup", uomGroups, (*masterdata.UOMGroup).Validate, log, WithMetrics[masterdata.UOMGroup](metrics)),
		TaxCodes:       NewService("TaxCode", p.TaxCodes(), (*masterdata.TaxCode).Validate, log, WithMetrics[masterdata.TaxCode](metrics)),
		Warehouses:     NewService("Warehouse", p.Warehouses(), (*masterdata.Warehouse).Validate, log, WithMetrics[masterdata.Warehouse](metrics)),
		Routes:         NewService("Route", p.Routes(), (*masterdata.Route).Validate, log, WithMetrics[masterdata.Route](metrics)),
		ShippingTypes:  NewService("ShippingType", p.ShippingTypes(), (*masterdata.ShippingType).Validate, log, WithMetrics[masterdata.ShippingType](metrics)),
		SalesEmployees: NewService("SalesEmployee", p.SalesEmployees(), (*masterdata.SalesEmployee).Validate, log, WithMetrics[masterdata.SalesEmployee](metrics)),
	}
}
