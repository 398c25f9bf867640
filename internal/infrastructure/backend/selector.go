// Package backend picks the master-data store implementation for the
// configured backend mode.
package backend

import (
	"errors"

	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/document"
	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/infrastructure/config"
	"github.com/distributor/backend/internal/infrastructure/persistence"
	"github.com/distributor/backend/internal/infrastructure/sap"
)

// Selector is built once at startup. Each accessor returns the local GORM
// store or the Service Layer store for the mode it was built with.
type Selector struct {
	mode   config.BackendMode
	db     *gorm.DB
	client *sap.Client
}

// NewSelector validates that the collaborators needed by mode are present.
// Documents always live in the local database, so db is required in both
// modes; client is only required in remote mode.
func NewSelector(mode config.BackendMode, db *gorm.DB, client *sap.Client) (*Selector, error) {
	switch mode {
	case config.BackendLocal, config.BackendRemote:
	default:
		return nil, errors.New("backend: unknown mode " + string(mode))
	}
	if db == nil {
		return nil, errors.New("backend: database is required")
	}
	if mode == config.BackendRemote && client == nil {
		return nil, errors.New("backend: remote mode requires a Service Layer client")
	}
	return &Selector{mode: mode, db: db, client: client}, nil
}

// Mode returns the configured backend mode.
func (s *Selector) Mode() config.BackendMode {
	return s.mode
}

// Remote reports whether master data is served by the Service Layer.
func (s *Selector) Remote() bool {
	return s.mode == config.BackendRemote
}

// Client returns the Service Layer client, nil in local mode.
func (s *Selector) Client() *sap.Client {
	return s.client
}

// Customers returns the customer store: BusinessPartners of type cCustomer
// remotely, the customers table locally.
func (s *Selector) Customers() masterdata.PartnerStore {
	if s.Remote() {
		return sap.NewPartnerStore(s.client, masterdata.PartnerCustomer)
	}
	return persistence.NewCustomerStore(s.db)
}

// Vendors returns the vendor store: BusinessPartners of type cSupplier
// remotely, the vendors table locally.
func (s *Selector) Vendors() masterdata.PartnerStore {
	if s.Remote() {
		return sap.NewPartnerStore(s.client, masterdata.PartnerVendor)
	}
	return persistence.NewVendorStore(s.db)
}

// CustomerGroups returns the store for customer groups.
func (s *Selector) CustomerGroups() masterdata.PartnerGroupStore {
	if s.Remote() {
		return sap.NewPartnerGroupStore(s.client, masterdata.PartnerCustomer)
	}
	return persistence.NewCustomerGroupStore(s.db)
}

// VendorGroups returns the store for vendor groups.
func (s *Selector) VendorGroups() masterdata.PartnerGroupStore {
	if s.Remote() {
		return sap.NewPartnerGroupStore(s.client, masterdata.PartnerVendor)
	}
	return persistence.NewVendorGroupStore(s.db)
}

// Products returns the product store (Items remotely).
func (s *Selector) Products() masterdata.ProductStore {
	if s.Remote() {
		return sap.NewProductStore(s.client)
	}
	return persistence.NewProductStore(s.db)
}

// UOMs returns the unit-of-measure store.
func (s *Selector) UOMs() masterdata.UOMStore {
	if s.Remote() {
		return sap.NewUOMStore(s.client)
	}
	return persistence.NewUOMStore(s.db)
}

// UOMGroups returns the store for unit-of-measure groups.
func (s *Selector) UOMGroups() masterdata.UOMGroupStore {
	if s.Remote() {
		return sap.NewUOMGroupStore(s.client)
	}
	return persistence.NewUOMGroupStore(s.db)
}

// TaxCodes returns the tax code store (VatGroups remotely).
func (s *Selector) TaxCodes() masterdata.TaxCodeStore {
	if s.Remote() {
		return sap.NewTaxCodeStore(s.client)
	}
	return persistence.NewTaxCodeStore(s.db)
}

// Warehouses returns the warehouse store.
func (s *Selector) Warehouses() masterdata.WarehouseStore {
	if s.Remote() {
		return sap.NewWarehouseStore(s.client)
	}
	return persistence.NewWarehouseStore(s.db)
}

// Routes returns the delivery route store.
func (s *Selector) Routes() masterdata.RouteStore {
	if s.Remote() {
		return sap.NewRouteStore(s.client)
	}
	return persistence.NewRouteStore(s.db)
}

// ShippingTypes returns the shipping type store.
func (s *Selector) ShippingTypes() masterdata.ShippingTypeStore {
	if s.Remote() {
		return sap.NewShippingTypeStore(s.client)
	}
	return persistence.NewShippingTypeStore(s.db)
}

// SalesEmployees returns the sales employee store (SalesPersons remotely).
func (s *Selector) SalesEmployees() masterdata.SalesEmployeeStore {
	if s.Remote() {
		return sap.NewSalesEmployeeStore(s.client)
	}
	return persistence.NewSalesEmployeeStore(s.db)
}

// Documents returns the document repository. Documents are local in both
// modes.
func (s *Selector) Documents() document.Repository {
	return persistence.NewGormDocumentRepository(s.db)
}
