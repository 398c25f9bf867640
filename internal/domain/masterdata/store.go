// Package masterdata defines the master-data entities and the storage
// contract shared by the local database and the SAP Service Layer.
package masterdata

import (
	"context"

	"github.com/distributor/backend/internal/domain/shared"
)

// Store is the capability every backend provides for one entity type.
// Keys are opaque strings; each implementation parses them according to
// the identifiers it owns (local integer ids or SAP codes).
type Store[T any] interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]T, error)
	FindByKey(ctx context.Context, key string) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, key string, entity *T) (*T, error)
	Delete(ctx context.Context, key string) error
}

// Store aliases per entity, used by constructors and wiring code.
type (
	PartnerStore       = Store[BusinessPartner]
	PartnerGroupStore  = Store[PartnerGroup]
	ProductStore       = Store[Product]
	UOMStore           = Store[UOM]
	UOMGroupStore      = Store[UOMGroup]
	TaxCodeStore       = Store[TaxCode]
	WarehouseStore     = Store[Warehouse]
	RouteStore         = Store[Route]
	ShippingTypeStore  = Store[ShippingType]
	SalesEmployeeStore = Store[SalesEmployee]
)
