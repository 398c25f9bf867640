package sap

import (
	"context"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

type warehouseDTO struct {
	WarehouseCode string `json:"WarehouseCode"`
	WarehouseName string `json:"WarehouseName"`
	Street        string `json:"Street"`
	City          string `json:"City"`
	ZipCode       string `json:"ZipCode"`
	Country       string `json:"Country"`
	Inactive      YesNo  `json:"Inactive"`
}

type warehouseCreate struct {
	WarehouseCode string  `json:"WarehouseCode"`
	WarehouseName string  `json:"WarehouseName"`
	Street        *string `json:"Street,omitempty"`
	City          *string `json:"City,omitempty"`
	ZipCode       *string `json:"ZipCode,omitempty"`
	Country       *string `json:"Country,omitempty"`
	Inactive      YesNo   `json:"Inactive"`
}

type warehousePatch struct {
	WarehouseName string  `json:"WarehouseName"`
	Street        string  `json:"Street"`
	City          string  `json:"City"`
	ZipCode       string  `json:"ZipCode"`
	Country       *string `json:"Country,omitempty"`
	Inactive      YesNo   `json:"Inactive"`
}

// WarehouseStore maps warehouses onto Warehouses.
type WarehouseStore struct {
	set entitySet[warehouseDTO]
}

// NewWarehouseStore creates the remote warehouse store.
func NewWarehouseStore(client *Client) *WarehouseStore {
	return &WarehouseStore{set: newEntitySet[warehouseDTO](client, "Warehouses", "Warehouse",
		"WarehouseCode", "WarehouseName", "Street", "City", "ZipCode", "Country", "Inactive")}
}

func warehouseToDomain(r *warehouseDTO) *masterdata.Warehouse {
	return &masterdata.Warehouse{
		Code:    r.WarehouseCode,
		Name:    r.WarehouseName,
		Street:  r.Street,
		City:    r.City,
		ZipCode: r.ZipCode,
		Country: r.Country,
		Active:  !r.Inactive.Bool(),
	}
}

func (s *WarehouseStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.Warehouse, error) {
	f := NewFilter().Contains("WarehouseCode", filter.Code).Contains("WarehouseName", filter.Name)
	rows, err := s.set.list(ctx, f.String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.Warehouse, 0, len(rows))
	for i := range rows {
		out = append(out, *warehouseToDomain(&rows[i]))
	}
	return out, nil
}

func (s *WarehouseStore) FindByKey(ctx context.Context, key string) (*masterdata.Warehouse, error) {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, code)
	if err != nil {
		return nil, err
	}
	return warehouseToDomain(r), nil
}

func (s *WarehouseStore) Create(ctx context.Context, w *masterdata.Warehouse) (*masterdata.Warehouse, error) {
	r, err := s.set.create(ctx, warehouseCreate{
		WarehouseCode: w.Code,
		WarehouseName: w.Name,
		Street:        NilIfEmpty(w.Street),
		City:          NilIfEmpty(w.City),
		ZipCode:       NilIfEmpty(w.ZipCode),
		Country:       NilIfEmpty(w.Country),
		Inactive:      FromBool(!w.Active),
	})
	if err != nil {
		return nil, err
	}
	return warehouseToDomain(r), nil
}

func (s *WarehouseStore) Update(ctx context.Context, key string, w *masterdata.Warehouse) (*masterdata.Warehouse, error) {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.patch(ctx, code, warehousePatch{
		WarehouseName: w.Name,
		Street:        w.Street,
		City:          w.City,
		ZipCode:       w.ZipCode,
		Country:       NilIfEmpty(w.Country),
		Inactive:      FromBool(!w.Active),
	})
	if err != nil {
		return nil, err
	}
	return warehouseToDomain(r), nil
}

func (s *WarehouseStore) Delete(ctx context.Context, key string) error {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return err
	}
	return s.set.delete(ctx, code)
}

var _ masterdata.WarehouseStore = (*WarehouseStore)(nil)
