package sap

import (
	"context"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

type shippingTypeDTO struct {
	Code    Int    `json:"Code"`
	Name    string `json:"Name"`
	Website string `json:"Website"`
}

type shippingTypeWrite struct {
	Name    string `json:"Name"`
	Website string `json:"Website"`
}

// ShippingTypeStore maps shipping types onto ShippingTypes.
type ShippingTypeStore struct {
	set entitySet[shippingTypeDTO]
}

// NewShippingTypeStore creates the remote shipping type store.
func NewShippingTypeStore(client *Client) *ShippingTypeStore {
	return &ShippingTypeStore{set: newEntitySet[shippingTypeDTO](client, "ShippingTypes", "Shipping type",
		"Code", "Name", "Website")}
}

func shippingTypeToDomain(r *shippingTypeDTO) *masterdata.ShippingType {
	return &masterdata.ShippingType{ID: int64(r.Code), Name: r.Name, Website: r.Website}
}

func (s *ShippingTypeStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.ShippingType, error) {
	rows, err := s.set.list(ctx, NewFilter().Contains("Name", filter.Name).String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.ShippingType, 0, len(rows))
	for i := range rows {
		out = append(out, *shippingTypeToDomain(&rows[i]))
	}
	return out, nil
}

func (s *ShippingTypeStore) FindByKey(ctx context.Context, key string) (*masterdata.ShippingType, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return shippingTypeToDomain(r), nil
}

func (s *ShippingTypeStore) Create(ctx context.Context, st *masterdata.ShippingType) (*masterdata.ShippingType, error) {
	r, err := s.set.create(ctx, shippingTypeWrite{Name: st.Name, Website: st.Website})
	if err != nil {
		return nil, err
	}
	return shippingTypeToDomain(r), nil
}

func (s *ShippingTypeStore) Update(ctx context.Context, key string, st *masterdata.ShippingType) (*masterdata.ShippingType, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.patch(ctx, id, shippingTypeWrite{Name: st.Name, Website: st.Website})
	if err != nil {
		return nil, err
	}
	return shippingTypeToDomain(r), nil
}

func (s *ShippingTypeStore) Delete(ctx context.Context, key string) error {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return err
	}
	return s.set.delete(ctx, id)
}

var _ masterdata.ShippingTypeStore = (*ShippingTypeStore)(nil)
