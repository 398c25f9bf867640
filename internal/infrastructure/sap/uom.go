package sap

import (
	"context"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

type uomDTO struct {
	AbsEntry Int    `json:"AbsEntry"`
	Code     string `json:"Code"`
	Name     string `json:"Name"`
}

type uomWrite struct {
	Code string `json:"Code"`
	Name string `json:"Name"`
}

// UOMStore maps units of measure onto UnitOfMeasurements.
type UOMStore struct {
	set entitySet[uomDTO]
}

// NewUOMStore creates the remote UOM store.
func NewUOMStore(client *Client) *UOMStore {
	return &UOMStore{set: newEntitySet[uomDTO](client, "UnitOfMeasurements", "UOM", "AbsEntry", "Code", "Name")}
}

func uomToDomain(r *uomDTO) *masterdata.UOM {
	return &masterdata.UOM{ID: int64(r.AbsEntry), Code: r.Code, Name: r.Name}
}

func (s *UOMStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.UOM, error) {
	f := NewFilter().Contains("Code", filter.Code).Contains("Name", filter.Name)
	rows, err := s.set.list(ctx, f.String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.UOM, 0, len(rows))
	for i := range rows {
		out = append(out, *uomToDomain(&rows[i]))
	}
	return out, nil
}

func (s *UOMStore) FindByKey(ctx context.Context, key string) (*masterdata.UOM, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uomToDomain(r), nil
}

func (s *UOMStore) Create(ctx context.Context, u *masterdata.UOM) (*masterdata.UOM, error) {
	r, err := s.set.create(ctx, uomWrite{Code: u.Code, Name: u.Name})
	if err != nil {
		return nil, err
	}
	return uomToDomain(r), nil
}

func (s *UOMStore) Update(ctx context.Context, key string, u *masterdata.UOM) (*masterdata.UOM, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.patch(ctx, id, uomWrite{Code: u.Code, Name: u.Name})
	if err != nil {
		return nil, err
	}
	return uomToDomain(r), nil
}

func (s *UOMStore) Delete(ctx context.Context, key string) error {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return err
	}
	return s.set.delete(ctx, id)
}

type uomGroupDTO struct {
	AbsEntry Int    `json:"AbsEntry"`
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	BaseUoM  Int    `json:"BaseUoM"`
}

type uomGroupCreate struct {
	Code    string `json:"Code"`
	Name    string `json:"Name"`
	BaseUoM *int64 `json:"BaseUoM,omitempty"`
}

// uomGroupPatch is limited to the name: code and base unit are fixed once
// the group has been used on an item.
type uomGroupPatch struct {
	Name string `json:"Name"`
}

// UOMGroupStore maps UOM groups onto UnitOfMeasurementGroups.
type UOMGroupStore struct {
	set entitySet[uomGroupDTO]
}

// NewUOMGroupStore creates the remote UOM group store.
func NewUOMGroupStore(client *Client) *UOMGroupStore {
	return &UOMGroupStore{set: newEntitySet[uomGroupDTO](client, "UnitOfMeasurementGroups", "UOM group",
		"AbsEntry", "Code", "Name", "BaseUoM")}
}

func uomGroupToDomain(r *uomGroupDTO) *masterdata.UOMGroup {
	return &masterdata.UOMGroup{ID: int64(r.AbsEntry), Code: r.Code, Name: r.Name, BaseUOMID: int64(r.BaseUoM)}
}

func (s *UOMGroupStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.UOMGroup, error) {
	f := NewFilter().Contains("Code", filter.Code).Contains("Name", filter.Name)
	rows, err := s.set.list(ctx, f.String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.UOMGroup, 0, len(rows))
	for i := range rows {
		out = append(out, *uomGroupToDomain(&rows[i]))
	}
	return out, nil
}

func (s *UOMGroupStore) FindByKey(ctx context.Context, key string) (*masterdata.UOMGroup, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uomGroupToDomain(r), nil
}

func (s *UOMGroupStore) Create(ctx context.Context, g *masterdata.UOMGroup) (*masterdata.UOMGroup, error) {
	r, err := s.set.create(ctx, uomGroupCreate{Code: g.Code, Name: g.Name, BaseUoM: NilIfZero(g.BaseUOMID)})
	if err != nil {
		return nil, err
	}
	return uomGroupToDomain(r), nil
}

func (s *UOMGroupStore) Update(ctx context.Context, key string, g *masterdata.UOMGroup) (*masterdata.UOMGroup, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.patch(ctx, id, uomGroupPatch{Name: g.Name})
	if err != nil {
		return nil, err
	}
	return uomGroupToDomain(r), nil
}

func (s *UOMGroupStore) Delete(ctx context.Context, key string) error {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return err
	}
	return s.set.delete(ctx, id)
}

var (
	_ masterdata.UOMStore      = (*UOMStore)(nil)
	_ masterdata.UOMGroupStore = (*UOMGroupStore)(nil)
)
