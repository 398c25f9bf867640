package sap

import (
	"context"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

type territoryDTO struct {
	TerritoryID Int    `json:"TerritoryID"`
	Description string `json:"Description"`
	Parent      Int    `json:"Parent"`
	Inactive    YesNo  `json:"Inactive"`
}

type territoryWrite struct {
	Description string `json:"Description"`
	Parent      *int64 `json:"Parent,omitempty"`
	Inactive    YesNo  `json:"Inactive"`
}

// RouteStore maps delivery routes onto Territories.
type RouteStore struct {
	set entitySet[territoryDTO]
}

// NewRouteStore creates the remote route store.
func NewRouteStore(client *Client) *RouteStore {
	return &RouteStore{set: newEntitySet[territoryDTO](client, "Territories", "Route",
		"TerritoryID", "Description", "Parent", "Inactive")}
}

func routeToDomain(r *territoryDTO) *masterdata.Route {
	return &masterdata.Route{
		ID:       int64(r.TerritoryID),
		Name:     r.Description,
		ParentID: int64(r.Parent),
		Active:   !r.Inactive.Bool(),
	}
}

func routeToWrite(r *masterdata.Route) territoryWrite {
	return territoryWrite{Description: r.Name, Parent: NilIfZero(r.ParentID), Inactive: FromBool(!r.Active)}
}

func (s *RouteStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.Route, error) {
	f := NewFilter().Contains("Description", filter.Name)
	rows, err := s.set.list(ctx, f.String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.Route, 0, len(rows))
	for i := range rows {
		out = append(out, *routeToDomain(&rows[i]))
	}
	return out, nil
}

func (s *RouteStore) FindByKey(ctx context.Context, key string) (*masterdata.Route, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return routeToDomain(r), nil
}

func (s *RouteStore) Create(ctx context.Context, route *masterdata.Route) (*masterdata.Route, error) {
	r, err := s.set.create(ctx, routeToWrite(route))
	if err != nil {
		return nil, err
	}
	return routeToDomain(r), nil
}

func (s *RouteStore) Update(ctx context.Context, key string, route *masterdata.Route) (*masterdata.Route, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.patch(ctx, id, routeToWrite(route))
	if err != nil {
		return nil, err
	}
	return routeToDomain(r), nil
}

func (s *RouteStore) Delete(ctx context.Context, key string) error {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return err
	}
	return s.set.delete(ctx, id)
}

var _ masterdata.RouteStore = (*RouteStore)(nil)
