package sap

import (
	"context"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

const (
	customerGroupType = "bbpgt_CustomerGroup"
	vendorGroupType   = "bbpgt_VendorGroup"
)

func groupType(kind masterdata.PartnerKind) string {
	if kind == masterdata.PartnerVendor {
		return vendorGroupType
	}
	return customerGroupType
}

type partnerGroupDTO struct {
	Code Int    `json:"Code"`
	Name string `json:"Name"`
	Type string `json:"Type"`
}

type partnerGroupCreate struct {
	Name string `json:"Name"`
	Type string `json:"Type"`
}

type partnerGroupPatch struct {
	Name string `json:"Name"`
}

// PartnerGroupStore maps customer or vendor groups onto
// BusinessPartnerGroups, scoped by the group Type.
type PartnerGroupStore struct {
	kind masterdata.PartnerKind
	set  entitySet[partnerGroupDTO]
}

// NewPartnerGroupStore creates the remote store for kind's groups.
func NewPartnerGroupStore(client *Client, kind masterdata.PartnerKind) *PartnerGroupStore {
	return &PartnerGroupStore{
		kind: kind,
		set: newEntitySet[partnerGroupDTO](client, "BusinessPartnerGroups", kind.Label()+" group",
			"Code", "Name", "Type"),
	}
}

func (s *PartnerGroupStore) toDomain(r *partnerGroupDTO) *masterdata.PartnerGroup {
	return &masterdata.PartnerGroup{ID: int64(r.Code), Kind: s.kind, Name: r.Name}
}

// FindAll lists the groups of the store's kind.
func (s *PartnerGroupStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.PartnerGroup, error) {
	f := NewFilter().Eq("Type", groupType(s.kind)).Contains("Name", filter.Name)
	rows, err := s.set.list(ctx, f.String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.PartnerGroup, 0, len(rows))
	for i := range rows {
		out = append(out, *s.toDomain(&rows[i]))
	}
	return out, nil
}

// FindByKey returns a group by code. A group of the other kind is reported
// as not found.
func (s *PartnerGroupStore) FindByKey(ctx context.Context, key string) (*masterdata.PartnerGroup, error) {
	code, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, code)
	if err != nil {
		return nil, err
	}
	if r.Type != "" && r.Type != groupType(s.kind) {
		return nil, shared.NewNotFoundError(s.set.label, key)
	}
	return s.toDomain(r), nil
}

// Create adds a group; the upstream code becomes the ID.
func (s *PartnerGroupStore) Create(ctx context.Context, g *masterdata.PartnerGroup) (*masterdata.PartnerGroup, error) {
	r, err := s.set.create(ctx, partnerGroupCreate{Name: g.Name, Type: groupType(s.kind)})
	if err != nil {
		return nil, err
	}
	return s.toDomain(r), nil
}

// Update renames a group.
func (s *PartnerGroupStore) Update(ctx context.Context, key string, g *masterdata.PartnerGroup) (*masterdata.PartnerGroup, error) {
	if _, err := s.FindByKey(ctx, key); err != nil {
		return nil, err
	}
	code, _ := intKey(s.set.label, key)
	r, err := s.set.patch(ctx, code, partnerGroupPatch{Name: g.Name})
	if err != nil {
		return nil, err
	}
	return s.toDomain(r), nil
}

// Delete removes a group.
func (s *PartnerGroupStore) Delete(ctx context.Context, key string) error {
	if _, err := s.FindByKey(ctx, key); err != nil {
		return err
	}
	code, _ := intKey(s.set.label, key)
	return s.set.delete(ctx, code)
}

// codeByName resolves a group name to its code. ok is false when no group
// of this kind has that name.
func (s *PartnerGroupStore) codeByName(ctx context.Context, name string) (code int64, ok bool, err error) {
	f := NewFilter().Eq("Type", groupType(s.kind)).Eq("Name", name)
	rows, err := s.set.list(ctx, f.String(), shared.Filter{})
	if err != nil || len(rows) == 0 {
		return 0, false, err
	}
	return int64(rows[0].Code), true, nil
}

var _ masterdata.PartnerGroupStore = (*PartnerGroupStore)(nil)
