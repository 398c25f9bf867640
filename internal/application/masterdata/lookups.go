package masterdata

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

// sameName compares names with Unicode case folding.
func sameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

// setPartnerKind pins the kind of every partner passing through a service.
func setPartnerKind(kind masterdata.PartnerKind) func(*masterdata.BusinessPartner) {
	return func(p *masterdata.BusinessPartner) {
		p.Kind = kind
	}
}

func setGroupKind(kind masterdata.PartnerKind) func(*masterdata.PartnerGroup) {
	return func(g *masterdata.PartnerGroup) {
		g.Kind = kind
	}
}

// resolvePartnerGroup validates the partner's group against groups. A
// group name wins over a group code and is resolved to the code; a bare
// code must exist.
func resolvePartnerGroup(groups masterdata.PartnerGroupStore) func(context.Context, *masterdata.BusinessPartner) error {
	return func(ctx context.Context, p *masterdata.BusinessPartner) error {
		name := strings.TrimSpace(p.GroupName)
		if name != "" {
			all, err := groups.FindAll(ctx, shared.Filter{})
			if err != nil {
				return err
			}
			for _, g := range all {
				if sameName(g.Name, name) {
					p.GroupCode = g.ID
					p.GroupName = g.Name
					return nil
				}
			}
			return shared.NewValidationError("%s group '%s' does not exist", p.Kind.Label(), name)
		}
		if p.GroupCode == 0 {
			return nil
		}
		g, err := groups.FindByKey(ctx, strconv.FormatInt(p.GroupCode, 10))
		if shared.IsNotFound(err) {
			return shared.NewValidationError("%s group %d does not exist", p.Kind.Label(), p.GroupCode)
		}
		if err != nil {
			return err
		}
		p.GroupName = g.Name
		return nil
	}
}

// partnerGroupNames fills GroupName on partners read from a backend that
// returns only the group code.
func partnerGroupNames(groups masterdata.PartnerGroupStore) func(context.Context, []masterdata.BusinessPartner) error {
	return func(ctx context.Context, partners []masterdata.BusinessPartner) error {
		missing := false
		for i := range partners {
			if partners[i].GroupCode != 0 && partners[i].GroupName == "" {
				missing = true
				break
			}
		}
		if !missing {
			return nil
		}
		all, err := groups.FindAll(ctx, shared.Filter{})
		if err != nil {
			return err
		}
		names := make(map[int64]string, len(all))
		for _, g := range all {
			names[g.ID] = g.Name
		}
		for i := range partners {
			if partners[i].GroupName == "" {
				partners[i].GroupName = names[partners[i].GroupCode]
			}
		}
		return nil
	}
}

// checkUOMGroup requires the product's UOM group, when set, to exist.
func checkUOMGroup(groups masterdata.UOMGroupStore) func(context.Context, *masterdata.Product) error {
	return func(ctx context.Context, p *masterdata.Product) error {
		if p.UOMGroupID == 0 {
			return nil
		}
		_, err := groups.FindByKey(ctx, strconv.FormatInt(p.UOMGroupID, 10))
		if shared.IsNotFound(err) {
			return shared.NewValidationError("UOM group %d does not exist", p.UOMGroupID)
		}
		return err
	}
}
