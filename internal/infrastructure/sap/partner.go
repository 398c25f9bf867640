package sap

import (
	"context"
	"strconv"
	"strings"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

const (
	cardTypeCustomer = "cCustomer"
	cardTypeSupplier = "cSupplier"
)

func cardType(kind masterdata.PartnerKind) string {
	if kind == masterdata.PartnerVendor {
		return cardTypeSupplier
	}
	return cardTypeCustomer
}

var partnerFields = []string{
	"CardCode", "CardName", "CardType", "GroupCode", "Phone1", "Cellular", "EmailAddress",
	"Address", "City", "ContactPerson", "VatGroup", "Territory", "CreditLimit",
	"CurrentAccountBalance", "FreeText", "Valid", "Frozen",
}

type partnerDTO struct {
	CardCode              string `json:"CardCode"`
	CardName              string `json:"CardName"`
	CardType              string `json:"CardType"`
	GroupCode             Int    `json:"GroupCode"`
	Phone1                string `json:"Phone1"`
	Cellular              string `json:"Cellular"`
	EmailAddress          string `json:"EmailAddress"`
	Address               string `json:"Address"`
	City                  string `json:"City"`
	ContactPerson         string `json:"ContactPerson"`
	VatGroup              string `json:"VatGroup"`
	Territory             Int    `json:"Territory"`
	CreditLimit           Number `json:"CreditLimit"`
	CurrentAccountBalance Number `json:"CurrentAccountBalance"`
	FreeText              string `json:"FreeText"`
	Valid                 YesNo  `json:"Valid"`
	Frozen                YesNo  `json:"Frozen"`
}

// partnerCreate omits blank optional fields; the Service Layer rejects
// empty references such as VatGroup "".
type partnerCreate struct {
	CardCode     string  `json:"CardCode"`
	CardName     string  `json:"CardName"`
	CardType     string  `json:"CardType"`
	GroupCode    *int64  `json:"GroupCode,omitempty"`
	Phone1       *string `json:"Phone1,omitempty"`
	Cellular     *string `json:"Cellular,omitempty"`
	EmailAddress *string `json:"EmailAddress,omitempty"`
	Address      *string `json:"Address,omitempty"`
	City         *string `json:"City,omitempty"`
	VatGroup     *string `json:"VatGroup,omitempty"`
	Territory    *int64  `json:"Territory,omitempty"`
	CreditLimit  Number  `json:"CreditLimit"`
	FreeText     *string `json:"FreeText,omitempty"`
	Valid        YesNo   `json:"Valid"`
	Frozen       YesNo   `json:"Frozen"`
}

// partnerPatch carries only the fields editable after creation. CardCode
// and CardType are immutable upstream.
type partnerPatch struct {
	CardName     string  `json:"CardName"`
	GroupCode    *int64  `json:"GroupCode,omitempty"`
	Phone1       string  `json:"Phone1"`
	Cellular     string  `json:"Cellular"`
	EmailAddress string  `json:"EmailAddress"`
	Address      string  `json:"Address"`
	City         string  `json:"City"`
	VatGroup     *string `json:"VatGroup,omitempty"`
	Territory    *int64  `json:"Territory,omitempty"`
	CreditLimit  Number  `json:"CreditLimit"`
	FreeText     string  `json:"FreeText"`
	Valid        YesNo   `json:"Valid"`
	Frozen       YesNo   `json:"Frozen"`
}

// PartnerStore maps customers or vendors onto BusinessPartners.
type PartnerStore struct {
	kind   masterdata.PartnerKind
	set    entitySet[partnerDTO]
	groups *PartnerGroupStore
}

// NewPartnerStore creates the remote store for kind.
func NewPartnerStore(client *Client, kind masterdata.PartnerKind) *PartnerStore {
	return &PartnerStore{
		kind:   kind,
		set:    newEntitySet[partnerDTO](client, "BusinessPartners", kind.Label(), partnerFields...),
		groups: NewPartnerGroupStore(client, kind),
	}
}

func (s *PartnerStore) toDomain(r *partnerDTO) *masterdata.BusinessPartner {
	return &masterdata.BusinessPartner{
		Kind:          s.kind,
		Code:          r.CardCode,
		Name:          r.CardName,
		GroupCode:     int64(r.GroupCode),
		Phone:         r.Phone1,
		Mobile:        r.Cellular,
		Email:         r.EmailAddress,
		Address:       r.Address,
		City:          r.City,
		ContactPerson: r.ContactPerson,
		TaxCode:       r.VatGroup,
		RouteID:       int64(r.Territory),
		CreditLimit:   r.CreditLimit.Decimal,
		Balance:       r.CurrentAccountBalance.Decimal,
		Remarks:       r.FreeText,
		Active:        r.Valid.Bool() && !r.Frozen.Bool(),
	}
}

func (s *PartnerStore) toCreate(p *masterdata.BusinessPartner) partnerCreate {
	return partnerCreate{
		CardCode:     p.Code,
		CardName:     p.Name,
		CardType:     cardType(s.kind),
		GroupCode:    NilIfZero(p.GroupCode),
		Phone1:       NilIfEmpty(p.Phone),
		Cellular:     NilIfEmpty(p.Mobile),
		EmailAddress: NilIfEmpty(p.Email),
		Address:      NilIfEmpty(p.Address),
		City:         NilIfEmpty(p.City),
		VatGroup:     NilIfEmpty(p.TaxCode),
		Territory:    NilIfZero(p.RouteID),
		CreditLimit:  NewNumber(p.CreditLimit),
		FreeText:     NilIfEmpty(p.Remarks),
		Valid:        FromBool(p.Active),
		Frozen:       FromBool(!p.Active),
	}
}

func (s *PartnerStore) toPatch(p *masterdata.BusinessPartner) partnerPatch {
	return partnerPatch{
		CardName:     p.Name,
		GroupCode:    NilIfZero(p.GroupCode),
		Phone1:       p.Phone,
		Cellular:     p.Mobile,
		EmailAddress: p.Email,
		Address:      p.Address,
		City:         p.City,
		VatGroup:     NilIfEmpty(p.TaxCode),
		Territory:    NilIfZero(p.RouteID),
		CreditLimit:  NewNumber(p.CreditLimit),
		FreeText:     p.Remarks,
		Valid:        FromBool(p.Active),
		Frozen:       FromBool(!p.Active),
	}
}

// FindAll lists partners of the store's kind. Group is either a numeric
// group code or a group name.
func (s *PartnerStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.BusinessPartner, error) {
	f := NewFilter().Eq("CardType", cardType(s.kind)).
		Contains("CardCode", filter.Code).
		Contains("CardName", filter.Name)

	if group := strings.TrimSpace(filter.Group); group != "" {
		code, err := strconv.ParseInt(group, 10, 64)
		if err != nil {
			var ok bool
			if code, ok, err = s.groups.codeByName(ctx, group); err != nil {
				return nil, err
			} else if !ok {
				return []masterdata.BusinessPartner{}, nil
			}
		}
		f.Eq("GroupCode", code)
	}

	rows, err := s.set.list(ctx, f.String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.BusinessPartner, 0, len(rows))
	for i := range rows {
		out = append(out, *s.toDomain(&rows[i]))
	}
	return out, nil
}

// FindByKey returns the partner with CardCode key. A partner of the other
// kind is reported as not found.
func (s *PartnerStore) FindByKey(ctx context.Context, key string) (*masterdata.BusinessPartner, error) {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, code)
	if err != nil {
		return nil, err
	}
	if r.CardType != cardType(s.kind) {
		return nil, shared.NewNotFoundError(s.set.label, key)
	}
	return s.toDomain(r), nil
}

// Create adds a partner.
func (s *PartnerStore) Create(ctx context.Context, p *masterdata.BusinessPartner) (*masterdata.BusinessPartner, error) {
	r, err := s.set.create(ctx, s.toCreate(p))
	if err != nil {
		return nil, err
	}
	return s.toDomain(r), nil
}

// Update patches the partner with CardCode key.
func (s *PartnerStore) Update(ctx context.Context, key string, p *masterdata.BusinessPartner) (*masterdata.BusinessPartner, error) {
	existing, err := s.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.patch(ctx, existing.Code, s.toPatch(p))
	if err != nil {
		return nil, err
	}
	return s.toDomain(r), nil
}

// Delete removes the partner with CardCode key.
func (s *PartnerStore) Delete(ctx context.Context, key string) error {
	existing, err := s.FindByKey(ctx, key)
	if err != nil {
		return err
	}
	return s.set.delete(ctx, existing.Code)
}

var _ masterdata.PartnerStore = (*PartnerStore)(nil)
