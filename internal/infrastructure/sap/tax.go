package sap

import (
	"context"
	"time"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

const (
	vatOutput = "bovcOutputTax"
	vatInput  = "bovcInputTax"
)

type vatLine struct {
	EffectiveFrom string `json:"Effectivefrom"`
	Rate          Number `json:"Rate"`
}

type taxDTO struct {
	Code     string    `json:"Code"`
	Name     string    `json:"Name"`
	Category string    `json:"Category"`
	Inactive YesNo     `json:"Inactive"`
	Lines    []vatLine `json:"VatGroups_Lines"`
}

type taxCreate struct {
	Code     string    `json:"Code"`
	Name     string    `json:"Name"`
	Category string    `json:"Category"`
	Inactive YesNo     `json:"Inactive"`
	Lines    []vatLine `json:"VatGroups_Lines"`
}

// taxPatch never touches the rate lines: a rate change is a new dated line,
// which the Service Layer accepts on create only.
type taxPatch struct {
	Name     string `json:"Name"`
	Inactive YesNo  `json:"Inactive"`
}

// TaxCodeStore maps tax codes onto VatGroups.
type TaxCodeStore struct {
	set entitySet[taxDTO]
	now func() time.Time
}

// NewTaxCodeStore creates the remote tax code store.
func NewTaxCodeStore(client *Client) *TaxCodeStore {
	return &TaxCodeStore{
		set: newEntitySet[taxDTO](client, "VatGroups", "Tax code",
			"Code", "Name", "Category", "Inactive", "VatGroups_Lines"),
		now: time.Now,
	}
}

func taxToDomain(r *taxDTO) *masterdata.TaxCode {
	t := &masterdata.TaxCode{
		Code:     r.Code,
		Name:     r.Name,
		Category: masterdata.TaxOutput,
		Active:   !r.Inactive.Bool(),
	}
	if r.Category == vatInput {
		t.Category = masterdata.TaxInput
	}
	// Lines are ordered by effective date; the last one is current.
	if n := len(r.Lines); n > 0 {
		t.Rate = r.Lines[n-1].Rate.Decimal
	}
	return t
}

func vatCategory(c masterdata.TaxCategory) string {
	if c == masterdata.TaxInput {
		return vatInput
	}
	return vatOutput
}

func (s *TaxCodeStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.TaxCode, error) {
	f := NewFilter().Contains("Code", filter.Code).Contains("Name", filter.Name)
	rows, err := s.set.list(ctx, f.String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.TaxCode, 0, len(rows))
	for i := range rows {
		out = append(out, *taxToDomain(&rows[i]))
	}
	return out, nil
}

func (s *TaxCodeStore) FindByKey(ctx context.Context, key string) (*masterdata.TaxCode, error) {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, code)
	if err != nil {
		return nil, err
	}
	return taxToDomain(r), nil
}

func (s *TaxCodeStore) Create(ctx context.Context, t *masterdata.TaxCode) (*masterdata.TaxCode, error) {
	r, err := s.set.create(ctx, taxCreate{
		Code:     t.Code,
		Name:     t.Name,
		Category: vatCategory(t.Category),
		Inactive: FromBool(!t.Active),
		Lines: []vatLine{{
			EffectiveFrom: s.now().Format("2006-01-02"),
			Rate:          NewNumber(t.Rate),
		}},
	})
	if err != nil {
		return nil, err
	}
	return taxToDomain(r), nil
}

func (s *TaxCodeStore) Update(ctx context.Context, key string, t *masterdata.TaxCode) (*masterdata.TaxCode, error) {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.patch(ctx, code, taxPatch{Name: t.Name, Inactive: FromBool(!t.Active)})
	if err != nil {
		return nil, err
	}
	return taxToDomain(r), nil
}

func (s *TaxCodeStore) Delete(ctx context.Context, key string) error {
	code, err := stringKey(s.set.label, key)
	if err != nil {
		return err
	}
	return s.set.delete(ctx, code)
}

var _ masterdata.TaxCodeStore = (*TaxCodeStore)(nil)
