package sap

import (
	"context"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

type salesPersonDTO struct {
	SalesEmployeeCode Int    `json:"SalesEmployeeCode"`
	SalesEmployeeName string `json:"SalesEmployeeName"`
	Telephone         string `json:"Telephone"`
	Mobile            string `json:"Mobile"`
	Email             string `json:"Email"`
	Remarks           string `json:"Remarks"`
	Active            YesNo  `json:"Active"`
}

type salesPersonWrite struct {
	SalesEmployeeName string  `json:"SalesEmployeeName"`
	Telephone         *string `json:"Telephone,omitempty"`
	Mobile            *string `json:"Mobile,omitempty"`
	Email             *string `json:"Email,omitempty"`
	Remarks           *string `json:"Remarks,omitempty"`
	Active            YesNo   `json:"Active"`
}

// SalesEmployeeStore maps sales employees onto SalesPersons.
type SalesEmployeeStore struct {
	set entitySet[salesPersonDTO]
}

// NewSalesEmployeeStore creates the remote sales employee store.
func NewSalesEmployeeStore(client *Client) *SalesEmployeeStore {
	return &SalesEmployeeStore{set: newEntitySet[salesPersonDTO](client, "SalesPersons", "Sales employee",
		"SalesEmployeeCode", "SalesEmployeeName", "Telephone", "Mobile", "Email", "Remarks", "Active")}
}

func salesEmployeeToDomain(r *salesPersonDTO) *masterdata.SalesEmployee {
	return &masterdata.SalesEmployee{
		ID:        int64(r.SalesEmployeeCode),
		Name:      r.SalesEmployeeName,
		Telephone: r.Telephone,
		Mobile:    r.Mobile,
		Email:     r.Email,
		Remarks:   r.Remarks,
		Active:    r.Active.Bool(),
	}
}

func salesEmployeeToWrite(e *masterdata.SalesEmployee) salesPersonWrite {
	return salesPersonWrite{
		SalesEmployeeName: e.Name,
		Telephone:         NilIfEmpty(e.Telephone),
		Mobile:            NilIfEmpty(e.Mobile),
		Email:             NilIfEmpty(e.Email),
		Remarks:           NilIfEmpty(e.Remarks),
		Active:            FromBool(e.Active),
	}
}

func (s *SalesEmployeeStore) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.SalesEmployee, error) {
	rows, err := s.set.list(ctx, NewFilter().Contains("SalesEmployeeName", filter.Name).String(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]masterdata.SalesEmployee, 0, len(rows))
	for i := range rows {
		out = append(out, *salesEmployeeToDomain(&rows[i]))
	}
	return out, nil
}

func (s *SalesEmployeeStore) FindByKey(ctx context.Context, key string) (*masterdata.SalesEmployee, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return salesEmployeeToDomain(r), nil
}

func (s *SalesEmployeeStore) Create(ctx context.Context, e *masterdata.SalesEmployee) (*masterdata.SalesEmployee, error) {
	r, err := s.set.create(ctx, salesEmployeeToWrite(e))
	if err != nil {
		return nil, err
	}
	return salesEmployeeToDomain(r), nil
}

func (s *SalesEmployeeStore) Update(ctx context.Context, key string, e *masterdata.SalesEmployee) (*masterdata.SalesEmployee, error) {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return nil, err
	}
	r, err := s.set.patch(ctx, id, salesEmployeeToWrite(e))
	if err != nil {
		return nil, err
	}
	return salesEmployeeToDomain(r), nil
}

func (s *SalesEmployeeStore) Delete(ctx context.Context, key string) error {
	id, err := intKey(s.set.label, key)
	if err != nil {
		return err
	}
	return s.set.delete(ctx, id)
}

var _ masterdata.SalesEmployeeStore = (*SalesEmployeeStore)(nil)
