package masterdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

// MockStore is a mock implementation of masterdata.Store
type MockStore[T any] struct {
	mock.Mock
}

func (m *MockStore[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockStore[T]) FindByKey(ctx context.Context, key string) (*T, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) Create(ctx context.Context, entity *T) (*T, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) Update(ctx context.Context, key string, entity *T) (*T, error) {
	args := m.Called(ctx, key, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestService_CreateValidatesBeforeStore(t *testing.T) {
	store := new(MockStore[masterdata.Product])
	svc := NewService("Product", masterdata.ProductStore(store), (*masterdata.Product).Validate, nil)

	_, err := svc.Create(context.Background(), &masterdata.Product{Name: "no code"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Create(context.Background(), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_KeyRequired(t *testing.T) {
	store := new(MockStore[masterdata.UOM])
	svc := NewService("UOM", masterdata.UOMStore(store), (*masterdata.UOM).Validate, nil)

	_, err := svc.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.ErrorIs(t, svc.Delete(context.Background(), ""), shared.ErrInvalidInput)
	_, err = svc.Update(context.Background(), "", &masterdata.UOM{Code: "KG"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestService_ListCapsPageSize(t *testing.T) {
	store := new(MockStore[masterdata.Warehouse])
	svc := NewService("Warehouse", masterdata.WarehouseStore(store), (*masterdata.Warehouse).Validate, nil)

	store.On("FindAll", mock.Anything, shared.Filter{Page: 1, PageSize: MaxPageSize}).
		Return([]masterdata.Warehouse{{Code: "01"}}, nil)

	list, err := svc.List(context.Background(), shared.Filter{PageSize: 10000})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	store.AssertExpectations(t)
}

func TestService_StoreErrorsPassThrough(t *testing.T) {
	store := new(MockStore[masterdata.Route])
	svc := NewService("Route", masterdata.RouteStore(store), (*masterdata.Route).Validate, nil)

	conflict := shared.NewConflictError("Route '3' is in use and cannot be deleted")
	store.On("Delete", mock.Anything, "3").Return(conflict)
	err := svc.Delete(context.Background(), "3")
	assert.Same(t, conflict, err)

	boom := errors.New("boom")
	store.On("Update", mock.Anything, "3", mock.Anything).Return(nil, boom)
	_, err = svc.Update(context.Background(), "3", &masterdata.Route{Name: "North"})
	assert.ErrorIs(t, err, boom)
}

func TestCustomerService_ResolvesGroupByFoldedName(t *testing.T) {
	customers := new(MockStore[masterdata.BusinessPartner])
	groups := new(MockStore[masterdata.PartnerGroup])
	svc := NewService("Customer", masterdata.PartnerStore(customers), (*masterdata.BusinessPartner).Validate, nil,
		WithPrepare(setPartnerKind(masterdata.PartnerCustomer)),
		WithCheck(resolvePartnerGroup(groups)),
	)

	groups.On("FindAll", mock.Anything, shared.Filter{}).Return([]masterdata.PartnerGroup{
		{ID: 3, Name: "Wholesale"},
		{ID: 7, Name: "Straße"},
	}, nil)
	customers.On("Create", mock.Anything, mock.MatchedBy(func(p *masterdata.BusinessPartner) bool {
		return p.GroupCode == 7 && p.GroupName == "Straße" && p.Kind == masterdata.PartnerCustomer
	})).Return(&masterdata.BusinessPartner{ID: 1, Code: "C1"}, nil)

	_, err := svc.Create(context.Background(), &masterdata.BusinessPartner{Code: "C1", Name: "Acme", GroupName: "STRASSE"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &masterdata.BusinessPartner{Code: "C2", Name: "Beta", GroupName: "Retail"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Customer group 'Retail' does not exist")
	customers.AssertNumberOfCalls(t, "Create", 1)
}

func TestCustomerService_UnknownGroupCode(t *testing.T) {
	customers := new(MockStore[masterdata.BusinessPartner])
	groups := new(MockStore[masterdata.PartnerGroup])
	svc := NewService("Customer", masterdata.PartnerStore(customers), (*masterdata.BusinessPartner).Validate, nil,
		WithCheck(resolvePartnerGroup(groups)),
	)
	groups.On("FindByKey", mock.Anything, "99").Return(nil, shared.NewNotFoundError("Customer group", "99"))

	_, err := svc.Update(context.Background(), "C1", &masterdata.BusinessPartner{Kind: masterdata.PartnerCustomer, Code: "C1", Name: "Acme", GroupCode: 99})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	customers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerService_EnrichesGroupNames(t *testing.T) {
	customers := new(MockStore[masterdata.BusinessPartner])
	groups := new(MockStore[masterdata.PartnerGroup])
	svc := NewService("Customer", masterdata.PartnerStore(customers), (*masterdata.BusinessPartner).Validate, nil,
		WithEnricher(partnerGroupNames(groups)),
	)

	customers.On("FindAll", mock.Anything, shared.Filter{}).Return([]masterdata.BusinessPartner{
		{Code: "C1", GroupCode: 100},
		{Code: "C2"},
	}, nil)
	customers.On("FindByKey", mock.Anything, "C1").Return(&masterdata.BusinessPartner{Code: "C1", GroupCode: 100}, nil)
	groups.On("FindAll", mock.Anything, shared.Filter{}).Return([]masterdata.PartnerGroup{{ID: 100, Name: "Retail"}}, nil)

	list, err := svc.List(context.Background(), shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "Retail", list[0].GroupName)
	assert.Empty(t, list[1].GroupName)

	one, err := svc.Get(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, "Retail", one.GroupName)
}

func TestProductService_ChecksUOMGroup(t *testing.T) {
	products := new(MockStore[masterdata.Product])
	uomGroups := new(MockStore[masterdata.UOMGroup])
	svc := NewService("Product", masterdata.ProductStore(products), (*masterdata.Product).Validate, nil,
		WithCheck(checkUOMGroup(uomGroups)),
	)

	uomGroups.On("FindByKey", mock.Anything, "5").Return(nil, shared.NewNotFoundError("UOM group", "5"))
	_, err := svc.Create(context.Background(), &masterdata.Product{Code: "P1", Name: "Soap", UOMGroupID: 5})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	uomGroups.On("FindByKey", mock.Anything, "6").Return(&masterdata.UOMGroup{ID: 6}, nil)
	products.On("Create", mock.Anything, mock.Anything).Return(&masterdata.Product{ID: 1, Code: "P1"}, nil)
	created, err := svc.Create(context.Background(), &masterdata.Product{Code: "P1", Name: "Soap", UOMGroupID: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestSameName(t *testing.T) {
	assert.True(t, sameName("Retail", " retail "))
	assert.True(t, sameName("Straße", "STRASSE"))
	assert.False(t, sameName("Retail", "Retailer"))
}
