package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/interfaces/http/dto"
)

type MockEntityService[T any] struct {
	mock.Mock
}

func (m *MockEntityService[T]) List(ctx context.Context, filter shared.Filter) ([]T, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockEntityService[T]) Get(ctx context.Context, key string) (*T, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockEntityService[T]) Create(ctx context.Context, entity *T) (*T, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockEntityService[T]) Update(ctx context.Context, key string, entity *T) (*T, error) {
	args := m.Called(ctx, key, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockEntityService[T]) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newWarehouseRouter(svc *MockEntityService[masterdata.Warehouse]) *gin.Engine {
	engine := gin.New()
	NewEntityHandler[masterdata.Warehouse]("Warehouse", svc).Routes().RegisterRoutes(engine.Group("/api"))
	return engine
}

func doRequest(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestEntityHandler_List(t *testing.T) {
	svc := new(MockEntityService[masterdata.Warehouse])
	engine := newWarehouseRouter(svc)

	want := shared.Filter{Code: "01", Name: "Main", Page: 2, PageSize: 10}
	svc.On("List", mock.Anything, want).Return([]masterdata.Warehouse{{Code: "01", Name: "Main"}}, nil)

	w := doRequest(engine, http.MethodGet, "/api/Warehouse?code=01&name=Main&page=2&pageSize=10", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, dto.Meta{Page: 2, PageSize: 10, Count: 1}, *resp.Meta)
	assert.Len(t, resp.Data, 1)
	svc.AssertExpectations(t)
}

func TestEntityHandler_ListEmptyIsArray(t *testing.T) {
	svc := new(MockEntityService[masterdata.Warehouse])
	svc.On("List", mock.Anything, shared.Filter{}).Return(nil, nil)

	w := doRequest(newWarehouseRouter(svc), http.MethodGet, "/api/Warehouse", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestEntityHandler_ListRejectsBadPage(t *testing.T) {
	svc := new(MockEntityService[masterdata.Warehouse])

	w := doRequest(newWarehouseRouter(svc), http.MethodGet, "/api/Warehouse?page=abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestEntityHandler_Get(t *testing.T) {
	svc := new(MockEntityService[masterdata.Warehouse])
	engine := newWarehouseRouter(svc)
	svc.On("Get", mock.Anything, "01").Return(&masterdata.Warehouse{Code: "01", Name: "Main"}, nil)
	svc.On("Get", mock.Anything, "99").Return(nil, shared.NewNotFoundError("Warehouse", "99"))

	w := doRequest(engine, http.MethodGet, "/api/Warehouse/01", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Main"`)

	w = doRequest(engine, http.MethodGet, "/api/Warehouse/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Warehouse '99' not found")
}

func TestEntityHandler_Create(t *testing.T) {
	svc := new(MockEntityService[masterdata.Warehouse])
	engine := newWarehouseRouter(svc)

	svc.On("Create", mock.Anything, &masterdata.Warehouse{Code: "02", Name: "North", Active: true}).
		Return(&masterdata.Warehouse{ID: 7, Code: "02", Name: "North", Active: true}, nil)

	w := doRequest(engine, http.MethodPost, "/api/Warehouse", `{"code":"02","name":"North","active":true}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":7`)
	svc.AssertExpectations(t)
}

func TestEntityHandler_CreateBadJSON(t *testing.T) {
	svc := new(MockEntityService[masterdata.Warehouse])

	w := doRequest(newWarehouseRouter(svc), http.MethodPost, "/api/Warehouse", `{"code":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEntityHandler_CreateConflict(t *testing.T) {
	svc := new(MockEntityService[masterdata.Warehouse])
	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, shared.NewAlreadyExistsError("Warehouse", "code", "01"))

	w := doRequest(newWarehouseRouter(svc), http.MethodPost, "/api/Warehouse", `{"code":"01","name":"Dup"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeAlreadyExists)
}

func TestEntityHandler_UpdatePutAndPatch(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			svc := new(MockEntityService[masterdata.Warehouse])
			svc.On("Update", mock.Anything, "01", &masterdata.Warehouse{Name: "Renamed"}).
				Return(&masterdata.Warehouse{Code: "01", Name: "Renamed"}, nil)

			w := doRequest(newWarehouseRouter(svc), method, "/api/Warehouse/01", `{"name":"Renamed"}`)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"name":"Renamed"`)
			svc.AssertExpectations(t)
		})
	}
}

func TestEntityHandler_Delete(t *testing.T) {
	svc := new(MockEntityService[masterdata.Warehouse])
	engine := newWarehouseRouter(svc)
	svc.On("Delete", mock.Anything, "01").Return(nil)
	svc.On("Delete", mock.Anything, "02").Return(shared.NewConflictError("Warehouse '02' is in use"))

	w := doRequest(engine, http.MethodDelete, "/api/Warehouse/01", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(engine, http.MethodDelete, "/api/Warehouse/02", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "is in use")
}
