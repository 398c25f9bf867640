package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/interfaces/http/dto"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set(middleware.RequestIDKey, "ctx-id") },
			expectedID: "ctx-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "header-id") },
			expectedID: "header-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)

			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandlerResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		h.Success(c, map[string]string{"code": "C001"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, map[string]any{"code": "C001"}, resp.Data)
	})

	t.Run("created", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		h.Created(c, "x")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("no content", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		h.NoContent(c)
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("page", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		h.Page(c, []int{1, 2}, 2, 1, 50)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, dto.Meta{Page: 1, PageSize: 50, Count: 2}, *resp.Meta)
	})
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", shared.NewValidationError("code is required"), http.StatusBadRequest, dto.ErrCodeValidation, "code is required"},
		{"not found", shared.NewNotFoundError("Customer", "C9"), http.StatusNotFound, dto.ErrCodeNotFound, "Customer 'C9' not found"},
		{"already exists", shared.NewAlreadyExistsError("Customer", "code", "C1"), http.StatusConflict, dto.ErrCodeAlreadyExists, "Customer with code 'C1' already exists"},
		{"conflict", shared.NewConflictError("in use"), http.StatusConflict, dto.ErrCodeConflict, "in use"},
		{"upstream auth", shared.ErrUpstreamAuth.WithCause(errors.New("401"), "bad password"), http.StatusBadGateway, dto.ErrCodeUpstreamAuth, shared.ErrUpstreamAuth.Message},
		{"upstream failure", shared.NewDomainError(shared.CodeUpstreamFailure, "ERP service error: boom"), http.StatusBadGateway, dto.ErrCodeUpstreamFailure, "ERP service error: boom"},
		{"internal", shared.NewDomainError(shared.CodeInternal, "pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, internalErrorMessage},
		{"wrapped domain error", errors.Join(errors.New("ctx"), shared.NewNotFoundError("Vendor", "V1")), http.StatusNotFound, dto.ErrCodeNotFound, "Vendor 'V1' not found"},
		{"unknown error", errors.New("sql: database is closed"), http.StatusInternalServerError, dto.ErrCodeInternal, internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-1")

			(&BaseHandler{}).HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		(&BaseHandler{}).HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}
