package sap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distributor/backend/internal/domain/shared"
)

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestClient_EnsureSession(t *testing.T) {
	t.Run("logs in once when no cookie is present", func(t *testing.T) {
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"value": []any{}})
		})
		c := sl.newClient(t)
		assert.False(t, c.HasSession())

		require.NoError(t, c.EnsureSession(context.Background()))
		require.NoError(t, c.EnsureSession(context.Background()))

		assert.True(t, c.HasSession())
		assert.Equal(t, int32(1), sl.logins.Load())
	})

	t.Run("concurrent callers share one login", func(t *testing.T) {
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {})
		c := sl.newClient(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, c.EnsureSession(context.Background()))
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), sl.logins.Load())
	})

	t.Run("injected session store receives the cookie", func(t *testing.T) {
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {})
		store := NewSessionStore()
		c := sl.newClient(t, WithSessionStore(store))

		require.NoError(t, c.EnsureSession(context.Background()))

		assert.Same(t, store, c.Session())
		assert.True(t, store.Has(c.baseURL, SessionCookie))
	})
}

func TestClient_LoginFailure(t *testing.T) {
	body := `{"error":{"code":-304,"message":{"lang":"en-us","value":"Fail to get DB Credentials from SLD"}}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + testBasePath, CompanyDB: "SBODEMO", Username: "manager"})
	require.NoError(t, err)

	var out map[string]any
	err = c.Get(context.Background(), "Items", &out)
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, err.Error(), body)

	translated := TranslateError(err, "Product", "")
	var domainErr *shared.DomainError
	require.True(t, errors.As(translated, &domainErr))
	assert.Equal(t, shared.CodeUpstreamAuth, domainErr.Code)
	assert.Contains(t, domainErr.Message, body)
	assert.False(t, c.HasSession())
}

func TestClient_ReloginOnUnauthorized(t *testing.T) {
	t.Run("expired session is renewed and the request retried once", func(t *testing.T) {
		var hits atomic.Int32
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if sessionValue(r) == "session-1" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"error": map[string]any{"code": 301, "message": map[string]any{"value": "Invalid session."}},
				})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ItemCode": "A1"})
		})
		c := sl.newClient(t)

		var out struct{ ItemCode string }
		require.NoError(t, c.Get(context.Background(), "Items('A1')", &out))

		assert.Equal(t, "A1", out.ItemCode)
		assert.Equal(t, int32(2), sl.logins.Load())
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("a second 401 is returned without further retries", func(t *testing.T) {
		var hits atomic.Int32
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error": map[string]any{"code": 301, "message": map[string]any{"value": "Invalid session."}},
			})
		})
		c := sl.newClient(t)

		err := c.Post(context.Background(), "Items", map[string]string{"ItemCode": "A1"}, nil)

		var upErr *UpstreamError
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
		assert.Equal(t, "Invalid session.", upErr.Message)
		assert.Equal(t, int32(2), sl.logins.Load())
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("retry resends the request body", func(t *testing.T) {
		var bodies []string
		var mu sync.Mutex
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			mu.Lock()
			bodies = append(bodies, payload["ItemCode"])
			mu.Unlock()
			if sessionValue(r) == "session-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(w, http.StatusCreated, payload)
		})
		c := sl.newClient(t)

		require.NoError(t, c.Post(context.Background(), "Items", map[string]string{"ItemCode": "A1"}, nil))
		assert.Equal(t, []string{"A1", "A1"}, bodies)
	})

	t.Run("concurrent rejections share one login", func(t *testing.T) {
		const workers = 8
		var rejected atomic.Int32
		release := make(chan struct{})
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
			if sessionValue(r) == "session-1" {
				// Hold every request until all of them carry the stale cookie.
				if rejected.Add(1) == workers {
					close(release)
				}
				select {
				case <-release:
				case <-time.After(5 * time.Second):
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ItemCode": "A1"})
		})
		c := sl.newClient(t)
		require.NoError(t, c.EnsureSession(context.Background()))

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var out struct{ ItemCode string }
				errs <- c.Get(context.Background(), "Items('A1')", &out)
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
		assert.Equal(t, int32(workers), rejected.Load())
		assert.Equal(t, int32(2), sl.logins.Load())
	})
}

func TestClient_BusinessErrorKeepsSession(t *testing.T) {
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"code": -10, "message": map[string]any{"value": "Code already exists"}},
		})
	})
	c := sl.newClient(t)

	err := c.Post(context.Background(), "Warehouses", map[string]string{"WarehouseCode": "01"}, nil)
	require.Error(t, err)

	assert.True(t, c.HasSession())
	assert.Equal(t, int32(1), sl.logins.Load())
}

func TestClient_GetAll(t *testing.T) {
	t.Run("follows nextLink across pages", func(t *testing.T) {
		var hits atomic.Int32
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			assert.Equal(t, "odata.maxpagesize=2", r.Header.Get("Prefer"))
			switch r.URL.Query().Get("$skip") {
			case "":
				writeJSON(w, http.StatusOK, map[string]any{
					"value":           []any{map[string]any{"ItemCode": "A1"}, map[string]any{"ItemCode": "A2"}},
					"@odata.nextLink": "http://" + r.Host + testBasePath + "Items?$skip=2",
				})
			case "2":
				writeJSON(w, http.StatusOK, map[string]any{
					"value":           []any{map[string]any{"ItemCode": "A3"}, map[string]any{"ItemCode": "A4"}},
					"@odata.nextLink": testBasePath + "Items?$skip=4",
				})
			default:
				writeJSON(w, http.StatusOK, map[string]any{
					"value": []any{map[string]any{"ItemCode": "A5"}},
				})
			}
		})
		c, err := NewClient(Config{BaseURL: sl.URL + testBasePath, PageSize: 2})
		require.NoError(t, err)

		page, err := c.GetAll(context.Background(), "Items")
		require.NoError(t, err)

		assert.Equal(t, int32(3), hits.Load())
		require.Len(t, page.Value, 5)
		assert.Empty(t, page.NextLink)

		// Each item must still hold its own page's bytes after the shared
		// read buffer was overwritten by later pages.
		for i, raw := range page.Value {
			var item struct{ ItemCode string }
			require.NoError(t, json.Unmarshal(raw, &item))
			assert.Equal(t, "A"+string(rune('1'+i)), item.ItemCode)
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"value": []any{}})
		})
		c := sl.newClient(t)

		page, err := c.GetAll(context.Background(), "Items")
		require.NoError(t, err)
		assert.NotNil(t, page.Value)
		assert.Empty(t, page.Value)
	})

	t.Run("self-referencing nextLink is rejected", func(t *testing.T) {
		sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"value":           []any{map[string]any{"ItemCode": "A1"}},
				"@odata.nextLink": "Items",
			})
		})
		c := sl.newClient(t)

		_, err := c.GetAll(context.Background(), "Items")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pagination loop")
	})
}

func TestClient_RelativeLink(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "https://sap.example.com:50000/b1s/v1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		link string
		want string
	}{
		{"empty", "", ""},
		{"relative", "Items?$skip=20", "Items?$skip=20"},
		{"absolute with base", "https://sap.example.com:50000/b1s/v1/Items?$skip=20", "Items?$skip=20"},
		{"absolute other host", "https://10.0.0.5:50000/b1s/v1/Items?$skip=20", "Items?$skip=20"},
		{"base path", "/b1s/v1/Items?$skip=20", "Items?$skip=20"},
		{"leading slash", "/Items?$skip=20", "Items?$skip=20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.relativeLink(tt.link))
		})
	}
}

func TestClient_Logout(t *testing.T) {
	var logouts atomic.Int32
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/Logout") {
			logouts.Add(1)
			w.WriteHeader(http.StatusNoContent)
		}
	})
	c := sl.newClient(t)
	require.NoError(t, c.Login(context.Background()))

	c.Logout(context.Background())

	assert.False(t, c.HasSession())
	assert.Equal(t, int32(1), logouts.Load())
}
