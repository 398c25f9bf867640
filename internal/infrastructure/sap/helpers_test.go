package sap

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const testBasePath = "/b1s/v1/"

// fakeServiceLayer answers Login with a fresh B1SESSION cookie per call and
// hands every other path to handler.
type fakeServiceLayer struct {
	*httptest.Server
	logins atomic.Int32
}

func newFakeServiceLayer(t *testing.T, handler http.HandlerFunc) *fakeServiceLayer {
	t.Helper()
	f := &fakeServiceLayer{}
	mux := http.NewServeMux()
	mux.HandleFunc(testBasePath+"Login", func(w http.ResponseWriter, r *http.Request) {
		n := f.logins.Add(1)
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: fmt.Sprintf("session-%d", n), Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"SessionId": fmt.Sprintf("session-%d", n), "SessionTimeout": 30})
	})
	mux.HandleFunc(testBasePath, handler)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServiceLayer) newClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:   f.URL + testBasePath,
		CompanyDB: "SBODEMO",
		Username:  "manager",
		Password:  "secret",
	}, opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sessionValue(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
