package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/distributor/backend/internal/infrastructure/config"
)

// fakeS3 is a minimal path-style S3 endpoint holding objects in memory.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  bool
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	if len(parts) == 1 || parts[1] == "" {
		switch r.Method {
		case http.MethodHead:
			if !f.bucket {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		case http.MethodPut:
			f.bucket = true
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	key := parts[1]
	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[key] = data
		f.types[key] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = w.Write(data)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Storage(t *testing.T) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3Storage(context.Background(), &config.S3Config{
		Bucket:          "attachments",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return s, fake
}

func TestNewS3Storage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Storage(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3Storage(ctx, &config.S3Config{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half a credential pair returns error", func(t *testing.T) {
		_, err := NewS3Storage(ctx, &config.S3Config{Bucket: "b", AccessKeyID: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		s, err := NewS3Storage(ctx, &config.S3Config{
			Bucket:          "b",
			Endpoint:        "minio.local:9000",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, "b", s.Bucket())
	})
}

func TestS3Storage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestS3Storage(t)

	require.NoError(t, s.EnsureBucket(ctx))
	assert.True(t, fake.bucket)

	key := "purchase-orders/abc_quote.txt"
	require.NoError(t, s.Save(ctx, key, strings.NewReader("quote"), 5, "text/plain"))
	assert.Equal(t, "quote", string(fake.objects[key]))
	assert.Equal(t, "text/plain", fake.types[key])

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "quote", string(data))

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Storage_NonSeekableBody(t *testing.T) {
	s, fake := newTestS3Storage(t)

	pr, pw := io.Pipe()
	go func() {
		_, _ = io.WriteString(pw, "streamed")
		pw.Close()
	}()
	require.NoError(t, s.Save(context.Background(), "ar-invoices/x.bin", pr, -1, ""))
	assert.Equal(t, "streamed", string(fake.objects["ar-invoices/x.bin"]))
}

func TestS3Storage_RejectsInvalidKeys(t *testing.T) {
	s, _ := newTestS3Storage(t)
	err := s.Save(context.Background(), "../x", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
