package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	key := "sales-orders/0001_invoice.pdf"

	t.Run("save creates nested directories", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, key, strings.NewReader("pdf-bytes"), 9, "application/pdf"))

		data, err := os.ReadFile(filepath.Join(root, "uploads", "sales-orders", "0001_invoice.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "pdf-bytes", string(data))

		ok, err := s.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("open reads the stored file", func(t *testing.T) {
		rc, err := s.Open(ctx, key)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "pdf-bytes", string(data))
	})

	t.Run("no temp files remain", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(root, "uploads", "sales-orders"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "0001_invoice.pdf", entries[0].Name())
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, key))
		require.NoError(t, s.Delete(ctx, key))

		ok, err := s.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Open(ctx, key)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("keys outside the root are rejected", func(t *testing.T) {
		err := s.Save(ctx, "../escape.txt", strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, ErrInvalidKey)
		_, statErr := os.Stat(filepath.Join(root, "escape.txt"))
		assert.True(t, os.IsNotExist(statErr))

		assert.ErrorIs(t, s.Delete(ctx, "/etc/hosts"), ErrInvalidKey)
	})
}
