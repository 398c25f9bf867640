package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/distributor/backend/internal/infrastructure/config"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	ctx := context.Background()

	t.Run("marks new key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("rejects a repeated key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("accepts the key again after expiration", func(t *testing.T) {
		now := time.Now()
		store.now = func() time.Time { return now }

		isNew, err := store.MarkProcessed(ctx, "key-3", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)

		now = now.Add(2 * time.Minute)
		isNew, err = store.MarkProcessed(ctx, "key-3", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)
		store.now = time.Now
	})

	t.Run("forget allows a retry", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "key-4", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Forget(ctx, "key-4"))

		isNew, err := store.MarkProcessed(ctx, "key-4", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_Concurrent(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(context.Background(), "same-key", time.Hour)
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	ctx := context.Background()
	_, _ = store.MarkProcessed(ctx, "short", time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	require.Equal(t, 2, store.Size())

	store.now = func() time.Time { return time.Now().Add(time.Minute) }
	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestNewIdempotencyStore(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("disabled redis uses memory", func(t *testing.T) {
		store := NewIdempotencyStore(context.Background(), config.RedisConfig{}, log)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		store := NewIdempotencyStore(context.Background(), config.RedisConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    1,
		}, log)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})
}
