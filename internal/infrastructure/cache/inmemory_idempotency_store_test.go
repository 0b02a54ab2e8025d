package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("marks new key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "import-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("returns false for a key already marked", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "import-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "import-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("allows marking again after expiration", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "import-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, "import-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "known", time.Hour)
	require.NoError(t, err)
	processed, err = store.IsProcessed(ctx, "known")
	require.NoError(t, err)
	assert.True(t, processed)

	_, err = store.MarkProcessed(ctx, "expiring", 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	processed, err = store.IsProcessed(ctx, "expiring")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "import-1", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "import-1"))

	isNew, err := store.MarkProcessed(ctx, "import-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew, "released key should be accepted again")

	assert.NoError(t, store.Release(ctx, "never-marked"))
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "short-1", 10*time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "short-2", 10*time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	assert.Equal(t, 3, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
	processed, err := store.IsProcessed(ctx, "long")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	const workers = 100

	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		go func() {
			isNew, err := store.MarkProcessed(ctx, "same-key", time.Hour)
			results <- err == nil && isNew
		}()
	}

	newCount := 0
	for i := 0; i < workers; i++ {
		if <-results {
			newCount++
		}
	}
	assert.Equal(t, 1, newCount, "exactly one caller should claim the key")
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
