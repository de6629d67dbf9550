package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-quorum/internal/ports"
)

func TestMemoryStore_Operations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, 0)

	v, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)

	require.NoError(t, store.Set(ctx, "round-1", "result", 0))
	v, found, err = store.Get(ctx, "round-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "result", v)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "round-1"))
	_, found, err = store.Get(ctx, "round-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Delete(ctx, "never-set"), "deleting a missing key is not an error")

	require.NoError(t, store.Set(ctx, "a", 1, 0))
	require.NoError(t, store.Set(ctx, "b", 2, 0))
	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Expiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, 0)

	require.NoError(t, store.Set(ctx, "short", "v", 20*time.Millisecond))
	require.NoError(t, store.Set(ctx, "forever", "v", 0))

	assert.Eventually(t, func() bool {
		_, found, _ := store.Get(ctx, "short")
		return !found
	}, time.Second, 10*time.Millisecond)

	_, found, err := store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, found, "entries without a default TTL never expire")
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore(time.Minute, 0)

	tests := []struct {
		name string
		op   func() error
	}{
		{"get", func() error { _, _, err := store.Get(ctx, "k"); return err }},
		{"set", func() error { return store.Set(ctx, "k", "v", 0) }},
		{"delete", func() error { return store.Delete(ctx, "k") }},
		{"clear", func() error { return store.Clear(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			require.Error(t, err)
			assert.ErrorIs(t, err, context.Canceled)

			var cacheErr *ports.CacheError
			require.ErrorAs(t, err, &cacheErr)
			assert.Equal(t, tt.name, cacheErr.Operation)
		})
	}
}
