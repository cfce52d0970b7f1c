package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGet(t *testing.T) {
	store := NewStore(Options{Prefix: "test", DefaultTTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "value", 0))

	raw, ok := store.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, "value", raw)

	store.Delete(ctx, "key")
	_, ok = store.Get(ctx, "key")
	assert.False(t, ok)
}

func TestStoreJSONRoundTrip(t *testing.T) {
	store := NewStore(Options{DefaultTTL: time.Minute})
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Valid bool   `json:"valid"`
	}

	require.NoError(t, store.SetJSON(ctx, "verdict", payload{Name: "R2D2XY", Valid: true}, 0))

	var got payload
	found, err := store.GetJSON(ctx, "verdict", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload{Name: "R2D2XY", Valid: true}, got)

	found, err = store.GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreNamespaceIsolation(t *testing.T) {
	store := NewStore(Options{Prefix: "root", DefaultTTL: time.Minute})
	ctx := context.Background()

	a := store.Namespace("a")
	b := store.Namespace("b")

	require.NoError(t, a.Set(ctx, "key", 1, 0))
	_, ok := b.Get(ctx, "key")
	assert.False(t, ok)
	_, ok = a.Get(ctx, "key")
	assert.True(t, ok)
}

func TestStoreIncrement(t *testing.T) {
	store := NewStore(Options{DefaultTTL: time.Minute})
	ctx := context.Background()

	first, err := store.Increment(ctx, "count", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := store.Increment(ctx, "count", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), second)

	ttl, ok := store.TTL(ctx, "count")
	require.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))
}
