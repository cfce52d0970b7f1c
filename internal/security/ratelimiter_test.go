package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/namegate/internal/cache"
)

func newTestLimiter(t *testing.T) *RateLimiter {
	t.Helper()
	store := cache.NewStore(cache.Options{DefaultTTL: time.Minute})
	limiter, err := NewRateLimiter(store)
	require.NoError(t, err)
	return limiter
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result, err := limiter.Allow(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "10.0.0.1", 1, time.Minute)
	require.NoError(t, err)

	result, err := limiter.Allow(ctx, "10.0.0.2", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRateLimiterReset(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "10.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	result, err := limiter.Allow(ctx, "10.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, result.Allowed)

	limiter.Reset(ctx, "10.0.0.1")

	result, err = limiter.Allow(ctx, "10.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRateLimiterRejectsBadArguments(t *testing.T) {
	limiter := newTestLimiter(t)

	_, err := limiter.Allow(context.Background(), "key", 0, time.Minute)
	assert.Error(t, err)
}
