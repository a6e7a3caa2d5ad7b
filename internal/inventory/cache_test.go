package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestTotalsCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewTotalsCache(rdb, time.Minute)
	ctx := context.Background()

	_, ok := cache.Total(ctx, 1)
	require.False(t, ok)

	cache.SetTotal(ctx, 1, 42.5)
	total, ok := cache.Total(ctx, 1)
	require.True(t, ok)
	require.Equal(t, 42.5, total)

	cache.Invalidate(ctx, 1)
	_, ok = cache.Total(ctx, 1)
	require.False(t, ok)
}

func TestTotalsCacheNilSafe(t *testing.T) {
	var cache *TotalsCache
	_, ok := cache.Total(context.Background(), 1)
	require.False(t, ok)
	cache.SetTotal(context.Background(), 1, 10)
	cache.Invalidate(context.Background(), 1)
}
