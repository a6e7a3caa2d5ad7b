package inventory

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const totalKeyPrefix = "inv:total:"

// TotalsCache keeps per-product stock totals in Redis so catalog and POS
// reads skip the SUM over stock_levels. A nil cache is a valid no-op.
type TotalsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTotalsCache(rdb *redis.Client, ttl time.Duration) *TotalsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TotalsCache{rdb: rdb, ttl: ttl}
}

func totalKey(productID int64) string {
	return totalKeyPrefix + strconv.FormatInt(productID, 10)
}

// Total returns the cached stock total for a product. The second return is
// false on a miss or any Redis error; callers fall back to the database.
func (c *TotalsCache) Total(ctx context.Context, productID int64) (float64, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	raw, err := c.rdb.Get(ctx, totalKey(productID)).Result()
	if err != nil {
		return 0, false
	}
	total, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return total, true
}

// SetTotal stores the total after a successful stock mutation. Errors are
// dropped: the cache is an accelerator, not a source of truth.
func (c *TotalsCache) SetTotal(ctx context.Context, productID int64, total float64) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Set(ctx, totalKey(productID), strconv.FormatFloat(total, 'f', -1, 64), c.ttl).Err()
}

// Invalidate drops a product's cached total.
func (c *TotalsCache) Invalidate(ctx context.Context, productID int64) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, totalKey(productID)).Err()
}
