package redis

import (
	"context"
	"fmt"
	"time"
)

const purgeScanCount = 100

// Purge removes every cached page under the configured key prefix and
// returns how many entries were deleted
func (c *Client) Purge(ctx context.Context) (int, error) {
	now := time.Now()
	removedCount := 0

	iter := c.rdb.Scan(ctx, 0, c.keyPrefix+"*", purgeScanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		n, err := c.rdb.Del(ctx, key).Result()
		if err != nil {
			c.log.Warn("failed to delete cached page %s: %v", key, err)
			continue
		}
		removedCount += int(n)
	}
	if err := iter.Err(); err != nil {
		return removedCount, fmt.Errorf("failed to scan cached pages: %w", err)
	}

	if removedCount > 0 {
		c.log.Info("Purged %d cached pages at %s", removedCount, now.Format(time.RFC3339))
	}
	return removedCount, nil
}
