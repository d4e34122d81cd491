// Package redis provides the page cache that sits in front of the title holder source.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ibs-source/champions-bot/internal/config"
	"github.com/ibs-source/champions-bot/internal/log"
)

// Client manages cached page bodies
type Client struct {
	rdb       *redis.Client
	keyPrefix string
	ttl       time.Duration
	log       *log.Logger
}

// NewClient creates a new Redis client and verifies the connection
func NewClient(cfg *config.RedisConfig, logger *log.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Page cache connected to %s (ttl %s)", cfg.Address, cfg.TTL)

	return &Client{
		rdb:       rdb,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
		log:       logger,
	}, nil
}

// Key maps a page URL to its cache key
func (c *Client) Key(pageURL string) string {
	return pageKey(c.keyPrefix, pageURL)
}

func pageKey(prefix, pageURL string) string {
	sum := sha256.Sum256([]byte(pageURL))
	return prefix + hex.EncodeToString(sum[:])
}

// Get returns the cached body for pageURL. A miss is reported with found=false
// and a nil error.
func (c *Client) Get(ctx context.Context, pageURL string) (body []byte, found bool, err error) {
	body, err = c.rdb.Get(ctx, c.Key(pageURL)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached page: %w", err)
	}
	return body, true, nil
}

// Set stores body for pageURL with the configured TTL
func (c *Client) Set(ctx context.Context, pageURL string, body []byte) error {
	if err := c.rdb.Set(ctx, c.Key(pageURL), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
