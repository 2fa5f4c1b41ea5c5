package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/config"
)

// Client wraps the Redis connection. It currently backs the per-semester
// import lock and the upload rate limiter; callers must tolerate a nil
// client and degrade to in-process behavior.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient opens a Redis connection and pings it.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── semester import lock ──

const importLockPrefix = "import:lock:"

// AcquireImportLock takes the import lock for a semester. The TTL guards
// against a crashed importer holding the lock forever.
func (c *Client) AcquireImportLock(ctx context.Context, semesterID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, importLockPrefix+semesterID, "1", ttl).Result()
}

// ReleaseImportLock releases the import lock for a semester.
func (c *Client) ReleaseImportLock(ctx context.Context, semesterID string) error {
	return c.rdb.Del(ctx, importLockPrefix+semesterID).Err()
}

// ── rate limiting ──

// CheckRateLimit implements a fixed-window counter. Returns false when the
// caller exceeded limit requests within the window.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
