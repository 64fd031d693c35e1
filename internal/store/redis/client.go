// Package redis is the fast path for service state: the primary engine
// snapshot store and the pub/sub fabric carrying closed candles in and
// indicator updates out.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

const snapshotKey = "chartengine:snapshot"

// Client wraps the Redis connection used by the indicator service.
type Client struct {
	rdb *goredis.Client
	log *slog.Logger
}

// Config configures the Redis client.
type Config struct {
	Addr     string
	Password string
}

// New connects to Redis and verifies the connection.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	log.Info("redis connected", slog.String("addr", cfg.Addr))
	return &Client{rdb: rdb, log: log}, nil
}

// SaveSnapshot stores the serialized engine snapshot.
func (c *Client) SaveSnapshot(ctx context.Context, data []byte) error {
	if err := c.rdb.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored engine snapshot bytes, or nil when absent.
func (c *Client) LoadSnapshot(ctx context.Context) ([]byte, error) {
	data, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis load snapshot: %w", err)
	}
	return data, nil
}

// Close closes the connection.
func (c *Client) Close() error { return c.rdb.Close() }
