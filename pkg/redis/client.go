// Package redis provides a thin wrapper around go-redis/v9 used to publish a
// finished index as a Redis hash.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/config"
)

// hashChunk bounds the number of fields sent in a single HSET.
const hashChunk = 500

// Client wraps a go-redis client.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis client. No connection is made until first use.
func NewClient(cfg config.RedisConfig) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	return &Client{rdb: rdb}
}

// ReplaceHash atomically swaps the hash at key for fields and sets its TTL.
// A non-positive ttl leaves the key without expiry.
func (c *Client) ReplaceHash(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		chunk := make(map[string]any, min(len(fields), hashChunk))
		for field, value := range fields {
			chunk[field] = value
			if len(chunk) == hashChunk {
				pipe.HSet(ctx, key, chunk)
				chunk = make(map[string]any, hashChunk)
			}
		}
		if len(chunk) > 0 {
			pipe.HSet(ctx, key, chunk)
		}
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replacing hash %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping sends a PING to Redis and returns any error.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
