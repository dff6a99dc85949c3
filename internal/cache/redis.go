package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/talent-matcher/internal/types"
	"github.com/redis/go-redis/v9"
)

// Options configures the Redis connection
type Options struct {
	Addr       string
	Password   string
	DB         int
	DefaultTTL time.Duration
}

// Redis is a ResultCache backed by a Redis server
type Redis struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedis creates a Redis-backed cache. The connection is lazy; use Ping to verify it.
func NewRedis(opts Options) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, defaultTTL: ttl}
}

// Ping checks that the server is reachable
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Get(ctx context.Context, key string) ([]types.MatchResult, error) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return nil, ErrInvalidKey
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var results []types.MatchResult
	if err := json.Unmarshal(val, &results); err != nil {
		return nil, fmt.Errorf("failed to decode cached results: %w", err)
	}
	return results, nil
}

func (c *Redis) Set(ctx context.Context, key string, results []types.MatchResult, ttl time.Duration) error {
	if !strings.HasPrefix(key, KeyPrefix) {
		return ErrInvalidKey
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if results == nil {
		results = []types.MatchResult{}
	}

	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *Redis) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}
