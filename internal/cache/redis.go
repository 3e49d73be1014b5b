package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type store interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// LinkCache помнит ссылки, которые researcher уже отдавал в работу
type LinkCache struct {
	client store
	closer func() error
	prefix string
	ttl    time.Duration
}

func NewRedisLinkCache(ctx context.Context, redisURL string, ttl time.Duration) (*LinkCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	c := newLinkCache(client, ttl)
	c.closer = client.Close

	return c, nil
}

func newLinkCache(client store, ttl time.Duration) *LinkCache {
	return &LinkCache{
		client: client,
		prefix: "news-agents:link:",
		ttl:    ttl,
	}
}

func (c *LinkCache) Seen(ctx context.Context, link string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(link)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}

	return n > 0, nil
}

func (c *LinkCache) Mark(ctx context.Context, link string) error {
	if err := c.client.Set(ctx, c.key(link), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

func (c *LinkCache) Close() error {
	if c.closer == nil {
		return nil
	}

	return c.closer()
}

func (c *LinkCache) key(link string) string {
	sum := sha256.Sum256([]byte(link))
	return c.prefix + hex.EncodeToString(sum[:])
}

// Nop используется, когда redis не настроен: ничего не помнит
type Nop struct{}

func (Nop) Seen(context.Context, string) (bool, error) { return false, nil }

func (Nop) Mark(context.Context, string) error { return nil }

func (Nop) Close() error { return nil }
