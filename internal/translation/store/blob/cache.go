package blob

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const signedURLKeyPrefix = "docflow:signed_url:"

// CachingSigner decorates a Store with a Redis cache of signed URLs. Cached
// links are kept for half their lifetime, so a served link is always valid
// for at least ttl/2. Cache failures fall through to the underlying store.
type CachingSigner struct {
	Store
	client redis.Cmdable
	logger *slog.Logger
}

func NewCachingSigner(store Store, client redis.Cmdable, logger *slog.Logger) *CachingSigner {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingSigner{Store: store, client: client, logger: logger}
}

func (c *CachingSigner) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	key := signedURLKeyPrefix + path
	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "signed url cache read failed", "path", path, "error", err)
	}

	u, err := c.Store.SignedURL(ctx, path, ttl)
	if err != nil {
		return "", err
	}
	if cacheTTL := ttl / 2; cacheTTL > 0 {
		if err := c.client.Set(ctx, key, u, cacheTTL).Err(); err != nil {
			c.logger.WarnContext(ctx, "signed url cache write failed", "path", path, "error", err)
		}
	}
	return u, nil
}

// Remove deletes the object and drops any cached link to it.
func (c *CachingSigner) Remove(ctx context.Context, path string) error {
	if err := c.client.Del(ctx, signedURLKeyPrefix+path).Err(); err != nil {
		c.logger.WarnContext(ctx, "signed url cache invalidation failed", "path", path, "error", err)
	}
	return c.Store.Remove(ctx, path)
}

// Put is passed through; declared so the decorator's method set is explicit.
func (c *CachingSigner) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	return c.Store.Put(ctx, path, r, size, contentType)
}
