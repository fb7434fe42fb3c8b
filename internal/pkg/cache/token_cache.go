package cache

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const TokenCountTTL = 24 * time.Hour

// TokenCache stores Gemini token counts in the package client. Errors are
// logged and reported as misses.
type TokenCache struct {
	ttl time.Duration
}

func NewTokenCache() *TokenCache {
	return &TokenCache{ttl: TokenCountTTL}
}

func (c *TokenCache) Get(ctx context.Context, key string) (int, bool) {
	n, err := GetInt(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debugf("[Cache] token count lookup failed: %v", err)
		}
		return 0, false
	}
	return n, true
}

func (c *TokenCache) Set(ctx context.Context, key string, tokens int) {
	if err := Set(ctx, key, tokens, c.ttl); err != nil {
		log.Debugf("[Cache] token count store failed: %v", err)
	}
}
