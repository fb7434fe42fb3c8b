package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTestRedis points the package client at a fresh miniredis.
func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestPackageHelpers(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	require.NoError(t, Set(ctx, "k", 12, time.Minute))
	n, err := GetInt(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	ok, err := SetNX(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Delete(ctx, "k"))
	_, err = GetInt(ctx, "k")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestWebhookEvents_MarkProcessed(t *testing.T) {
	mr := useTestRedis(t)
	events := NewWebhookEvents()
	ctx := context.Background()

	first, err := events.MarkProcessed(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := events.MarkProcessed(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, again)

	assert.Equal(t, WebhookEventTTL, mr.TTL(webhookEventPrefix+"evt_1"))

	require.NoError(t, events.Forget(ctx, "evt_1"))
	retry, err := events.MarkProcessed(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, retry)
}

func TestWebhookEvents_ExpiresAfterTTL(t *testing.T) {
	mr := useTestRedis(t)
	events := NewWebhookEvents()
	ctx := context.Background()

	_, err := events.MarkProcessed(ctx, "evt_2")
	require.NoError(t, err)
	mr.FastForward(WebhookEventTTL + time.Second)

	first, err := events.MarkProcessed(ctx, "evt_2")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestWebhookEvents_EmptyID(t *testing.T) {
	useTestRedis(t)
	events := NewWebhookEvents()

	for i := 0; i < 2; i++ {
		first, err := events.MarkProcessed(context.Background(), "")
		require.NoError(t, err)
		assert.True(t, first)
	}
	assert.NoError(t, events.Forget(context.Background(), ""))
}

func TestWebhookEvents_CacheDown(t *testing.T) {
	mr := useTestRedis(t)
	events := NewWebhookEvents()
	mr.Close()

	_, err := events.MarkProcessed(context.Background(), "evt_3")
	assert.Error(t, err)
}

func TestTokenCache(t *testing.T) {
	mr := useTestRedis(t)
	c := NewTokenCache()
	ctx := context.Background()

	_, ok := c.Get(ctx, "gemini:tokens:m:abc")
	assert.False(t, ok)

	c.Set(ctx, "gemini:tokens:m:abc", 321)
	n, ok := c.Get(ctx, "gemini:tokens:m:abc")
	require.True(t, ok)
	assert.Equal(t, 321, n)
	assert.Equal(t, TokenCountTTL, mr.TTL("gemini:tokens:m:abc"))
}

func TestTokenCache_FailuresAreMisses(t *testing.T) {
	mr := useTestRedis(t)
	c := NewTokenCache()
	mr.Close()

	c.Set(context.Background(), "k", 1)
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
