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

// unreachableClient points at a port nothing listens on.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisCache_Key(t *testing.T) {
	c := NewRedisCache(nil, "carrier:")
	assert.Equal(t, "carrier:123456", c.Key("123456"))
}

func TestRedisCache_ErrorsAreWrapped(t *testing.T) {
	c := NewRedisCache(unreachableClient(t), "carrier:")
	ctx := context.Background()

	var dest map[string]any
	hit, err := c.GetJSON(ctx, "123456", &dest)
	require.Error(t, err)
	assert.False(t, hit)
	assert.Contains(t, err.Error(), "failed to read cache key carrier:123456")

	err = c.SetJSON(ctx, "123456", map[string]any{"valid": true}, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write cache key carrier:123456")
}

func TestRedisCache_SetJSONRejectsUnencodable(t *testing.T) {
	c := NewRedisCache(unreachableClient(t), "carrier:")

	err := c.SetJSON(context.Background(), "x", make(chan int), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode cache value")
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client, "carrier:"), mr
}

func TestRedisCache_MissIsNotAnError(t *testing.T) {
	c, _ := newTestCache(t)

	var dest map[string]any
	hit, err := c.GetJSON(context.Background(), "123456", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, dest)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	type verification struct {
		Valid    bool   `json:"valid"`
		MCNumber string `json:"mc_number"`
	}

	require.NoError(t, c.SetJSON(ctx, "123456", verification{Valid: true, MCNumber: "123456"}, time.Hour))

	assert.True(t, mr.Exists("carrier:123456"))
	assert.Equal(t, time.Hour, mr.TTL("carrier:123456"))

	raw, err := mr.Get("carrier:123456")
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":true,"mc_number":"123456"}`, raw)

	var got verification
	hit, err := c.GetJSON(ctx, "123456", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, verification{Valid: true, MCNumber: "123456"}, got)

	mr.FastForward(2 * time.Hour)

	hit, err = c.GetJSON(ctx, "123456", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("carrier:123456", "not json"))

	var dest map[string]any
	hit, err := c.GetJSON(context.Background(), "123456", &dest)
	require.Error(t, err)
	assert.False(t, hit)
	assert.Contains(t, err.Error(), "failed to decode cache key carrier:123456")
}
