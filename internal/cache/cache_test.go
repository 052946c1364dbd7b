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

type payload struct {
	Code string `json:"code"`
}

func setupTestCache(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return New(Options{Addr: mr.Addr()}), mr
}

func TestSetAndGetJSON(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "otp:1", payload{Code: "123456"}, time.Minute))

	var out payload
	found, err := c.GetJSON(ctx, "otp:1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "123456", out.Code)
}

func TestGetMissAndDelete(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	data, err := c.Get(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	data, _ = c.Get(ctx, "k")
	assert.Nil(t, data)
}

func TestTTLExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	data, _ := c.Get(ctx, "k")
	assert.Nil(t, data)
}

func TestFailSafeWhenRedisDown(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	mr.Close()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.Error(t, c.Ping(ctx))
}

func TestNilClient(t *testing.T) {
	var c *Client
	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, "k", nil, time.Minute))
	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.Error(t, c.Ping(ctx))

	wrapped := NewWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	found, err := wrapped.GetJSON(ctx, "k", &payload{})
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStrictOpsReportRedisDown(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	mr.Close()

	assert.Error(t, c.PutJSON(ctx, "k", payload{Code: "1"}, time.Minute))
	deleted, err := c.CompareAndDelete(ctx, "k", func([]byte) (bool, error) { return true, nil })
	assert.Error(t, err)
	assert.False(t, deleted)
}

func TestCompareAndDelete(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.PutJSON(ctx, "k", payload{Code: "1"}, time.Minute))

	var seen []byte
	deleted, err := c.CompareAndDelete(ctx, "k", func(data []byte) (bool, error) {
		seen = data
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.JSONEq(t, `{"code":"1"}`, string(seen))
	assert.True(t, mr.Exists("k"))

	deleted, err = c.CompareAndDelete(ctx, "k", func([]byte) (bool, error) { return true, nil })
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, mr.Exists("k"))

	deleted, err = c.CompareAndDelete(ctx, "k", func(data []byte) (bool, error) {
		assert.Nil(t, data)
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, deleted)
}
