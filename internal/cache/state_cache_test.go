package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type state struct {
	Status   string `json:"status"`
	Location *int   `json:"location_id"`
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	c := &RedisCache{redis: rdb, ttl: time.Minute, logger: zap.NewNop()}

	loc := 200
	require.NoError(t, c.SetJSON(ctx, "asset:state:1", state{Status: "assigned", Location: &loc}))
	assert.Equal(t, time.Minute, rdb.ttls["asset:state:1"])

	var got state
	hit, err := c.GetJSON(ctx, "asset:state:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "assigned", got.Status)
	assert.Equal(t, 200, *got.Location)

	require.NoError(t, c.Delete(ctx, "asset:state:1"))
	hit, err = c.GetJSON(ctx, "asset:state:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_CorruptEntryIsDropped(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.data["asset:state:2"] = "{not json"
	c := &RedisCache{redis: rdb, ttl: time.Minute, logger: zap.NewNop()}

	var got state
	hit, err := c.GetJSON(ctx, "asset:state:2", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotContains(t, rdb.data, "asset:state:2")
}

func TestRedisCache_GetError(t *testing.T) {
	rdb := newFakeRedis()
	rdb.failGet = errors.New("connection refused")
	c := &RedisCache{redis: rdb, ttl: time.Minute, logger: zap.NewNop()}

	var got state
	_, err := c.GetJSON(context.Background(), "asset:state:3", &got)
	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisCache_ZeroTTLSkipsWrites(t *testing.T) {
	rdb := newFakeRedis()
	c := &RedisCache{redis: rdb, logger: zap.NewNop()}

	require.NoError(t, c.SetJSON(context.Background(), "asset:state:4", state{}))
	assert.Empty(t, rdb.data)
}

func TestRedisCache_WithoutClient(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(nil, time.Minute, zap.NewNop())

	assert.NoError(t, c.SetJSON(ctx, "asset:state:5", state{}))
	hit, err := c.GetJSON(ctx, "asset:state:5", &state{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Delete(ctx, "asset:state:5"))
}

func TestConnect_EmptyURL(t *testing.T) {
	rdb, err := Connect(context.Background(), "", zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://nope", zap.NewNop())
	assert.ErrorContains(t, err, "parse redis url")
}
