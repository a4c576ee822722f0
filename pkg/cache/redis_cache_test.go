package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Info(msg string, fields ...interface{})    {}
func (testLogger) Error(msg string, fields ...interface{})   {}
func (testLogger) Debug(msg string, fields ...interface{})   {}
func (testLogger) Infof(format string, args ...interface{})  {}
func (testLogger) Errorf(format string, args ...interface{}) {}
func (testLogger) Debugf(format string, args ...interface{}) {}

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := &Config{
		Host:       mr.Host(),
		Port:       port,
		DefaultTTL: time.Minute,
	}
	c, err := NewRedisCache(cfg, testLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCacheGetSet(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))

	got, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	exists, err := c.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, "key"))
	_, err = c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisCacheDeletePattern(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "departments:list:a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "departments:list:b", []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, "employees:list:a", []byte("3"), time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "departments:list:*"))

	keys, err := c.GetKeys(ctx, "departments:list:*")
	require.NoError(t, err)
	assert.Empty(t, keys)

	got, err := c.Get(ctx, "employees:list:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), got)
}

func TestRedisCacheIncrement(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "counter", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Increment(ctx, "counter", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRedisCacheJSON(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.SetJSON(ctx, "json-key", payload{Name: "engineering", Count: 7}, time.Minute))

	var got payload
	require.NoError(t, c.GetJSON(ctx, "json-key", &got))
	assert.Equal(t, "engineering", got.Name)
	assert.Equal(t, 7, got.Count)
}
