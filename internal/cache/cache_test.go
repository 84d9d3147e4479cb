package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Basic(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10)
	defer cache.Close()

	err := cache.Set(ctx, "key1", []byte("value1"), time.Hour)
	require.NoError(t, err)

	value, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), value)

	exists, err := cache.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, exists)

	// Missing keys are not errors
	value, err = cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10)

	require.NoError(t, cache.Set(ctx, "key1", []byte("value1"), time.Hour))
	require.NoError(t, cache.Delete(ctx, "key1"))

	exists, err := cache.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, exists)

	value, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Nil(t, value)

	assert.NoError(t, cache.Delete(ctx, "never-set"))
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10)

	require.NoError(t, cache.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	value, err := cache.Get(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, value)

	exists, err := cache.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_Eviction(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(2)

	require.NoError(t, cache.Set(ctx, "first", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "second", []byte("2"), time.Hour))
	require.NoError(t, cache.Set(ctx, "third", []byte("3"), time.Hour))

	// "first" expires soonest so it is evicted
	value, _ := cache.Get(ctx, "first")
	assert.Nil(t, value)

	value, _ = cache.Get(ctx, "third")
	assert.Equal(t, []byte("3"), value)
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10)

	buf := []byte("original")
	require.NoError(t, cache.Set(ctx, "key", buf, time.Hour))
	buf[0] = 'X'

	value, _ := cache.Get(ctx, "key")
	assert.Equal(t, []byte("original"), value)
}

func TestMultiLevelCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(10)
	l2 := NewMemoryCache(10)
	cache := NewLayeredCache(l1, l2)

	// Only L2 has the value
	require.NoError(t, l2.Set(ctx, "key", []byte("from-l2"), time.Hour))

	value, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("from-l2"), value)

	// L1 was populated on the way out
	l1Value, _ := l1.Get(ctx, "key")
	assert.Equal(t, []byte("from-l2"), l1Value)
}

func TestMultiLevelCache_SetAndDelete(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(10)
	l2 := NewMemoryCache(10)
	cache := NewLayeredCache(l1, l2)

	require.NoError(t, cache.Set(ctx, "key", []byte("v"), time.Hour))

	for _, level := range []Cache{l1, l2} {
		exists, err := level.Exists(ctx, "key")
		require.NoError(t, err)
		assert.True(t, exists)
	}

	require.NoError(t, cache.Delete(ctx, "key"))

	exists, err := cache.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheError_Error(t *testing.T) {
	err := &CacheError{
		Operation: "get",
		Key:       "songlink:slug:sunset-drive",
		Err:       errors.New("connection refused"),
	}

	assert.Equal(t, "cache get failed for key 'songlink:slug:sunset-drive': connection refused", err.Error())
}

func TestCacheError_Unwrap(t *testing.T) {
	underlying := errors.New("timeout")
	err := fmt.Errorf("wrapped: %w", &CacheError{Operation: "set", Key: "k", Err: underlying})

	var cacheErr *CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "set", cacheErr.Operation)
	assert.ErrorIs(t, err, underlying)
}

func TestParseValkeyURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		addr     string
		username string
		password string
		db       int
		tls      bool
		wantErr  bool
	}{
		{name: "plain", url: "valkey://localhost:6379", addr: "localhost:6379"},
		{name: "password only", url: "redis://:secret@cache:6379", addr: "cache:6379", password: "secret"},
		{name: "user and db", url: "valkey://app:pw@cache:6379/3", addr: "cache:6379", username: "app", password: "pw", db: 3},
		{name: "tls", url: "valkeys://cache.example.com:6380", addr: "cache.example.com:6380", tls: true},
		{name: "missing host", url: "valkey://", wantErr: true},
		{name: "bad scheme", url: "http://localhost:6379", wantErr: true},
		{name: "bad db", url: "valkey://localhost:6379/x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, err := parseValkeyURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.addr}, opt.InitAddress)
			assert.Equal(t, tt.username, opt.Username)
			assert.Equal(t, tt.password, opt.Password)
			assert.Equal(t, tt.db, opt.SelectDB)
			assert.Equal(t, tt.tls, opt.TLSConfig != nil)
		})
	}
}

func BenchmarkMemoryCache_Set(b *testing.B) {
	ctx := context.Background()
	cache := NewMemoryCache(b.N + 1)
	value := []byte("benchmark-value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Set(ctx, fmt.Sprintf("key-%d", i), value, time.Hour)
	}
}

func BenchmarkMemoryCache_Get(b *testing.B) {
	ctx := context.Background()
	cache := NewMemoryCache(1000)
	cache.Set(ctx, "key", []byte("value"), time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(ctx, "key")
	}
}
