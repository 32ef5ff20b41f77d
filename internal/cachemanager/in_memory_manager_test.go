package cachemanager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type blobKey string

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, []byte]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[blobKey, []byte]("blobs", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "blob-store://1", []byte{1, 2, 3}, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "blob-store://1")
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, got)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []byte]("blobs", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "nope")
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_GetWithInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []byte]("blobs", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("k", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "k")
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("blobs", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "k", "v", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("blobs", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()
	cache.Set(ctx, "k", "v", 50*time.Millisecond)

	got, ok := cache.GetWithRefresh(ctx, "k", time.Hour)
	require.True(t, ok)
	require.Equal(t, "v", got)

	time.Sleep(80 * time.Millisecond)
	_, ok = cache.Get(ctx, "k")
	require.True(t, ok, "refresh should have extended the ttl")

	_, ok = cache.GetWithRefresh(ctx, "missing", time.Hour)
	require.False(t, ok)
}

func TestInMemoryCacheManager_Add(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("blobs", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	require.True(t, cache.Add(ctx, "k", "first", NoExpiration))
	require.False(t, cache.Add(ctx, "k", "second", NoExpiration))

	got, _ := cache.Get(ctx, "k")
	require.Equal(t, "first", got)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("blobs", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()
	cache.Set(ctx, "a", "1", DefaultExpiration)
	cache.Set(ctx, "b", "2", DefaultExpiration)
	cache.Set(ctx, "c", "3", DefaultExpiration)

	require.NoError(t, cache.Delete(ctx))
	require.NoError(t, cache.Delete(ctx, "a", "missing"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 2, cache.Len())

	require.NoError(t, cache.Flush(ctx))
	require.Equal(t, 0, cache.Len())
}

func TestInMemoryCacheManager_OnEvicted(t *testing.T) {
	cache := NewInMemoryCacheManager[blobKey, []byte]("blobs", DefaultExpiration, DefaultCleanupInterval)

	var (
		mu      sync.Mutex
		evicted []blobKey
	)
	cache.OnEvicted(func(key blobKey, value []byte) {
		mu.Lock()
		evicted = append(evicted, key)
		mu.Unlock()
	})

	cache.Set(context.Background(), "k", []byte("x"), DefaultExpiration)
	require.NoError(t, cache.Delete(context.Background(), "k"))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []blobKey{"k"}, evicted)
}
