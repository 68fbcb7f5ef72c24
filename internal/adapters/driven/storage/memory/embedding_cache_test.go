package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCache_PutGet(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache(10, 0)

	require.NoError(t, cache.Put(ctx, "k", []float32{1, 2, 3}))

	vec, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, vec)
}

func TestEmbeddingCache_Miss(t *testing.T) {
	vec, ok, err := NewEmbeddingCache(1, 0).Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, vec)
}

func TestEmbeddingCache_StoresCopies(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache(10, 0)
	input := []float32{1, 2}

	require.NoError(t, cache.Put(ctx, "k", input))
	input[0] = 99

	got, _, _ := cache.Get(ctx, "k")
	got[1] = 99

	again, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, []float32{1, 2}, again)
}

func TestEmbeddingCache_FullCacheDropsNewKeys(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache(2, 0)

	require.NoError(t, cache.Put(ctx, "a", []float32{1}))
	require.NoError(t, cache.Put(ctx, "b", []float32{2}))
	require.NoError(t, cache.Put(ctx, "c", []float32{3}))

	_, okA, _ := cache.Get(ctx, "a")
	_, okB, _ := cache.Get(ctx, "b")
	_, okC, _ := cache.Get(ctx, "c")
	assert.True(t, okA)
	assert.True(t, okB)
	assert.False(t, okC)
	assert.Equal(t, 2, cache.Len())
}

func TestEmbeddingCache_FullCacheStillReplaces(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache(1, 0)

	require.NoError(t, cache.Put(ctx, "a", []float32{1}))
	require.NoError(t, cache.Put(ctx, "a", []float32{2}))

	vec, _, _ := cache.Get(ctx, "a")
	assert.Equal(t, []float32{2}, vec)
	assert.Equal(t, 1, cache.Len())
}

func TestEmbeddingCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache(1, 20*time.Millisecond)
	require.NoError(t, cache.Put(ctx, "a", []float32{1}))

	time.Sleep(60 * time.Millisecond)

	_, ok, _ := cache.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "b", []float32{2}))
	_, ok, _ = cache.Get(ctx, "b")
	assert.True(t, ok, "expired entries free room for new keys")
}

func TestEmbeddingCache_Defaults(t *testing.T) {
	cache := NewEmbeddingCache(0, 0)

	assert.Equal(t, DefaultCacheCapacity, cache.capacity)
	assert.Equal(t, DefaultCacheTTL, cache.ttl)
}

func TestEmbeddingCache_Close(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache(2, 0)
	require.NoError(t, cache.Put(ctx, "a", []float32{1}))

	require.NoError(t, cache.Close())

	assert.Equal(t, 0, cache.Len())
}
