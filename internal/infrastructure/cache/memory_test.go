package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("写入后可读", func(t *testing.T) {
		m := NewMemoryBackend(10, time.Hour)
		require.NoError(t, m.SetWithTTL(ctx, "k", []byte("v"), time.Minute))
		v, ok, err := m.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v"), v)
	})

	t.Run("不存在", func(t *testing.T) {
		m := NewMemoryBackend(10, time.Hour)
		_, ok, err := m.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("按条目TTL过期", func(t *testing.T) {
		m := NewMemoryBackend(10, time.Hour)
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		m.now = func() time.Time { return now }
		require.NoError(t, m.SetWithTTL(ctx, "k", []byte("v"), time.Minute))

		now = now.Add(59 * time.Second)
		_, ok, _ := m.Get(ctx, "k")
		assert.True(t, ok)

		now = now.Add(time.Second)
		_, ok, _ = m.Get(ctx, "k")
		assert.False(t, ok)
		assert.Equal(t, 0, m.lru.Len())
	})

	t.Run("超出容量淘汰最旧条目", func(t *testing.T) {
		m := NewMemoryBackend(2, time.Hour)
		_ = m.SetWithTTL(ctx, "a", []byte("1"), 0)
		_ = m.SetWithTTL(ctx, "b", []byte("2"), 0)
		_ = m.SetWithTTL(ctx, "c", []byte("3"), 0)
		_, ok, _ := m.Get(ctx, "a")
		assert.False(t, ok)
		assert.Equal(t, 2, m.lru.Len())
	})

	t.Run("作为读穿缓存后端", func(t *testing.T) {
		c := New(NewMemoryBackend(10, time.Hour), WithLogger(quietLogger()))
		load, calls := countingLoader([]row{{ID: 9}}, nil)
		for i := 0; i < 3; i++ {
			got, err := GetOrLoad(ctx, c, testKey, time.Minute, load)
			require.NoError(t, err)
			assert.Equal(t, []row{{ID: 9}}, got)
		}
		assert.Equal(t, 1, *calls)
	})
}
