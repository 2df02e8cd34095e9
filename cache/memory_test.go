package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMissAndHit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "books")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "books", []byte("[]"), time.Minute))
	b, ok, err := m.Get(ctx, "books")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(b))

	require.NoError(t, m.Delete(ctx, "books"))
	_, ok, _ = m.Get(ctx, "books")
	assert.False(t, ok)
}

func TestMemorySlidingExpiration(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 200*time.Millisecond))

	// each hit within the window pushes expiry out again
	for i := 0; i < 3; i++ {
		time.Sleep(120 * time.Millisecond)
		_, ok, _ := m.Get(ctx, "k")
		require.True(t, ok, "hit %d", i)
	}

	time.Sleep(300 * time.Millisecond)
	_, ok, _ := m.Get(ctx, "k")
	assert.False(t, ok)
	m.sweep()
	assert.Zero(t, m.Len())
}

func TestMemoryMaxAgeCapsSliding(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(WithMaxAge(400 * time.Millisecond))

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 250*time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	_, ok, _ := m.Get(ctx, "k")
	require.True(t, ok)
	time.Sleep(150 * time.Millisecond)
	_, ok, _ = m.Get(ctx, "k")
	require.True(t, ok)

	// still inside the sliding window, past the cap
	time.Sleep(150 * time.Millisecond)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok, "entry outlived max age")
	assert.Zero(t, m.Len())
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 50*time.Millisecond))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), time.Hour))
	time.Sleep(100 * time.Millisecond)
	m.sweep()

	assert.Equal(t, 1, m.Len())
}

func TestMemoryJanitorDropsExpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(WithJanitor())
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 50*time.Millisecond))
	assert.Eventually(t, func() bool { return m.Len() == 0 }, 2*time.Second, 20*time.Millisecond)
}

func TestMemoryCloseStopsJanitor(t *testing.T) {
	m := NewMemory(WithJanitor())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	// without a janitor Close has nothing to stop
	require.NoError(t, NewMemory().Close())
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.Set(ctx, "k", []byte("v"), time.Minute)
				_, _, _ = m.Get(ctx, "k")
				_ = m.Delete(ctx, "k")
			}
		}()
	}
	wg.Wait()
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type row struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	in := []row{{1, "Dune"}, {2, "Emma"}}
	require.NoError(t, SetJSON(ctx, m, "books", in, time.Minute))

	var out []row
	ok, err := GetJSON(ctx, m, "books", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	require.NoError(t, m.Set(ctx, "books", []byte("{not json"), time.Minute))
	ok, err = GetJSON(ctx, m, "books", &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, m.Len(), "undecodable entry is dropped")
}
