package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(capacity int, ttl time.Duration) (*LRUCache[string, string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string, string](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestNewLRUCache_Defaults(t *testing.T) {
	testCases := []struct {
		name      string
		capacity  int
		ttl       time.Duration
		expectCap int
		expectTTL time.Duration
	}{
		{"default values", 0, 0, 1000, 5 * time.Minute},
		{"custom capacity", 50, 0, 50, 5 * time.Minute},
		{"custom TTL", -1, time.Hour, 1000, time.Hour},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewLRUCache[string, int](tc.capacity, tc.ttl)
			assert.Equal(t, tc.expectCap, c.Capacity())
			assert.Equal(t, tc.expectTTL, c.defaultTTL)
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestLRUCache_SetGet(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)

	c.Set("k", "v", 0)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v2", 0)
	v, _ = c.Get("k")
	assert.Equal(t, "v2", v)
	assert.Equal(t, 1, c.Len())
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Set("short", "a", 10*time.Second)
	c.Set("default", "b", 0)

	clock.Advance(11 * time.Second)
	_, ok := c.Get("short")
	assert.False(t, ok, "short entry expired")
	v, ok := c.Get("default")
	require.True(t, ok)
	assert.Equal(t, "b", v)

	clock.Advance(time.Minute)
	_, ok = c.Get("default")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entries are dropped on access")
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1", 0)
	c.Set("b", "2", 0)
	_, _ = c.Get("a") // b is now the oldest
	c.Set("c", "3", 0)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRUCache_Remove(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1", 0)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_PurgeExpired(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", "1", time.Second)
	c.Set("b", "2", time.Second)
	c.Set("c", "3", time.Hour)

	clock.Advance(2 * time.Second)
	assert.Equal(t, 2, c.PurgeExpired())
	assert.Equal(t, 1, c.Len())
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := NewLRUCache[string, int](64, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%100)
				c.Set(key, i, 0)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
}
