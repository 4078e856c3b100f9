package cache_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sandrolain/rowcalc/pkg/cache"
)

func TestCacheGetSet(t *testing.T) {
	c := cache.New[int](10)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %t, want 1, true", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	c := cache.New[int](3)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Set("d", 4) // evicts "a"

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry was not evicted")
	}
	for _, key := range []string{"b", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("entry %q missing after eviction of the oldest", key)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCacheLRUOrdering(t *testing.T) {
	c := cache.New[int](3)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch "a" so "b" becomes the LRU entry.
	c.Get("a")
	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
}

func TestCacheGetOrCompute(t *testing.T) {
	c := cache.New[string](10)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute("k", compute)
		if err != nil {
			t.Fatal(err)
		}
		if v != "value" {
			t.Errorf("GetOrCompute = %q, want %q", v, "value")
		}
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
}

func TestCacheGetOrComputeError(t *testing.T) {
	c := cache.New[string](10)
	boom := errors.New("boom")
	calls := 0

	for i := 0; i < 2; i++ {
		_, err := c.GetOrCompute("k", func() (string, error) {
			calls++
			return "", boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
	}
	// Failures are not cached: the second call must recompute.
	if calls != 2 {
		t.Errorf("compute ran %d times, want 2", calls)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after failed computes, want 0", c.Len())
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := cache.New[int](10)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("invalidated entry still present")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("unrelated entry was invalidated")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	c.Set("c", 3)
	if _, ok := c.Get("c"); !ok {
		t.Error("cache unusable after Clear")
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New[int](0)
	if c.Capacity() != 256 {
		t.Errorf("Capacity() = %d, want 256", c.Capacity())
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := cache.New[int](64)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("key-%d", i%100)
				c.Set(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.Invalidate(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > c.Capacity() {
		t.Errorf("Len() = %d exceeds capacity %d", c.Len(), c.Capacity())
	}
}
