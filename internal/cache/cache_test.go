package cache

import (
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](4)

	if _, ok := c.Get("a"); ok {
		t.Error("Expected miss on empty cache")
	}

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Errorf("Expected (1, true), got (%d, %v)", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Expected overwrite to 2, got %d", v)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](3)
	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(3, 3)

	// touch 1 so 2 becomes the oldest
	c.Get(1)
	c.Set(4, 4)

	if _, ok := c.Get(2); ok {
		t.Error("Expected key 2 to be evicted")
	}
	for _, k := range []int{1, 3, 4} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("Expected key %d to survive", k)
		}
	}

	stats := c.Stats()
	if stats.Len != 3 || stats.Capacity != 3 || stats.Evictions != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[int, string](0)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("Expected default capacity %d, got %d", DefaultCapacity, c.Capacity())
	}

	c.Set(1, "one")
	c.Set(2, "two")
	if !c.Delete(1) || c.Delete(1) {
		t.Error("Delete should succeed once")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d", c.Len())
	}

	// the list must still work after clearing
	c.Set(3, "three")
	if v, ok := c.Get(3); !ok || v != "three" {
		t.Error("Expected cache to be usable after Clear")
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New[int, int](2)
	c.Set(1, 1)
	c.Get(1)
	c.Get(1)
	c.Get(2)

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("Expected 2 hits and 1 miss, got %+v", stats)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Errorf("Expected hit rate ~0.667, got %f", stats.HitRate)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int, int](16)
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				k := (i + w) % 40
				if _, ok := c.Get(k); !ok {
					c.Set(k, k)
				}
			}
		}(w)
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Errorf("Cache exceeded capacity: %d", c.Len())
	}
}
