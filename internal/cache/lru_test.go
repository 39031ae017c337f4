package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	if _, ok := c.Get("2024-03"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("2024-03", "a")
	c.Set("2024-03", "b")
	if v, ok := c.Get("2024-03"); !ok || v != "b" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d", c.Size())
	}

	c.Delete("2024-03")
	if _, ok := c.Get("2024-03"); ok {
		t.Fatal("deleted key still present")
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)

	c.Set("jan", "1")
	c.Set("feb", "2")
	c.Get("jan")
	c.Set("mar", "3")

	if _, ok := c.Get("feb"); ok {
		t.Error("feb should have been evicted")
	}
	for _, k := range []string{"jan", "mar"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s missing", k)
		}
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Set("a", "x")
	c.Set("b", "y")
	clock.Advance(30 * time.Second)
	c.Set("b", "z")
	clock.Advance(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("a should be expired")
	}
	if removed := c.CleanExpired(); removed != 0 {
		t.Errorf("CleanExpired removed %d, want 0", removed)
	}
	clock.Advance(time.Minute)
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired removed %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Errorf("size = %d", c.Size())
	}
}
