package cache

import (
	"sync"
	"testing"
)

func newTestCache(opts ...Option) *Cache {
	clock := int64(1_000_000)
	base := []Option{WithClock(func() int64 { return clock })}
	return New(append(base, opts...)...)
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache()

	if err := c.Set("a", "b", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found, err := c.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || val != "b" {
		t.Fatalf("expected (b, true), got (%q, %v)", val, found)
	}
}

func TestGetMissCountsStats(t *testing.T) {
	c := newTestCache()

	if _, found, _ := c.Get("nope"); found {
		t.Fatal("expected miss")
	}
	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestDel(t *testing.T) {
	c := newTestCache()
	c.Set("a", "b", 0)

	if !c.Del("a") {
		t.Fatal("expected key to be deleted")
	}
	if c.Del("a") {
		t.Fatal("expected second delete to report absent")
	}
	if _, found, _ := c.Get("a"); found {
		t.Fatal("expected key gone after delete")
	}
}

func TestExpiry(t *testing.T) {
	now := int64(1_000_000)
	c := New(WithClock(func() int64 { return now }))

	c.Set("a", "b", 10)
	now += 20

	if _, found, _ := c.Get("a"); found {
		t.Fatal("expected key to have expired")
	}
	stats := c.GetStats()
	if stats.Expirations != 1 {
		t.Fatalf("expected 1 expiration, got %d", stats.Expirations)
	}
}

func TestWrongType(t *testing.T) {
	c := newTestCache()
	c.Set("a", "scalar", 0)

	if err := c.ZAdd("a", 1, "m"); err != ErrWrongType {
		t.Fatalf("expected ErrWrongType, got %v", err)
	}
	// A failed type check must not have mutated the existing scalar.
	val, found, _ := c.Get("a")
	if !found || val != "scalar" {
		t.Fatalf("expected scalar untouched, got (%q, %v)", val, found)
	}
}

func TestZSetRoundTrip(t *testing.T) {
	c := newTestCache()

	c.ZAdd("leaderboard", 10, "alice")
	c.ZAdd("leaderboard", 20, "bob")
	c.ZAdd("leaderboard", 15, "carol")

	score, ok, err := c.ZScore("leaderboard", "bob")
	if err != nil || !ok || score != 20 {
		t.Fatalf("ZScore: got (%v, %v, %v)", score, ok, err)
	}

	rank, ok, _ := c.ZRank("leaderboard", "alice")
	if !ok || rank != 0 {
		t.Fatalf("expected alice at rank 0, got %d", rank)
	}

	members, err := c.ZRangeByScore("leaderboard", 0, 100, 0)
	if err != nil {
		t.Fatalf("ZRangeByScore: %v", err)
	}
	want := []string{"alice", "carol", "bob"}
	if len(members) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(members))
	}
	for i, m := range members {
		if m.Member != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], m.Member)
		}
	}
}

func TestZRemDeletesEmptyKey(t *testing.T) {
	c := newTestCache()
	c.ZAdd("z", 1, "only")

	removed, err := c.ZRem("z", "only")
	if err != nil || !removed {
		t.Fatalf("ZRem: %v %v", removed, err)
	}
	if c.Exists("z") {
		t.Fatal("expected key to be gone once the zset is empty")
	}
}

func TestZIncrBy(t *testing.T) {
	c := newTestCache()
	c.ZAdd("z", 5, "m")

	score, err := c.ZIncrBy("z", 3, "m")
	if err != nil || score != 8 {
		t.Fatalf("ZIncrBy: got (%v, %v)", score, err)
	}
}

func TestSetOpsAndUpgrade(t *testing.T) {
	c := newTestCache()

	added, err := c.SAdd("s", "1")
	if err != nil || !added {
		t.Fatalf("SAdd: %v %v", added, err)
	}
	added, _ = c.SAdd("s", "1")
	if added {
		t.Fatal("expected duplicate add to report false")
	}

	// A non-integer member forces the compact encoding to upgrade.
	added, err = c.SAdd("s", "not-a-number")
	if err != nil || !added {
		t.Fatalf("SAdd after upgrade: %v %v", added, err)
	}

	isMember, _ := c.SIsMember("s", "1")
	if !isMember {
		t.Fatal("expected 1 to survive the upgrade")
	}
	card, _ := c.SCard("s")
	if card != 2 {
		t.Fatalf("expected cardinality 2, got %d", card)
	}
}

func TestSRemDeletesEmptyKey(t *testing.T) {
	c := newTestCache()
	c.SAdd("s", "only")

	removed, err := c.SRem("s", "only")
	if err != nil || !removed {
		t.Fatalf("SRem: %v %v", removed, err)
	}
	if c.Exists("s") {
		t.Fatal("expected key to be gone once the set is empty")
	}
}

func TestEvictionUnderMemoryPressure(t *testing.T) {
	c := newTestCache(WithMaxMemory(1), WithEvictionSampleSize(8))

	for i := 0; i < 50; i++ {
		c.Set(string(rune('a'+i%26)), "value", 0)
	}

	stats := c.GetStats()
	if stats.Evictions == 0 {
		t.Fatal("expected at least one eviction under a tiny memory budget")
	}
}

func TestHitRate(t *testing.T) {
	c := newTestCache()
	c.Set("a", "1", 0)

	c.Get("a")
	c.Get("missing")

	stats := c.GetStats()
	if stats.HitRate != 0.5 {
		t.Fatalf("expected hit rate 0.5, got %v", stats.HitRate)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := newTestCache()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("key", "v", 0)
			c.Get("key")
			c.ZAdd("z", float64(i), "m")
		}(i)
	}
	wg.Wait()
}
