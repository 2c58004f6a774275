package cache

import "sort"

// evictionPoolCap returns the candidate pool's capacity for the given live
// key count. The tiers widen as the keyspace grows so a fixed sample still
// gives eviction a reasonable pool to rank over.
func evictionPoolCap(keyCount int) int {
	switch {
	case keyCount < 1000:
		return 8
	case keyCount < 10000:
		return 16
	case keyCount < 100000:
		return 32
	default:
		return 64
	}
}

// refillPool samples candidate keys and ranks them worst-first (most
// deserving of eviction at index 0).
func (c *Cache) refillPool() {
	keyCount := c.dict.len()
	if keyCount == 0 {
		return
	}
	sampleCount := 2 * c.evictionSampleSize
	if sampleCount > keyCount {
		sampleCount = keyCount
	}
	candidates := c.dict.randomKeys(sampleCount)
	if len(candidates) == 0 {
		return
	}

	qualities := make([]usageQuality, len(candidates))
	for i, key := range candidates {
		qualities[i] = c.usage.Snapshot(key)
	}
	sort.Slice(qualities, func(i, j int) bool {
		return c.usage.Less(qualities[i], qualities[j])
	})

	poolCap := evictionPoolCap(keyCount)
	if poolCap > len(qualities) {
		poolCap = len(qualities)
	}
	c.pool = c.pool[:0]
	for i := 0; i < poolCap; i++ {
		c.pool = append(c.pool, qualities[i].Key)
	}
}

// evictIfNeeded pops candidates from the eviction pool (refilling as
// needed) and deletes them until memory usage is back under budget or the
// cache runs out of keys to evict.
func (c *Cache) evictIfNeeded() {
	if c.maxMemory <= 0 {
		return
	}
	for c.memory > c.maxMemory {
		if c.dict.len() == 0 {
			return
		}
		if len(c.pool) == 0 {
			c.refillPool()
			if len(c.pool) == 0 {
				return
			}
		}

		victim := c.pool[0]
		c.pool = c.pool[1:]

		// The candidate may have been deleted or expired since it was
		// sampled; only charge an eviction for a key actually removed here.
		if c.deleteKey(victim) {
			c.stats.Evictions++
		}
	}
}
