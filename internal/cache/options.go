package cache

import (
	"time"

	"duskcache/internal/usage"
)

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithMaxMemory sets the byte budget evictions are driven against. Zero
// means unbounded.
func WithMaxMemory(bytes int64) Option {
	return func(c *Cache) { c.maxMemory = bytes }
}

// WithEvictionPolicy selects LRU or LFU candidate ranking.
func WithEvictionPolicy(policy usage.Policy) Option {
	return func(c *Cache) { c.evictionPolicy = policy }
}

// WithEvictionSampleSize overrides how many keys the eviction pool samples
// from on refill.
func WithEvictionSampleSize(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.evictionSampleSize = n
		}
	}
}

// WithLazyExpireFrequency overrides how many operations elapse between
// background active-expiration sampling passes triggered from the op path.
func WithLazyExpireFrequency(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.lazyExpireFreq = uint64(n)
		}
	}
}

// WithTTLParams overrides the active-expiration loop's cadence, rounds and
// sample size.
func WithTTLParams(interval time.Duration, maxRounds, sampleSize int) Option {
	return func(c *Cache) {
		c.ttlInterval = interval
		c.ttlMaxRounds = maxRounds
		c.ttlSampleSize = sampleSize
	}
}

// WithDecayParams overrides the LFU frequency-decay cadence and amount.
func WithDecayParams(interval time.Duration, amount int) Option {
	return func(c *Cache) {
		c.decayInterval = interval
		c.decayAmount = amount
	}
}

// WithClock overrides the cache's notion of "now", in milliseconds since
// epoch. Tests use this to make expiry and eviction ordering deterministic.
func WithClock(now func() int64) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}
