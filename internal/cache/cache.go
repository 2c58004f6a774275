// Package cache implements the in-process, memory-bounded key-value
// coordinator: a single dictionary of shape-tagged entries layered with
// TTL expiration, an LRU/LFU usage tracker, and budget-driven eviction.
//
// The concurrency model is cooperative: every public method takes the same
// coarse mutex, matching the single-threaded-core assumption the component
// design is built around — correctness doesn't depend on any finer-grained
// locking, so there isn't any.
package cache

import (
	"sync"
	"time"

	"duskcache/internal/collection"
	"duskcache/internal/ttl"
	"duskcache/internal/usage"
)

type usageQuality = usage.Quality

// defaultLazyExpireFreq is how many operations elapse, by default, between
// the op path triggering a background-style sampling pass inline.
const defaultLazyExpireFreq = 100

// defaultEvictionSampleSize is the base number of keys refillPool samples
// per refill, before doubling for the "sample without replacement" pass
// (see refillPool).
const defaultEvictionSampleSize = 8

// Cache is the coordinator described by the component design: a dictionary
// of entries, a TTL manager, a usage tracker, and the running memory/stat
// counters that tie them together.
type Cache struct {
	mu   sync.Mutex
	dict *dict
	ttl  *ttl.Manager
	usage *usage.Tracker

	memory    int64
	maxMemory int64

	pool               []string
	evictionPolicy     usage.Policy
	evictionSampleSize int

	lazyExpireFreq uint64
	ttlInterval    time.Duration
	ttlMaxRounds   int
	ttlSampleSize  int

	decayInterval time.Duration
	decayAmount   int

	stats counters
	now   func() int64

	started bool
}

// New returns a ready-to-use Cache. Call Start to launch its background
// expiration/decay loops; Shutdown stops them.
func New(opts ...Option) *Cache {
	c := &Cache{
		dict:               newDict(),
		evictionPolicy:      usage.LRU,
		evictionSampleSize: defaultEvictionSampleSize,
		lazyExpireFreq:     defaultLazyExpireFreq,
		now:                func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ttl = ttl.New(c.ttlInterval, c.ttlMaxRounds, c.ttlSampleSize)
	c.usage = usage.New(c.evictionPolicy, c.decayInterval, c.decayAmount)
	return c
}

// Start launches the background active-expiration and (under LFU)
// frequency-decay loops. Safe to call once.
func (c *Cache) Start() {
	c.mu.Lock()
	already := c.started
	c.started = true
	c.mu.Unlock()
	if already {
		return
	}
	c.ttl.StartActive(c.now, func(key string) {
		c.mu.Lock()
		if c.deleteKey(key) {
			c.stats.Expirations++
		}
		c.mu.Unlock()
	})
	c.usage.StartDecay(c.now)
}

// Shutdown halts the background loops, waits for them to exit, and then
// deletes every key still staged in the TTL manager's pending buffer.
func (c *Cache) Shutdown() {
	c.ttl.Stop()
	c.usage.Stop()

	c.mu.Lock()
	c.ttl.FlushPendingDeletes(func(key string) {
		c.deleteKey(key)
	})
	c.mu.Unlock()
}

// beginOp increments the operation counter and, every lazyExpireFreq
// operations, runs an inline active-expiration sampling pass — the lazy
// half of expiration, independent of the ticker-driven background pass.
func (c *Cache) beginOp() {
	c.stats.Operations++
	if c.lazyExpireFreq > 0 && c.stats.Operations%c.lazyExpireFreq == 0 {
		expired := c.ttl.SampleAndPurge(5, c.now(), func(key string) {
			c.deleteKey(key)
		})
		c.stats.Expirations += uint64(expired)
	}
}

// checkExpired deletes key if its TTL has passed, reporting whether it did.
func (c *Cache) checkExpired(key string) bool {
	if c.ttl.IsExpired(key, c.now()) {
		c.deleteKey(key)
		c.stats.Expirations++
		return true
	}
	return false
}

// deleteKey removes key from the dictionary, TTL manager and usage
// tracker, and charges its memory back to the budget. Reports whether the
// key existed.
func (c *Cache) deleteKey(key string) bool {
	e, exists := c.dict.get(key)
	if !exists {
		return false
	}
	c.memory -= int64(e.memoryUsed)
	if c.memory < 0 {
		c.memory = 0
	}
	c.dict.delete(key)
	c.ttl.Delete(key)
	c.usage.Delete(key)
	return true
}

func (c *Cache) addMemory(delta int) {
	c.memory += int64(delta)
	if c.memory < 0 {
		c.memory = 0
	}
}

// --- Scalar ops ---------------------------------------------------------

// Set stores value under key. ttl <= 0 means no expiration.
func (c *Cache) Set(key, value string, ttlMs int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.evictIfNeeded()

	if old, exists := c.dict.get(key); exists {
		c.memory -= int64(old.memoryUsed)
		if c.memory < 0 {
			c.memory = 0
		}
	}

	e := &entry{shape: shapeScalar, scalar: value, memoryUsed: scalarMemory(key, value)}
	c.dict.set(key, e)
	c.addMemory(e.memoryUsed)

	if ttlMs > 0 {
		c.ttl.Set(key, c.now()+ttlMs)
	} else {
		c.ttl.Delete(key)
	}
	return nil
}

// Get returns key's value. Reports ok=false on miss or expiry.
func (c *Cache) Get(key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		c.stats.Misses++
		return "", false, nil
	}
	if e.shape != shapeScalar {
		return "", false, ErrWrongType
	}
	c.usage.Touch(key, c.now())
	c.stats.Hits++
	return e.scalar, true, nil
}

// Del removes key, reporting whether it existed.
func (c *Cache) Del(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)
	return c.deleteKey(key)
}

// Exists reports whether key is present and unexpired.
func (c *Cache) Exists(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)
	_, exists := c.dict.get(key)
	return exists
}

// TTL returns key's remaining time-to-live in seconds, -1 if key exists
// with no expiration, or -2 if key is absent or expired — the same
// three-way convention the teacher's Store.TTL uses.
func (c *Cache) TTL(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	if c.checkExpired(key) {
		return -2
	}
	if _, exists := c.dict.get(key); !exists {
		return -2
	}
	deadline, hasDeadline := c.ttl.Deadline(key)
	if !hasDeadline {
		return -1
	}
	remainingMs := deadline - c.now()
	if remainingMs < 0 {
		remainingMs = 0
	}
	return (remainingMs + 999) / 1000
}

// --- Ordered-collection (zset) ops --------------------------------------

func (c *Cache) getOrCreateOrdered(key string) (*entry, error) {
	e, exists := c.dict.get(key)
	if !exists {
		e = &entry{shape: shapeOrdered, set: collection.NewOrdered(), memoryUsed: collectionBaseMemory(key)}
		c.dict.set(key, e)
		c.addMemory(e.memoryUsed)
		return e, nil
	}
	if e.shape != shapeOrdered {
		return nil, ErrWrongType
	}
	return e, nil
}

// ZAdd adds or updates member's score in the ordered collection at key.
func (c *Cache) ZAdd(key string, score float64, member string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.evictIfNeeded()
	c.checkExpired(key)

	e, err := c.getOrCreateOrdered(key)
	if err != nil {
		return err
	}
	if result := e.set.Add(member, score); result == collection.Added {
		delta := orderedMemberDelta(member)
		e.memoryUsed += delta
		c.addMemory(delta)
	}
	return nil
}

// ZRem removes member from the ordered collection at key. Deletes key
// outright once it becomes empty.
func (c *Cache) ZRem(key, member string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		return false, nil
	}
	if e.shape != shapeOrdered {
		return false, ErrWrongType
	}
	if !e.set.Remove(member) {
		return false, nil
	}
	delta := orderedMemberDelta(member)
	e.memoryUsed -= delta
	c.addMemory(-delta)

	if e.set.Card() == 0 {
		c.deleteKey(key)
	}
	return true, nil
}

// ZScore returns member's score in the ordered collection at key.
func (c *Cache) ZScore(key, member string) (float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		return 0, false, nil
	}
	if e.shape != shapeOrdered {
		return 0, false, ErrWrongType
	}
	score, ok := e.set.Score(member)
	if ok {
		c.usage.Touch(key, c.now())
	}
	return score, ok, nil
}

// ZRank returns member's 0-based rank in the ordered collection at key.
func (c *Cache) ZRank(key, member string) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		return 0, false, nil
	}
	if e.shape != shapeOrdered {
		return 0, false, ErrWrongType
	}
	rank := e.set.Rank(member)
	if rank < 0 {
		return 0, false, nil
	}
	c.usage.Touch(key, c.now())
	return rank, true, nil
}

// ZCard returns the ordered collection's cardinality at key.
func (c *Cache) ZCard(key string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		return 0, nil
	}
	if e.shape != shapeOrdered {
		return 0, ErrWrongType
	}
	c.usage.Touch(key, c.now())
	return e.set.Card(), nil
}

// ZIncrBy adds delta to member's score (creating it at delta if absent)
// and returns the new score.
func (c *Cache) ZIncrBy(key string, delta float64, member string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.evictIfNeeded()
	c.checkExpired(key)

	e, err := c.getOrCreateOrdered(key)
	if err != nil {
		return 0, err
	}
	current, _ := e.set.Score(member)
	newScore := current + delta
	if result := e.set.Add(member, newScore); result == collection.Added {
		d := orderedMemberDelta(member)
		e.memoryUsed += d
		c.addMemory(d)
	}
	return newScore, nil
}

// ZRangeByScore returns members scored within [min, max], ordered
// ascending, capped at limit entries (limit <= 0 means unbounded).
func (c *Cache) ZRangeByScore(key string, min, max float64, limit int) ([]collection.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		return nil, nil
	}
	if e.shape != shapeOrdered {
		return nil, ErrWrongType
	}
	c.usage.Touch(key, c.now())
	return e.set.RangeByScore(min, max, limit), nil
}

// --- MemberSet ops -------------------------------------------------------

func (c *Cache) getOrCreateSet(key string) (*entry, error) {
	e, exists := c.dict.get(key)
	if !exists {
		e = &entry{
			shape:      shapeMemberSet,
			encoding:   encodingCompact,
			compact:    collection.NewCompactIntSet(0),
			memoryUsed: collectionBaseMemory(key),
		}
		c.dict.set(key, e)
		c.addMemory(e.memoryUsed)
		return e, nil
	}
	if e.shape != shapeMemberSet {
		return nil, ErrWrongType
	}
	return e, nil
}

// upgradeSet migrates a compact-form entry to the general form, charging
// the memory delta for every member already present.
func (c *Cache) upgradeSet(e *entry) {
	size := e.compact.Size()
	general := e.compact.UpgradeToGeneral()
	e.general = general
	e.compact = nil
	e.encoding = encodingGeneral

	delta := size * (generalMemberCost - compactMemberCost)
	e.memoryUsed += delta
	c.addMemory(delta)
}

// SAdd adds member to the set at key, reporting whether it was newly added.
func (c *Cache) SAdd(key, member string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.evictIfNeeded()
	c.checkExpired(key)

	e, err := c.getOrCreateSet(key)
	if err != nil {
		return false, err
	}

	if e.encoding == encodingCompact {
		switch e.compact.Add(member) {
		case collection.SetAdded:
			e.memoryUsed += compactMemberCost
			c.addMemory(compactMemberCost)
			return true, nil
		case collection.SetPresent:
			return false, nil
		case collection.SetUpgradeRequired:
			c.upgradeSet(e)
		}
	}

	if e.general.Add(member) {
		e.memoryUsed += generalMemberCost
		c.addMemory(generalMemberCost)
		return true, nil
	}
	return false, nil
}

// SRem removes member from the set at key. Deletes key outright once it
// becomes empty.
func (c *Cache) SRem(key, member string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		return false, nil
	}
	if e.shape != shapeMemberSet {
		return false, ErrWrongType
	}

	var removed bool
	var delta int
	if e.encoding == encodingCompact {
		removed = e.compact.Delete(member)
		delta = compactMemberCost
	} else {
		removed = e.general.Delete(member)
		delta = generalMemberCost
	}
	if !removed {
		return false, nil
	}
	e.memoryUsed -= delta
	c.addMemory(-delta)

	if e.setSize() == 0 {
		c.deleteKey(key)
	}
	return true, nil
}

func (e *entry) setSize() int {
	if e.encoding == encodingCompact {
		return e.compact.Size()
	}
	return e.general.Size()
}

// SMembers returns every member of the set at key, in unspecified order.
func (c *Cache) SMembers(key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		return nil, nil
	}
	if e.shape != shapeMemberSet {
		return nil, ErrWrongType
	}
	c.usage.Touch(key, c.now())
	if e.encoding == encodingCompact {
		return e.compact.Members(), nil
	}
	return e.general.Members(), nil
}

// SCard returns the set's cardinality at key.
func (c *Cache) SCard(key string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		return 0, nil
	}
	if e.shape != shapeMemberSet {
		return 0, ErrWrongType
	}
	c.usage.Touch(key, c.now())
	return e.setSize(), nil
}

// SIsMember reports whether member is in the set at key.
func (c *Cache) SIsMember(key, member string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginOp()
	c.checkExpired(key)

	e, exists := c.dict.get(key)
	if !exists {
		return false, nil
	}
	if e.shape != shapeMemberSet {
		return false, ErrWrongType
	}
	c.usage.Touch(key, c.now())
	if e.encoding == encodingCompact {
		return e.compact.Has(member), nil
	}
	return e.general.Has(member), nil
}

// --- Stats ---------------------------------------------------------------

// GetStats returns a point-in-time snapshot of cache-wide counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hitRate float64
	if total := c.stats.Hits + c.stats.Misses; total > 0 {
		hitRate = float64(c.stats.Hits) / float64(total)
	}
	return Stats{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		Expirations: c.stats.Expirations,
		Operations:  c.stats.Operations,
		KeyCount:    c.dict.len(),
		MemoryUsed:  c.memory,
		HitRate:     hitRate,
	}
}
