package cache

// Stats is a point-in-time snapshot of cache-wide counters, returned by
// GetStats.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	Operations  uint64
	KeyCount    int
	MemoryUsed  int64
	HitRate     float64
}

// counters holds the running totals; Stats is derived from it plus
// point-in-time dictionary/memory state.
type counters struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	Operations  uint64
}
