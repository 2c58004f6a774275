// Package server holds the cache process's top-level configuration: the
// knobs cmd/cacheserver parses from flags/env and hands to the cache and
// api packages at startup.
package server

import (
	"time"

	"duskcache/internal/usage"
)

// Config collects every tunable the cache coordinator and its HTTP surface
// need at startup.
type Config struct {
	Host string
	Port int

	// DebugAddr is where /metrics and pprof are served. Must stay
	// localhost-only; see api.StartDebugServer.
	DebugAddr string

	// MaxMemoryBytes bounds the cache's tracked memory usage. Zero means
	// unbounded (eviction never triggers).
	MaxMemoryBytes int64

	EvictionPolicy     usage.Policy
	EvictionSampleSize int
	LazyExpireFreq     int

	TTLInterval   time.Duration
	TTLMaxRounds  int
	TTLSampleSize int

	DecayInterval time.Duration
	DecayAmount   int
}

// DefaultConfig returns the cache server's out-of-the-box configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:      "0.0.0.0",
		Port:      7379,
		DebugAddr: "127.0.0.1:6060",

		MaxMemoryBytes: 0,

		EvictionPolicy:     usage.LRU,
		EvictionSampleSize: 8,
		LazyExpireFreq:     100,

		TTLInterval:   200 * time.Millisecond,
		TTLMaxRounds:  2,
		TTLSampleSize: 10,

		DecayInterval: 60 * time.Second,
		DecayAmount:   1,
	}
}
