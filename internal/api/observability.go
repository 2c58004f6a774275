package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"duskcache/internal/cache"
)

// Metrics mirror cache.Stats' hit, miss, eviction and expiration totals,
// key count and memory use as Prometheus gauges/counters (Operations and
// HitRate are not exported), with no per-key labels so cardinality stays
// bounded regardless of keyspace size.
var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total successful key lookups",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total failed key lookups",
	})
	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_evictions_total",
		Help: "Total keys evicted under memory pressure",
	})
	cacheExpirations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_expirations_total",
		Help: "Total keys removed by TTL expiration",
	})
	cacheKeyCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cache_key_count",
		Help: "Current number of live keys",
	})
	cacheMemoryUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cache_memory_used_bytes",
		Help: "Current tracked memory usage",
	})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// lastCounters lets sampleMetrics turn cache.Stats' running totals into
// Prometheus counter increments, since a Prometheus Counter only exposes
// Add/Inc, not Set.
var lastCounters struct {
	hits, misses, evictions, expirations uint64
}

// sampleMetrics publishes the coordinator's current stats snapshot. Called
// once a second by the sampler goroutine that StartDebugServer launches.
func sampleMetrics(c *cache.Cache) {
	s := c.GetStats()

	if d := s.Hits - lastCounters.hits; d > 0 {
		cacheHits.Add(float64(d))
	}
	if d := s.Misses - lastCounters.misses; d > 0 {
		cacheMisses.Add(float64(d))
	}
	if d := s.Evictions - lastCounters.evictions; d > 0 {
		cacheEvictions.Add(float64(d))
	}
	if d := s.Expirations - lastCounters.expirations; d > 0 {
		cacheExpirations.Add(float64(d))
	}
	lastCounters.hits, lastCounters.misses = s.Hits, s.Misses
	lastCounters.evictions, lastCounters.expirations = s.Evictions, s.Expirations

	cacheKeyCount.Set(float64(s.KeyCount))
	cacheMemoryUsed.Set(float64(s.MemoryUsed))
}

// RecordRequest records one HTTP request's latency for the metrics
// middleware.
func RecordRequest(method, path string, d time.Duration) {
	requestLatency.WithLabelValues(method, path).Observe(d.Seconds())
}

// StartDebugServer launches the internal observability server: Prometheus
// metrics, pprof, and a periodic stats sampler. Must stay on localhost —
// it is never meant to be reachable from outside the host.
func StartDebugServer(addr string, c *cache.Cache) {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			sampleMetrics(c)
		}
	}()

	go func() {
		log.Printf("debug server listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("debug server error: %v", err)
		}
	}()
}
