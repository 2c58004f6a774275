// Package api exposes the cache coordinator over HTTP/JSON: the routes
// described for external callers, plus an internal-only debug surface for
// Prometheus scraping and profiling.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"duskcache/internal/cache"
)

// RouterConfig carries the router's one dependency. Kept as a struct,
// rather than a bare *cache.Cache parameter, so new cross-cutting knobs
// (CORS origins, logging toggle) can be added without breaking callers.
type RouterConfig struct {
	Cache *cache.Cache

	// CORSOrigins overrides the default permissive local-dev origin list.
	CORSOrigins []string

	// DisableLogging turns off the per-request logger middleware, useful
	// in benchmarks and quiet test runs.
	DisableLogging bool
}

// NewRouter builds the HTTP router. It has no side effects — no
// goroutines, no listeners — so it's safe to use directly with
// httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &handlers{cache: cfg.Cache}

	r.Get("/health", h.handleHealth)
	r.Post("/set", h.handleSet)
	r.Get("/get", h.handleGet)
	r.Post("/del", h.handleDel)
	r.Get("/exists", h.handleExists)
	r.Get("/ttl", h.handleTTL)

	r.Post("/zadd", h.handleZAdd)
	r.Post("/zrem", h.handleZRem)
	r.Get("/zscore", h.handleZScore)
	r.Get("/zrank", h.handleZRank)
	r.Get("/zcard", h.handleZCard)
	r.Post("/zincrby", h.handleZIncrBy)
	r.Get("/zrangeByScore", h.handleZRangeByScore)

	r.Post("/sadd", h.handleSAdd)
	r.Post("/srem", h.handleSRem)
	r.Get("/smembers", h.handleSMembers)
	r.Get("/scard", h.handleSCard)
	r.Get("/sismember", h.handleSIsMember)

	r.Get("/stats", h.handleStats)

	return r
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
