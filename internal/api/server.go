package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"duskcache/internal/cache"
)

// Server wraps the HTTP router and the cache coordinator it fronts.
type Server struct {
	cache  *cache.Cache
	router *chi.Mux
}

// NewServer builds a Server with default routing configuration.
//
// Background workers (the cache's TTL/decay loops) do NOT start here —
// call Start to launch those, same as the router's construction has no
// side effects of its own.
func NewServer(c *cache.Cache) *Server {
	return &Server{
		cache:  c,
		router: NewRouter(RouterConfig{Cache: c}),
	}
}

// Router returns the HTTP handler, for use with httptest.NewServer.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start launches the cache's background workers and blocks serving HTTP
// on addr. Call this exactly once.
func (s *Server) Start(addr string) error {
	s.cache.Start()
	log.Printf("cache server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Stop halts the cache's background workers.
func (s *Server) Stop() {
	s.cache.Shutdown()
}
