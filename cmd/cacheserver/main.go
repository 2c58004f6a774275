// Command cacheserver runs the in-process cache behind an HTTP/JSON
// surface.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"duskcache/internal/api"
	"duskcache/internal/cache"
	"duskcache/internal/server"
	"duskcache/internal/usage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := server.DefaultConfig()

	host := flag.String("host", cfg.Host, "Host to bind to")
	port := flag.Int("port", cfg.Port, "Port to listen on")
	debugAddr := flag.String("debug-addr", cfg.DebugAddr, "Address for the metrics/pprof debug server (must stay localhost)")
	maxMemory := flag.Int64("max-memory", cfg.MaxMemoryBytes, "Maximum tracked memory in bytes (0 = unbounded)")
	evictionPolicy := flag.String("eviction-policy", "lru", "Eviction candidate ranking: lru or lfu")
	flag.Parse()

	if envPort := os.Getenv("CACHE_PORT"); envPort != "" {
		if parsed, err := strconv.Atoi(envPort); err == nil {
			*port = parsed
		} else {
			log.Printf("ignoring invalid CACHE_PORT=%q: %v", envPort, err)
		}
	}

	policy := cfg.EvictionPolicy
	switch *evictionPolicy {
	case "lru":
		policy = usage.LRU
	case "lfu":
		policy = usage.LFU
	default:
		log.Fatalf("unknown eviction policy %q (want lru or lfu)", *evictionPolicy)
	}

	c := cache.New(
		cache.WithMaxMemory(*maxMemory),
		cache.WithEvictionPolicy(policy),
		cache.WithEvictionSampleSize(cfg.EvictionSampleSize),
		cache.WithLazyExpireFrequency(cfg.LazyExpireFreq),
		cache.WithTTLParams(cfg.TTLInterval, cfg.TTLMaxRounds, cfg.TTLSampleSize),
		cache.WithDecayParams(cfg.DecayInterval, cfg.DecayAmount),
	)

	api.StartDebugServer(*debugAddr, c)

	srv := api.NewServer(c)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down cache server...")
		srv.Stop()
		os.Exit(0)
	}()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	log.Printf("starting cache server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
