package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prathibha999-pd/realvalueAI/internal/audit"
	"github.com/prathibha999-pd/realvalueAI/internal/env"
	"github.com/prathibha999-pd/realvalueAI/internal/events"
	"github.com/prathibha999-pd/realvalueAI/internal/history"
	"github.com/prathibha999-pd/realvalueAI/internal/marketcache"
	"github.com/prathibha999-pd/realvalueAI/internal/redisx"
	"github.com/prathibha999-pd/realvalueAI/internal/session"
	"github.com/prathibha999-pd/realvalueAI/internal/store"
	"github.com/prathibha999-pd/realvalueAI/valuation"
)

func main() {
	_ = godotenv.Load()

	port := env.GetInt("PORT", 4005)
	backendURL := env.Get("VALUATION_API_URL", "http://localhost:8000")
	sessionTTL := env.GetDuration("SESSION_TTL", 30*time.Minute)

	client := valuation.NewClient(backendURL)
	var backend session.Backend = client

	// Optional market-insights cache.
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redisx.New(addr, os.Getenv("REDIS_PASSWORD"), env.GetInt("REDIS_DB", 0))
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx); err != nil {
			log.Printf("[WARN] redis unreachable, market cache disabled: %v", err)
		} else {
			backend = marketcache.New(backend, rdb, env.GetDuration("MARKET_CACHE_TTL", 5*time.Minute))
			log.Printf("[INFO] market-insights cache enabled via %s", addr)
		}
		cancel()
	}

	// Optional prediction history persistence.
	var st *store.Store
	var recorder *history.Recorder
	if dsn := os.Getenv("PG_DSN"); dsn != "" {
		var err error
		st, err = store.Open(dsn)
		if err != nil {
			log.Fatalf("store open error: %v", err)
		}
		defer st.DB.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.Ping(ctx); err != nil {
			cancel()
			log.Fatalf("postgres ping error: %v", err)
		}
		if err := st.Migrate(ctx); err != nil {
			cancel()
			log.Fatalf("postgres migrate error: %v", err)
		}
		cancel()

		pub := events.NewInMemory(256)
		recorder = history.New(st, pub, env.GetInt("HISTORY_QUEUE", 256), env.GetInt("HISTORY_WORKERS", 2))
		trail := &audit.Trail{Pub: pub}
		go trail.Run(context.Background())
		log.Printf("[INFO] prediction history persistence enabled")
	}

	manager := session.NewManager(backend, recorder, sessionTTL)
	defer manager.Close()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: BuildRouter(manager, client, st),
	}

	go func() {
		log.Printf("realvalue gateway listening on :%d (backend %s)", port, backendURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[WARN] shutdown error: %v", err)
	}
}
