package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nomzodai/nomzod-api/internal/auth"
	"github.com/nomzodai/nomzod-api/internal/cache"
	"github.com/nomzodai/nomzod-api/internal/config"
	"github.com/nomzodai/nomzod-api/internal/db"
	httpx "github.com/nomzodai/nomzod-api/internal/http"
	"github.com/nomzodai/nomzod-api/internal/observability"
	"github.com/nomzodai/nomzod-api/internal/repo/postgres"
	"github.com/nomzodai/nomzod-api/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.CreateSchema(ctx, pool); err != nil {
		log.Error("schema creation failed", "err", err)
		os.Exit(1)
	}

	prom := observability.NewProm(prometheus.DefaultRegisterer)
	store := postgres.NewStore(pool, prom)

	if err := db.EnsureAdminUser(ctx, store.Users(), cfg, log); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	// redis when configured, in-process otherwise
	var c cache.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL(),
			Prefix:   "nomzod:",
		})
		defer func() { _ = rc.Close() }()

		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unreachable, cache errors will be logged", "addr", cfg.RedisAddr, "err", err)
		}
		c = rc
	} else {
		c = cache.NewMemory(cfg.CacheTTL())
	}

	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		log.Error("storage dir unavailable", "dir", cfg.StorageDir, "err", err)
		os.Exit(1)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Store:  store,
		Cache:  c,
		Tokens: auth.NewManager(cfg.JWTSecret, cfg.AccessTTL()),
		Files:  storage.NewLocal(cfg.StorageDir, cfg.PublicBaseURL),
		Prom:   prom,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(context.Background(), 10*time.Second)

		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
