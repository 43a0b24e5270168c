// Package main is the entry point for the route-svc service.
//
// route-svc plans maritime shipping routes between UN/LOCODE ports. Given an
// origin, a destination, vessel constraints, and an optimization criterion it
// produces a ranked set of candidate routes with per-segment distance, transit
// time, fuel burn, and port fee estimates.
//
// # Service Overview
//
// The service provides the following capabilities:
//   - Direct and hub-relayed route planning over a great-circle port graph
//   - Criterion-driven ranking (fastest, most economical, most reliable,
//     environmental, balanced)
//   - Vessel feasibility checks: port accommodation limits, operating range,
//     Suez and Panama canal compatibility
//   - Two-tier route caching (in-process LRU in front of Redis) with
//     single-flight collapse of concurrent identical requests
//   - Port lookup, fuzzy search, and proximity queries backed by PostgreSQL
//
// # Architecture
//
// The planner sits on top of three layers:
//
//	internal/planner      request validation, candidate generation,
//	                      materialization, ranking, caching
//	internal/pathfinding  port graph, Dijkstra / A* search, hub relays
//	internal/costmodel    transit time, fuel, port fees, route scores
//
// Port data comes from internal/portstore: a PostgreSQL store wrapped with
// retry and cache decorators. The full port set is loaded at startup to build
// the in-memory routing graph and refreshed on a timer thereafter.
//
// # Configuration
//
// Configuration is loaded from defaults, an optional config.yaml, and SEAWAY_
// environment variables. See pkg/config for the full tree. Routing knobs live
// under routing.* (edge admissibility, safety margin, detour cap, fuel price,
// worker count).
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"seaway/migrations"
	"seaway/pkg/cache"
	"seaway/pkg/config"
	"seaway/pkg/database"
	"seaway/pkg/logger"
	"seaway/pkg/metrics"
	"seaway/pkg/telemetry"
	"seaway/services/route-svc/internal/planner"
	"seaway/services/route-svc/internal/portstore"
)

func main() {
	// ========================================================================
	// Configuration and logging
	// ========================================================================
	cfg, err := config.LoadWithServiceDefaults("route-svc", 50061)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Telemetry
	// ========================================================================
	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Warn("failed to init telemetry", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("failed to shutdown telemetry", "error", err)
				}
			}()
			logger.Info("telemetry initialized", "endpoint", cfg.Tracing.Endpoint)
		}
	}

	// ========================================================================
	// Metrics
	// ========================================================================
	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.App.Name)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("metrics server started", "port", cfg.Metrics.Port)
	}

	// ========================================================================
	// Shared cache
	// ========================================================================
	var shared *cache.Shared
	if cfg.Cache.Enabled {
		backend, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Warn("cache unavailable, continuing without shared cache", "error", err)
		} else {
			defer backend.Close()
			shared = cache.NewShared(backend)
			logger.Info("shared cache connected", "driver", cfg.Cache.Driver)
		}
	}

	// ========================================================================
	// Database and migrations
	// ========================================================================
	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(
			ctx,
			db.Pool(),
			&cfg.Database,
			migrations.PostgresMigrations,
			"postgres",
		); err != nil {
			logger.Fatal("failed to run migrations", "error", err)
		}
	}

	// ========================================================================
	// Port store and routing graph
	// ========================================================================
	pgStore := portstore.NewPostgresStore(db)
	store := portstore.WithCache(portstore.WithRetry(pgStore), shared)

	ports, err := pgStore.ListPorts(ctx)
	if err != nil {
		logger.Fatal("failed to load port registry", "error", err)
	}
	if len(ports) == 0 {
		logger.Fatal("port registry is empty, run migrations first")
	}

	pl := planner.New(&cfg.Routing, store, shared, ports)
	defer pl.Close()

	// Refresh the graph in the background so new or retired ports show up
	// without a restart.
	go func() {
		ticker := time.NewTicker(cfg.Routing.PortTTL())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fresh, err := pgStore.ListPorts(ctx)
				if err != nil {
					logger.Warn("port registry refresh failed", "error", err)
					continue
				}
				pl.UpdateGraph(fresh)
			}
		}
	}()

	logger.Info("route service started",
		"ports", len(ports),
		"hubs", len(cfg.Routing.HubCodes),
		"environment", cfg.App.Environment,
		"version", cfg.App.Version,
	)

	<-ctx.Done()
	logger.Info("shutting down")
}
