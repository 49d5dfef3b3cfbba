// Package main is the entry point for the discovery gateway.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/config"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/discovery"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/gateway"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/logger"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/observability"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/store"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/store/postgres"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logger.New()
	ctx := context.Background()

	// The archive is optional. Without DATABASE_URL the gateway keeps
	// run history only in memory.
	var archive store.RunArchive
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer pg.Close()

		if *migrateFlag {
			log.Println("Running database migrations...")
			if err := postgres.Migrate(pg.DB()); err != nil {
				log.Fatalf("Migration failed: %v", err)
			}
			log.Println("Migrations completed successfully")
		}
		archive = pg
	}

	// Tracing
	shutdownTracer, err := observability.InitTracer(ctx, "discovery-gateway", cfg.OTELEndpoint)
	if err != nil {
		log.Fatalf("Failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Printf("Failed to shutdown metrics: %v", err)
		}
	}()

	pipeline := discovery.NewCatalogPipeline(cfg.CompetitorPath, slogger)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := gateway.New(addr, pipeline, slogger, gateway.Options{
		Archive:        archive,
		RateLimit:      cfg.RateLimit,
		RateLimitBurst: cfg.RateLimitBurst,
		MetricsHandler: metricsHandler,
	})

	if err := observability.RegisterActiveRunsGauge(srv.Registry().Active); err != nil {
		log.Printf("Failed to register active runs metric: %v", err)
	}

	go func() {
		log.Printf("Discovery gateway starting on %s", addr)
		if err := srv.Run(ctx); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gateway...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited properly")
}
