// Package config handles environment variable loading for ports, database strings, etc.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the gateway.
type Config struct {
	// HTTP server port for the gateway
	HTTPPort int

	// Optional database connection string for the run-history archive.
	// When empty, runs live only in memory.
	DatabaseURL string

	// Path to the competitor catalog file
	CompetitorPath string

	// OTLP collector endpoint for traces (e.g., "localhost:4317")
	OTELEndpoint string

	// Submissions per second allowed per client. 0 means unlimited.
	RateLimit float64

	// Burst size for the submission rate limiter
	RateLimitBurst int

	// How long the gateway waits for in-flight runs on shutdown
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	port := 5055 // Default
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		port = p
	}

	competitorPath := os.Getenv("OSUKA_COMPETITOR_PATH")
	if competitorPath == "" {
		competitorPath = "competitor_pages.json"
	}

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "localhost:4317"
	}

	var rateLimit float64
	if rlStr := os.Getenv("OSUKA_RATE_LIMIT"); rlStr != "" {
		rl, err := strconv.ParseFloat(rlStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OSUKA_RATE_LIMIT: %w", err)
		}
		rateLimit = rl
	}

	burst := 5 // Default
	if burstStr := os.Getenv("OSUKA_RATE_LIMIT_BURST"); burstStr != "" {
		b, err := strconv.Atoi(burstStr)
		if err != nil {
			return nil, fmt.Errorf("invalid OSUKA_RATE_LIMIT_BURST: %w", err)
		}
		burst = b
	}

	shutdownTimeout := 30 * time.Second
	if stStr := os.Getenv("OSUKA_SHUTDOWN_TIMEOUT"); stStr != "" {
		st, err := time.ParseDuration(stStr)
		if err != nil {
			return nil, fmt.Errorf("invalid OSUKA_SHUTDOWN_TIMEOUT: %w", err)
		}
		shutdownTimeout = st
	}

	return &Config{
		HTTPPort:        port,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CompetitorPath:  competitorPath,
		OTELEndpoint:    otelEndpoint,
		RateLimit:       rateLimit,
		RateLimitBurst:  burst,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}
