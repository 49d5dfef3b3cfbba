package observability

import (
	"context"
	"testing"
	"time"
)

func TestInitTracer_UnreachableEndpoint(t *testing.T) {
	// gRPC connections are lazy, so init should succeed even when the
	// collector is unreachable.
	ctx := context.Background()

	shutdown, err := InitTracer(ctx, "test-service", "invalid-endpoint:9999")
	if err != nil {
		t.Logf("InitTracer failed in this environment: %v", err)
		return
	}

	if shutdown == nil {
		t.Error("expected shutdown function to be non-nil")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	_ = shutdown(shutdownCtx)
}

func TestInitTracer_ValidServiceName(t *testing.T) {
	ctx := context.Background()

	shutdown, err := InitTracer(ctx, "discovery-gateway", "localhost:4317")
	if err != nil {
		t.Logf("InitTracer returned error (may be expected in test environment): %v", err)
		return
	}

	if shutdown == nil {
		t.Error("expected shutdown function to be non-nil")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	_ = shutdown(shutdownCtx)
}
