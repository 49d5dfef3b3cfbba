// Package handlers contains HTTP handlers for the discovery gateway API.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/gateway/registry"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/store"
	"github.com/IM-IMPOWER/OSUKA-foresight/pkg/api"
)

// Pipeline runs a discovery request to completion, reporting progress
// lines through the callback as it goes.
type Pipeline interface {
	Run(ctx context.Context, req api.RunRequest, progress func(string)) (*api.RunResult, error)
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	registry *registry.Registry
	pipeline Pipeline
	// archive is optional. When nil the gateway runs memory-only and
	// history is lost on restart.
	archive store.RunArchive
	logger  *slog.Logger
}

// New creates a new Handlers instance with the given dependencies.
func New(reg *registry.Registry, pipeline Pipeline, archive store.RunArchive, logger *slog.Logger) *Handlers {
	return &Handlers{
		registry: reg,
		pipeline: pipeline,
		archive:  archive,
		logger:   logger,
	}
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}
