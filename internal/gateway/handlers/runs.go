package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/logger"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/store"
	"github.com/IM-IMPOWER/OSUKA-foresight/pkg/api"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// SubmitRun handles POST /discovery/run.
// It registers the run, kicks off the pipeline in the background and
// returns the run ID immediately. Callers poll for status.
func (h *Handlers) SubmitRun(w http.ResponseWriter, r *http.Request) {
	var req api.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Category == "" {
		h.httpError(w, "Category is required", http.StatusBadRequest)
		return
	}

	runID := strings.ReplaceAll(uuid.New().String(), "-", "")
	h.registry.Create(runID, req)

	go h.execute(runID, req)

	h.respondJson(w, http.StatusOK, api.RunStartResponse{RunID: runID})
}

// execute drives a single run to its terminal state. It runs detached
// from the submitting request so the HTTP response doesn't wait on the
// pipeline.
func (h *Handlers) execute(runID string, req api.RunRequest) {
	ctx := logger.WithRunID(context.Background(), runID)
	log := logger.FromContext(ctx, h.logger)

	tracer := otel.Tracer("discovery-gateway")
	spanCtx, span := tracer.Start(ctx, "discovery_run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.category", req.Category),
			attribute.String("run.market", req.Market),
		),
	)
	defer span.End()

	start := time.Now().UTC()
	log.Info("run started", "category", req.Category)

	result, err := h.pipeline.Run(spanCtx, req, func(line string) {
		h.registry.AppendLog(runID, line)
	})
	if err != nil {
		span.RecordError(err)
		log.Error("run failed", "error", err)
		h.registry.Fail(runID, err.Error())
		h.archiveRun(ctx, runID, req, nil, err.Error(), start)
		return
	}

	log.Info("run completed", "sources_added", result.SourcesAdded)
	h.registry.Complete(runID, result)
	h.archiveRun(ctx, runID, req, result, "", start)
}

// archiveRun persists a terminal run. A write failure is logged but
// never surfaced to the run itself, history is best effort.
func (h *Handlers) archiveRun(ctx context.Context, runID string, req api.RunRequest, result *api.RunResult, errMsg string, start time.Time) {
	if h.archive == nil {
		return
	}

	rec := &store.RunRecord{
		RunID:     runID,
		Category:  req.Category,
		Market:    req.Market,
		CreatedAt: start,
	}
	now := time.Now().UTC()
	rec.CompletedAt = &now

	if errMsg != "" {
		rec.Status = api.RunStateFailed
		rec.Error = &errMsg
	} else {
		rec.Status = api.RunStateCompleted
		rec.SourcesAdded = result.SourcesAdded
		if result.NotebookID != "" {
			notebookID := result.NotebookID
			rec.NotebookID = &notebookID
		}
	}

	log := logger.FromContext(ctx, h.logger)
	if err := h.archive.SaveRun(ctx, rec); err != nil {
		log.Error("failed to archive run", "error", err)
		return
	}
	if err := h.archive.AppendLogs(ctx, runID, h.registry.Logs(runID)); err != nil {
		log.Error("failed to archive run logs", "error", err)
	}
}

// RunStatus handles GET /discovery/run/{run_id}.
// Live runs are served from memory. Runs that predate this process are
// looked up in the archive before reporting not found.
func (h *Handlers) RunStatus(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("run_id")

	if resp, ok := h.registry.Status(runID); ok {
		h.respondJson(w, http.StatusOK, resp)
		return
	}

	if h.archive != nil {
		resp, err := h.archivedStatus(r.Context(), runID)
		if err != nil {
			h.httpError(w, "Internal database error", http.StatusInternalServerError)
			return
		}
		if resp != nil {
			h.respondJson(w, http.StatusOK, resp)
			return
		}
	}

	h.httpError(w, "Run not found", http.StatusNotFound)
}

func (h *Handlers) archivedStatus(ctx context.Context, runID string) (*api.RunStatusResponse, error) {
	rec, err := h.archive.GetRun(ctx, runID)
	if err != nil || rec == nil {
		return nil, err
	}

	entries, err := h.archive.GetRunLogs(ctx, runID, 0, 1000)
	if err != nil {
		return nil, err
	}
	logs := make([]string, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, e.Content)
	}

	resp := &api.RunStatusResponse{
		RunID:  rec.RunID,
		Status: rec.Status,
		Logs:   logs,
	}
	if rec.Error != nil {
		resp.Error = *rec.Error
	}
	return resp, nil
}

// ListRuns handles GET /discovery/runs.
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.httpError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	summaries := h.registry.List(limit)

	// Backfill from the archive for runs this process never saw.
	if h.archive != nil && len(summaries) < limit {
		seen := make(map[string]bool, len(summaries))
		for _, s := range summaries {
			seen[s.RunID] = true
		}

		records, err := h.archive.ListRuns(r.Context(), limit)
		if err != nil {
			h.httpError(w, "Internal database error", http.StatusInternalServerError)
			return
		}
		for _, rec := range records {
			if len(summaries) >= limit || seen[rec.RunID] {
				continue
			}
			summary := api.RunSummary{
				RunID:    rec.RunID,
				Category: rec.Category,
				Market:   rec.Market,
				Status:   rec.Status,
			}
			if rec.Error != nil {
				summary.Error = *rec.Error
			}
			summaries = append(summaries, summary)
		}
	}

	h.respondJson(w, http.StatusOK, api.ListRunsResponse{Runs: summaries})
}
