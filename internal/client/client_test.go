package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IM-IMPOWER/OSUKA-foresight/pkg/api"
)

func TestSubmitRun(t *testing.T) {
	var gotReq api.RunRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/discovery/run" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.RunStartResponse{RunID: "abc123"})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.SubmitRun(context.Background(), api.RunRequest{Category: "shoes", Market: "Global"})
	if err != nil {
		t.Fatalf("SubmitRun failed: %v", err)
	}
	if resp.RunID != "abc123" {
		t.Errorf("run_id = %q, want abc123", resp.RunID)
	}
	if gotReq.Category != "shoes" || gotReq.Market != "Global" {
		t.Errorf("gateway received unexpected request: %+v", gotReq)
	}
}

func TestSubmitRun_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Category is required"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.SubmitRun(context.Background(), api.RunRequest{})
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status code = %d, want 400", apiErr.StatusCode)
	}
}

func TestSubmitRun_MissingRunID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.SubmitRun(context.Background(), api.RunRequest{Category: "shoes"})
	if err == nil {
		t.Fatal("expected an error for a response without run_id")
	}
}

func TestRunStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discovery/run/abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.RunStatusResponse{
			RunID:  "abc123",
			Status: api.RunStateCompleted,
			Logs:   []string{"discovery: queued", "discovery: notes saved"},
			Result: &api.RunResult{NotebookID: "notebook:abc", SourcesAdded: 4},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.RunStatus(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("RunStatus failed: %v", err)
	}
	if resp.Status != api.RunStateCompleted {
		t.Errorf("status = %q, want completed", resp.Status)
	}
	if len(resp.Logs) != 2 {
		t.Errorf("expected 2 log lines, got %d", len(resp.Logs))
	}
	if resp.Result == nil || resp.Result.SourcesAdded != 4 {
		t.Errorf("unexpected result: %+v", resp.Result)
	}
}

func TestRunStatus_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "Run not found"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.RunStatus(context.Background(), "missing")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d, want 404", apiErr.StatusCode)
	}
}

func TestRunStatus_Cancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := New(server.URL)
	_, err := c.RunStatus(ctx, "abc123")
	if err == nil {
		t.Fatal("expected an error after cancellation")
	}
}

func TestListRuns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discovery/runs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.ListRunsResponse{Runs: []api.RunSummary{
			{RunID: "run-2", Category: "bags", Status: api.RunStateFailed, Error: "no products found"},
			{RunID: "run-1", Category: "shoes", Status: api.RunStateCompleted},
		}})
	}))
	defer server.Close()

	c := New(server.URL)
	runs, err := c.ListRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-2" || runs[0].Error != "no products found" {
		t.Errorf("unexpected first run: %+v", runs[0])
	}
}
