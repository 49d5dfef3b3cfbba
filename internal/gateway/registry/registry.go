// Package registry keeps the in-memory state of discovery runs owned by
// this gateway process. Terminal runs additionally get archived to the
// database, but live runs exist only here.
package registry

import (
	"sync"
	"time"

	"github.com/IM-IMPOWER/OSUKA-foresight/pkg/api"
)

type runEntry struct {
	runID     string
	category  string
	market    string
	status    string
	logs      []string
	result    *api.RunResult
	errMsg    string
	createdAt time.Time
}

// Registry tracks every run submitted to this gateway instance.
type Registry struct {
	mu   sync.RWMutex
	runs map[string]*runEntry
	// order preserves submission order so listings can return newest first.
	order []string
}

// New creates an empty run registry.
func New() *Registry {
	return &Registry{
		runs: make(map[string]*runEntry),
	}
}

// Create registers a new run in the running state.
func (r *Registry) Create(runID string, req api.RunRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[runID] = &runEntry{
		runID:     runID,
		category:  req.Category,
		market:    req.Market,
		status:    api.RunStateRunning,
		logs:      []string{"discovery: queued"},
		createdAt: time.Now().UTC(),
	}
	r.order = append(r.order, runID)
}

// AppendLog adds a progress line to a run's log timeline.
func (r *Registry) AppendLog(runID, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.runs[runID]
	if !ok {
		return
	}
	entry.logs = append(entry.logs, line)
}

// Complete marks a run as completed with its result.
// It has no effect if the run is already terminal.
func (r *Registry) Complete(runID string, result *api.RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.runs[runID]
	if !ok || entry.status != api.RunStateRunning {
		return
	}
	entry.status = api.RunStateCompleted
	entry.result = result
}

// Fail marks a run as failed with an error message.
// It has no effect if the run is already terminal.
func (r *Registry) Fail(runID, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.runs[runID]
	if !ok || entry.status != api.RunStateRunning {
		return
	}
	entry.status = api.RunStateFailed
	entry.errMsg = msg
}

// Status returns the current state of a run, or false if it is unknown.
// The returned logs slice is a copy so callers can't race with appenders.
func (r *Registry) Status(runID string) (*api.RunStatusResponse, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.runs[runID]
	if !ok {
		return nil, false
	}

	logs := make([]string, len(entry.logs))
	copy(logs, entry.logs)

	return &api.RunStatusResponse{
		RunID:  entry.runID,
		Status: entry.status,
		Logs:   logs,
		Result: entry.result,
		Error:  entry.errMsg,
	}, true
}

// Logs returns a copy of a run's log timeline.
func (r *Registry) Logs(runID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.runs[runID]
	if !ok {
		return nil
	}
	logs := make([]string, len(entry.logs))
	copy(logs, entry.logs)
	return logs
}

// List returns up to limit run summaries, newest first.
func (r *Registry) List(limit int) []api.RunSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	capacity := limit
	if capacity < 0 {
		capacity = 0
	}
	if capacity > len(r.order) {
		capacity = len(r.order)
	}
	summaries := make([]api.RunSummary, 0, capacity)
	for i := len(r.order) - 1; i >= 0 && len(summaries) < limit; i-- {
		entry := r.runs[r.order[i]]
		summaries = append(summaries, api.RunSummary{
			RunID:    entry.runID,
			Category: entry.category,
			Market:   entry.market,
			Status:   entry.status,
			Error:    entry.errMsg,
		})
	}
	return summaries
}

// Active returns the number of runs that have not reached a terminal state.
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, entry := range r.runs {
		if entry.status == api.RunStateRunning {
			n++
		}
	}
	return n
}
