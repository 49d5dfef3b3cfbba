// Package tracker owns the client-side lifecycle of a discovery run:
// submission, status polling, and the merged progress log timeline.
//
// A Tracker is a standalone, constructible unit. It is not tied to any UI or
// command lifecycle; presenters subscribe to snapshots and never influence
// the state machine.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/IM-IMPOWER/OSUKA-foresight/pkg/api"
)

// Status is the local lifecycle state of a run.
//
// Transitions are monotonic over idle < submitting < polling < terminal and
// a run reaches at most one terminal state.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusPolling
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusPolling:
		return "polling"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

var (
	// ErrRunActive is returned by Submit and Attach while an earlier run is
	// still submitting or polling.
	ErrRunActive = errors.New("a discovery run is already in progress")

	// ErrCategoryRequired is returned before any transport call when the
	// request has no category.
	ErrCategoryRequired = errors.New("category is required")
)

// Client is the transport capability the tracker polls through. It must be
// stateless and safe for concurrent use.
type Client interface {
	SubmitRun(ctx context.Context, req api.RunRequest) (*api.RunStartResponse, error)
	RunStatus(ctx context.Context, runID string) (*api.RunStatusResponse, error)
}

// Snapshot is an immutable view of the run at one point in time.
type Snapshot struct {
	RunID   string
	Status  Status
	Request api.RunRequest
	Result  *api.RunResult
	Error   string
	Logs    []string
}

// DefaultInterval is the polling cadence used unless overridden.
const DefaultInterval = 2 * time.Second

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock, letting tests drive the poll timer.
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithInterval sets the polling cadence.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) { t.interval = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// Tracker drives one discovery run at a time from submission to a terminal
// state. All exported methods are safe for concurrent use.
type Tracker struct {
	client   Client
	clock    Clock
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	status    Status
	runID     string
	request   api.RunRequest
	result    *api.RunResult
	errMsg    string
	local     []string
	remote    []string
	session   *session
	abandoned bool

	updates chan Snapshot
}

// New creates a tracker around the given transport client.
func New(c Client, opts ...Option) *Tracker {
	t := &Tracker{
		client:   c,
		clock:    SystemClock,
		interval: DefaultInterval,
		logger:   slog.Default(),
		status:   StatusIdle,
		updates:  make(chan Snapshot, 32),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Submit starts a new run. It rejects reentrant calls while an earlier run is
// still submitting or polling, so rapid double submission produces exactly
// one transport call.
//
// The call blocks for the submission round trip. On transport failure the
// run transitions directly to failed and no polling session starts. On
// success the poll session begins immediately; it lives until a terminal
// status, Cancel, or cancellation of ctx.
func (t *Tracker) Submit(ctx context.Context, req api.RunRequest) error {
	if strings.TrimSpace(req.Category) == "" {
		return ErrCategoryRequired
	}

	t.mu.Lock()
	if t.activeLocked() {
		t.mu.Unlock()
		return ErrRunActive
	}
	t.resetLocked(req)
	t.status = StatusSubmitting
	t.local = append(t.local, "discovery: request sent")
	t.publishLocked()
	t.mu.Unlock()

	resp, err := t.client.SubmitRun(ctx, req)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusSubmitting || t.abandoned {
		// The run was discarded while the request was in flight.
		return nil
	}
	if err != nil {
		t.status = StatusFailed
		t.errMsg = fmt.Sprintf("submission failed: %v", err)
		t.publishLocked()
		return err
	}

	t.runID = resp.RunID
	t.status = StatusPolling
	t.local = append(t.local, fmt.Sprintf("discovery: run %s accepted", resp.RunID))
	t.logger.Info("discovery run accepted", "run_id", resp.RunID, "category", req.Category)
	t.startSessionLocked(ctx, resp.RunID)
	t.publishLocked()
	return nil
}

// Attach starts polling a run that was submitted elsewhere. The same
// single-active-run guard applies.
func (t *Tracker) Attach(ctx context.Context, runID string) error {
	if strings.TrimSpace(runID) == "" {
		return errors.New("run id is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.activeLocked() {
		return ErrRunActive
	}
	t.resetLocked(api.RunRequest{})
	t.runID = runID
	t.status = StatusPolling
	t.local = append(t.local, fmt.Sprintf("discovery: attached to run %s", runID))
	t.startSessionLocked(ctx, runID)
	t.publishLocked()
	return nil
}

// Cancel abandons the current run without a terminal transition. The polling
// session stops, any response still in flight is discarded without mutating
// the run, and a subsequent Submit is allowed. Cancel returns after the
// session goroutine has exited.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	s := t.session
	t.session = nil
	if !t.status.Terminal() && t.status != StatusIdle {
		t.abandoned = true
	}
	t.mu.Unlock()

	if s != nil {
		s.stop()
	}
}

// Snapshot returns the current state of the run.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Updates returns the snapshot stream. The channel is buffered and drops the
// oldest snapshot under backpressure; consumers needing the final state
// should read Snapshot after Wait.
func (t *Tracker) Updates() <-chan Snapshot {
	return t.updates
}

// Wait blocks until the active polling session ends, whether by terminal
// status, transport failure, or cancellation. It returns immediately when no
// session is running.
func (t *Tracker) Wait(ctx context.Context) (Snapshot, error) {
	t.mu.Lock()
	s := t.session
	t.mu.Unlock()

	if s == nil {
		return t.Snapshot(), nil
	}
	select {
	case <-ctx.Done():
		return t.Snapshot(), ctx.Err()
	case <-s.done:
		return t.Snapshot(), nil
	}
}

// activeLocked reports whether a run currently holds the tracker.
func (t *Tracker) activeLocked() bool {
	if t.abandoned {
		return false
	}
	return t.status == StatusSubmitting || t.status == StatusPolling
}

// resetLocked discards any previous run and prepares a logically new one.
func (t *Tracker) resetLocked(req api.RunRequest) {
	if t.session != nil {
		t.session.cancel()
		t.session = nil
	}
	t.status = StatusIdle
	t.runID = ""
	t.request = req
	t.result = nil
	t.errMsg = ""
	t.local = nil
	t.remote = nil
	t.abandoned = false
}

// applyRemote maps one status response onto the run. It reports whether the
// calling session should stop. Responses from a replaced or cancelled
// session never mutate the run.
func (t *Tracker) applyRemote(s *session, resp *api.RunStatusResponse) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session != s || t.status.Terminal() {
		return true
	}

	switch resp.Status {
	case api.RunStateCompleted:
		t.remote = append([]string(nil), resp.Logs...)
		t.result = resp.Result
		t.status = StatusCompleted
		t.session = nil
		t.logger.Info("discovery run completed", "run_id", t.runID)
	case api.RunStateFailed:
		t.remote = append([]string(nil), resp.Logs...)
		t.errMsg = resp.Error
		if t.errMsg == "" {
			t.errMsg = "discovery run failed"
		}
		t.status = StatusFailed
		t.session = nil
		t.logger.Info("discovery run failed", "run_id", t.runID, "error", t.errMsg)
	default:
		// "running" and any unrecognized status keep the session alive;
		// unknown values are an in-progress signal, not an error.
		t.remote = append([]string(nil), resp.Logs...)
	}
	t.publishLocked()
	return t.status.Terminal()
}

// detachSession releases the tracker when a session ends without a terminal
// transition, so a later Submit is not blocked by a dead run.
func (t *Tracker) detachSession(s *session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == s {
		t.session = nil
		if !t.status.Terminal() {
			t.abandoned = true
		}
	}
}

// failPolling records a fatal transport error for the session.
func (t *Tracker) failPolling(s *session, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session != s || t.status.Terminal() {
		return
	}
	t.status = StatusFailed
	t.errMsg = msg
	t.session = nil
	t.logger.Warn("discovery polling aborted", "run_id", t.runID, "error", msg)
	t.publishLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		RunID:   t.runID,
		Status:  t.status,
		Request: t.request,
		Result:  t.result,
		Error:   t.errMsg,
		Logs:    MergeLogs(t.local, t.remote),
	}
}

// publishLocked pushes the current snapshot to subscribers, dropping the
// oldest buffered snapshot when the consumer lags.
func (t *Tracker) publishLocked() {
	snap := t.snapshotLocked()
	select {
	case t.updates <- snap:
		return
	default:
	}
	select {
	case <-t.updates:
	default:
	}
	select {
	case t.updates <- snap:
	default:
	}
}
