package tracker

import (
	"context"
	"fmt"
)

// session owns the cancellation token and timer for one run's polling
// lifetime. It is keyed to a single run ID: replacing the run always goes
// through Cancel or a terminal transition first, so polls for different IDs
// never interleave under one session.
type session struct {
	runID  string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// startSessionLocked spawns the polling goroutine for runID. The session
// context derives from the caller's, so tearing down the owning context
// cancels polling the same way an explicit Cancel does.
func (t *Tracker) startSessionLocked(ctx context.Context, runID string) *session {
	sctx, cancel := context.WithCancel(ctx)
	s := &session{
		runID:  runID,
		ctx:    sctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	t.session = s
	go t.poll(s)
	return s
}

// stop cancels the session and waits for its goroutine to exit.
func (s *session) stop() {
	s.cancel()
	<-s.done
}

// poll drives the run state machine: an immediate first status check, then
// one check per interval until a terminal status, a transport error, or
// cancellation. Exactly one request is in flight at a time; the next tick is
// scheduled only after the previous response is applied, so out-of-order
// application cannot occur within a session.
func (t *Tracker) poll(s *session) {
	defer close(s.done)
	defer s.cancel()
	defer t.detachSession(s)

	for {
		if s.ctx.Err() != nil {
			return
		}

		resp, err := t.client.RunStatus(s.ctx, s.runID)
		if s.ctx.Err() != nil {
			// The owner tore the run down while the request was in
			// flight; the late response must not mutate the run.
			return
		}
		if err != nil {
			// A single transport error ends the session; there is no retry.
			t.failPolling(s, fmt.Sprintf("status check failed: %v", err))
			return
		}
		if t.applyRemote(s, resp) {
			return
		}

		select {
		case <-s.ctx.Done():
			return
		case <-t.clock.After(t.interval):
		}
	}
}
