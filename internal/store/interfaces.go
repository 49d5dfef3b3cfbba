package store

import "context"

// RunArchive persists terminal runs so history survives gateway restarts.
// The gateway writes a run exactly once, on its terminal transition.
type RunArchive interface {
	// SaveRun inserts the archived outcome of a run.
	SaveRun(ctx context.Context, rec *RunRecord) error

	// AppendLogs stores the run's merged log timeline.
	AppendLogs(ctx context.Context, runID string, lines []string) error

	// GetRun returns an archived run by its ID.
	GetRun(ctx context.Context, runID string) (*RunRecord, error)

	// ListRuns returns the most recent archived runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// GetRunLogs returns archived log lines for a run in insertion order.
	GetRunLogs(ctx context.Context, runID string, afterID int64, limit int) ([]LogEntry, error)

	// Ping reports whether the archive is reachable.
	Ping(ctx context.Context) error
}
