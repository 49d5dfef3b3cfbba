// Package store contains the run-history archive layer.
package store

import "time"

// RunRecord is the archived outcome of one discovery run.
type RunRecord struct {
	RunID        string
	Category     string
	Market       string
	Status       string
	Error        *string
	NotebookID   *string
	SourcesAdded int
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// LogEntry is a single archived log line.
type LogEntry struct {
	ID        int64
	RunID     string
	Content   string
	CreatedAt time.Time
}
