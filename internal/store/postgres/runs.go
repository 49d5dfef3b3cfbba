package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/store"
)

// SaveRun inserts the archived outcome of a run.
func (s *Store) SaveRun(ctx context.Context, rec *store.RunRecord) error {
	query := `
		INSERT INTO discovery_runs (run_id, category, market, status, error, notebook_id, sources_added, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.RunID, rec.Category, rec.Market, rec.Status, rec.Error,
		rec.NotebookID, rec.SourcesAdded, rec.CreatedAt, rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// AppendLogs stores the run's merged log timeline.
func (s *Store) AppendLogs(ctx context.Context, runID string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	query := `INSERT INTO discovery_run_logs (run_id, content) VALUES ($1, $2)`
	for _, line := range lines {
		if _, err := s.db.ExecContext(ctx, query, runID, line); err != nil {
			return fmt.Errorf("append log: %w", err)
		}
	}
	return nil
}

// GetRun returns an archived run by its ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*store.RunRecord, error) {
	query := `
		SELECT run_id, category, market, status, error, notebook_id, sources_added, created_at, completed_at
		FROM discovery_runs
		WHERE run_id = $1
	`
	var rec store.RunRecord
	err := s.db.QueryRowContext(ctx, query, runID).Scan(
		&rec.RunID, &rec.Category, &rec.Market, &rec.Status, &rec.Error,
		&rec.NotebookID, &rec.SourcesAdded, &rec.CreatedAt, &rec.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &rec, nil
}

// ListRuns returns the most recent archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunRecord, error) {
	query := `
		SELECT run_id, category, market, status, error, notebook_id, sources_added, created_at, completed_at
		FROM discovery_runs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []store.RunRecord
	for rows.Next() {
		var rec store.RunRecord
		if err := rows.Scan(
			&rec.RunID, &rec.Category, &rec.Market, &rec.Status, &rec.Error,
			&rec.NotebookID, &rec.SourcesAdded, &rec.CreatedAt, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRunLogs returns archived log lines for a run in insertion order.
func (s *Store) GetRunLogs(ctx context.Context, runID string, afterID int64, limit int) ([]store.LogEntry, error) {
	query := `
		SELECT id, run_id, content, created_at
		FROM discovery_run_logs
		WHERE run_id = $1 AND id > $2
		ORDER BY id ASC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, runID, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("get run logs: %w", err)
	}
	defer rows.Close()

	var logs []store.LogEntry
	for rows.Next() {
		var entry store.LogEntry
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Content, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
