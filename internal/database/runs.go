package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nao1215/mailscout/internal/model"
)

// RunSummary contains summary information about a stored run.
// It is used for listing runs without loading the full report.
type RunSummary struct {
	// ID is the run ID.
	ID string

	// Query is the search query of the run.
	Query string

	// Requested is the number of sites asked for.
	Requested int

	// Processed is the number of sites iterated.
	Processed int

	// Skipped is the number of denylisted sites.
	Skipped int

	// SitesWithEmails is the number of sites in the report.
	SitesWithEmails int

	// Emails is the total number of addresses found.
	Emails int

	// StartedAt is when the run started.
	StartedAt time.Time

	// FinishedAt is when the run finished.
	FinishedAt time.Time
}

// SaveRun stores a report. Saving the same run ID again replaces it.
func (s *Store) SaveRun(ctx context.Context, report *model.ScrapeReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	var finished sql.NullString
	if !report.FinishedAt.IsZero() {
		finished = sql.NullString{String: report.FinishedAt.Format(timeFormat), Valid: true}
	}

	query := `
	INSERT INTO runs (id, query, requested, processed, skipped, sites_with_emails, emails, started_at, finished_at, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		processed = excluded.processed,
		skipped = excluded.skipped,
		sites_with_emails = excluded.sites_with_emails,
		emails = excluded.emails,
		finished_at = excluded.finished_at,
		report_json = excluded.report_json
	`

	_, err = s.db.ExecContext(ctx, query,
		report.RunID,
		report.Query,
		report.Requested,
		report.SitesProcessed,
		report.SitesSkipped,
		len(report.Results),
		report.TotalEmails(),
		report.StartedAt.Format(timeFormat),
		finished,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, query, requested, processed, skipped, sites_with_emails, emails, started_at, finished_at
	FROM runs
	ORDER BY started_at DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var run RunSummary
		var started string
		var finished sql.NullString

		if err := rows.Scan(
			&run.ID,
			&run.Query,
			&run.Requested,
			&run.Processed,
			&run.Skipped,
			&run.SitesWithEmails,
			&run.Emails,
			&started,
			&finished,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.StartedAt = parseTimestamp(started)
		if finished.Valid {
			run.FinishedAt = parseTimestamp(finished.String)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun retrieves a stored report by run ID or by a unique ID prefix.
// It returns nil, nil when no run matches.
func (s *Store) GetRun(ctx context.Context, id string) (*model.ScrapeReport, error) {
	if id == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT id, report_json FROM runs
	WHERE id = ? OR substr(id, 1, ?) = ?
	ORDER BY id = ? DESC
	LIMIT 2
	`, id, len(id), id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var (
		matches    int
		exact      bool
		reportJSON string
	)
	for rows.Next() {
		var rowID, body string
		if err := rows.Scan(&rowID, &body); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		matches++
		if matches == 1 {
			reportJSON = body
			exact = rowID == id
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch {
	case matches == 0:
		return nil, nil
	case matches > 1 && !exact:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, id)
	}

	var report model.ScrapeReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}
