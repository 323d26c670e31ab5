package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// JobRepo tracks ingestion runs in ingestion_jobs.
type JobRepo struct{}

func NewJobRepo() *JobRepo {
	return &JobRepo{}
}

// Start creates a running job row and returns its id.
func (r *JobRepo) Start(ctx context.Context, pagesTotal int) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	id := uuid.NewString()
	_, err := pool.Exec(ctx, `
		INSERT INTO ingestion_jobs (id, status, pages_total)
		VALUES ($1, $2, $3)`, id, JobRunning, pagesTotal)
	if err != nil {
		return "", fmt.Errorf("start job: %w", err)
	}
	return id, nil
}

// Progress updates the running counters for a job.
func (r *JobRepo) Progress(ctx context.Context, id string, done, skipped, failed int) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	_, err := pool.Exec(ctx, `
		UPDATE ingestion_jobs
		SET pages_done = $2, pages_skipped = $3, pages_failed = $4
		WHERE id = $1`, id, done, skipped, failed)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	return nil
}

// Finish marks a job finished or failed with an optional detail message.
func (r *JobRepo) Finish(ctx context.Context, id, status string, detail *string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	_, err := pool.Exec(ctx, `
		UPDATE ingestion_jobs
		SET status = $2, detail = $3, finished_at = $4
		WHERE id = $1`, id, status, detail, time.Now())
	if err != nil {
		return fmt.Errorf("finish job %s: %w", id, err)
	}
	return nil
}

// Latest returns the most recently started job, or nil when none exist.
func (r *JobRepo) Latest(ctx context.Context) (*Job, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var j Job
	err := pool.QueryRow(ctx, `
		SELECT id, status, pages_total, pages_done, pages_skipped, pages_failed, detail, started_at, finished_at
		FROM ingestion_jobs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&j.ID, &j.Status, &j.PagesTotal, &j.PagesDone, &j.PagesSkipped, &j.PagesFailed,
		&j.Detail, &j.StartedAt, &j.FinishedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest job: %w", err)
	}
	return &j, nil
}
