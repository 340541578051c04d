package repository

import (
	"context"
	"fmt"
	"time"

	"docqa-orchestrator/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates the ingestion job queue repository.
func NewJobRepository(pool *pgxpool.Pool) domain.JobRepository {
	return &jobRepository{pool: pool}
}

func (r *jobRepository) Enqueue(ctx context.Context, job *domain.IngestJob) error {
	query := `
		INSERT INTO ingest_jobs (id, document_id, filename, source_path, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.DocumentID,
		job.Filename,
		job.SourcePath,
		job.Status,
		job.Error,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (r *jobRepository) AcquireNext(ctx context.Context) (*domain.IngestJob, error) {
	// Claim atomically so concurrent workers never pick the same job.
	query := `
		WITH next_job AS (
			SELECT id
			FROM ingest_jobs
			WHERE status = 'pending'
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE ingest_jobs
		SET status = 'running', updated_at = $1
		FROM next_job
		WHERE ingest_jobs.id = next_job.id
		RETURNING ingest_jobs.id, ingest_jobs.document_id, ingest_jobs.filename, ingest_jobs.source_path,
		          ingest_jobs.status, ingest_jobs.error_message, ingest_jobs.created_at, ingest_jobs.updated_at
	`

	var job domain.IngestJob
	err := r.pool.QueryRow(ctx, query, time.Now()).Scan(
		&job.ID,
		&job.DocumentID,
		&job.Filename,
		&job.SourcePath,
		&job.Status,
		&job.Error,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to acquire next job: %w", err)
	}

	return &job, nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error {
	query := `
		UPDATE ingest_jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`
	_, err := r.pool.Exec(ctx, query, status, errMsg, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}
