package repository

import (
	"context"
	"fmt"
	"time"

	"docqa-orchestrator/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates the catalog repository.
func NewDocumentRepository(pool *pgxpool.Pool) domain.DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) getExecutor(ctx context.Context) dbExecutor {
	tx := ExtractTx(ctx)
	if tx != nil {
		return tx
	}
	return r.pool
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	query := `
		INSERT INTO documents (id, filename, source_path, chunk_count, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.getExecutor(ctx).Exec(ctx, query,
		doc.ID,
		doc.Filename,
		doc.SourcePath,
		doc.ChunkCount,
		string(doc.Status),
		doc.Error,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document record: %w", err)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	query := `
		SELECT id, filename, source_path, chunk_count, status, error_message, created_at, updated_at
		FROM documents
		WHERE id = $1
	`
	var doc domain.DocumentRecord
	var status string
	err := r.getExecutor(ctx).QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.SourcePath,
		&doc.ChunkCount,
		&status,
		&doc.Error,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document record: %w", err)
	}
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func (r *documentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.getExecutor(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM documents WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check document existence: %w", err)
	}
	return exists, nil
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, chunkCount int, errMsg *string) error {
	query := `
		UPDATE documents
		SET status = $1, chunk_count = $2, error_message = $3, updated_at = $4
		WHERE id = $5
	`
	_, err := r.getExecutor(ctx).Exec(ctx, query, string(status), chunkCount, errMsg, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.getExecutor(ctx).Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}
	return nil
}
