package repository

import (
	"context"
	"fmt"
	"time"

	"docqa-orchestrator/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type chunkRepository struct {
	pool *pgxpool.Pool
}

// NewChunkRepository creates a pgvector-backed ChunkRepository.
func NewChunkRepository(pool *pgxpool.Pool) domain.ChunkRepository {
	return &chunkRepository{pool: pool}
}

type dbExecutor interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *chunkRepository) getExecutor(ctx context.Context) dbExecutor {
	tx := ExtractTx(ctx)
	if tx != nil {
		return tx
	}
	return r.pool
}

func (r *chunkRepository) BulkInsert(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	now := time.Now()
	rows := make([][]interface{}, len(chunks))
	for i, chunk := range chunks {
		rows[i] = []interface{}{
			chunk.ID,
			chunk.DocumentID,
			chunk.Index,
			chunk.Content,
			chunk.Headings,
			chunk.Pages,
			chunk.FirstPage,
			chunk.OriginFilename,
			string(chunk.Kind),
			chunk.ErrorMessage,
			pgvector.NewVector(embeddings[i]),
			now,
		}
	}

	_, err := r.getExecutor(ctx).CopyFrom(
		ctx,
		pgx.Identifier{"doc_chunks"},
		[]string{"id", "document_id", "chunk_index", "content", "headings", "pages", "first_page", "origin_filename", "kind", "error_message", "embedding", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert chunks: %w", err)
	}

	return nil
}

const chunkColumns = "id, document_id, chunk_index, content, headings, pages, first_page, origin_filename, kind, error_message"

func (r *chunkRepository) SearchVector(ctx context.Context, documentID string, queryVector []float32, k int) ([]domain.ScoredChunk, error) {
	query := fmt.Sprintf(`
		SELECT %s, 1 - (embedding <=> $2) AS score
		FROM doc_chunks
		WHERE document_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`, chunkColumns)

	rows, err := r.getExecutor(ctx).Query(ctx, query, documentID, pgvector.NewVector(queryVector), k)
	if err != nil {
		return nil, fmt.Errorf("failed to run vector search: %w", err)
	}
	defer rows.Close()

	return scanScoredChunks(rows)
}

func (r *chunkRepository) SearchLexical(ctx context.Context, documentID string, queryText string, k int) ([]domain.ScoredChunk, error) {
	query := fmt.Sprintf(`
		SELECT %s, ts_rank(to_tsvector('english', content), plainto_tsquery('english', $2)) AS score
		FROM doc_chunks
		WHERE document_id = $1
		  AND to_tsvector('english', content) @@ plainto_tsquery('english', $2)
		ORDER BY score DESC
		LIMIT $3
	`, chunkColumns)

	rows, err := r.getExecutor(ctx).Query(ctx, query, documentID, queryText, k)
	if err != nil {
		return nil, fmt.Errorf("failed to run lexical search: %w", err)
	}
	defer rows.Close()

	return scanScoredChunks(rows)
}

func (r *chunkRepository) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	err := r.getExecutor(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM doc_chunks WHERE document_id = $1`, documentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

func (r *chunkRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		`DELETE FROM doc_chunks WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

func scanScoredChunks(rows pgx.Rows) ([]domain.ScoredChunk, error) {
	var results []domain.ScoredChunk
	for rows.Next() {
		var sc domain.ScoredChunk
		var kind string
		if err := rows.Scan(
			&sc.ID,
			&sc.DocumentID,
			&sc.Index,
			&sc.Content,
			&sc.Headings,
			&sc.Pages,
			&sc.FirstPage,
			&sc.OriginFilename,
			&kind,
			&sc.ErrorMessage,
			&sc.Score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		sc.Kind = domain.ChunkKind(kind)
		results = append(results, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}
