package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DocumentStatus tracks a catalog entry through ingestion.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusIndexed  DocumentStatus = "indexed"
	DocumentStatusFailed   DocumentStatus = "failed"
)

// DocumentRecord is the catalog entry for one ingested source document.
type DocumentRecord struct {
	ID         string
	Filename   string
	SourcePath string
	ChunkCount int
	Status     DocumentStatus
	Error      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IngestJob is one queued ingestion request processed by the worker.
type IngestJob struct {
	ID         uuid.UUID
	DocumentID string
	Filename   string
	SourcePath string
	Status     string // "pending", "running", "completed", "failed"
	Error      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ChunkRepository persists embedded chunks and serves the two retrieval
// channels. All reads and writes are scoped by document ID; the mandatory
// partition key is what keeps retrieval from leaking across documents.
type ChunkRepository interface {
	// BulkInsert writes chunks with their embeddings in one shot.
	// embeddings[i] belongs to chunks[i]; the call is all-or-nothing.
	BulkInsert(ctx context.Context, chunks []Chunk, embeddings [][]float32) error

	// SearchVector returns the top-k chunks of one document by cosine
	// similarity to the query vector, best first.
	SearchVector(ctx context.Context, documentID string, queryVector []float32, k int) ([]ScoredChunk, error)

	// SearchLexical returns the top-k chunks of one document by full-text
	// rank against the raw query. A document with no lexical matches yields
	// an empty slice, not an error.
	SearchLexical(ctx context.Context, documentID string, queryText string, k int) ([]ScoredChunk, error)

	// CountByDocument returns the number of chunks stored for a document.
	CountByDocument(ctx context.Context, documentID string) (int, error)

	// DeleteByDocument removes every chunk of a document.
	DeleteByDocument(ctx context.Context, documentID string) error
}

// DocumentRepository manages the document catalog.
type DocumentRepository interface {
	Create(ctx context.Context, doc *DocumentRecord) error
	GetByID(ctx context.Context, id string) (*DocumentRecord, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status DocumentStatus, chunkCount int, errMsg *string) error
	Delete(ctx context.Context, id string) error
}

// JobRepository manages the ingestion job queue.
type JobRepository interface {
	Enqueue(ctx context.Context, job *IngestJob) error
	// AcquireNext claims the oldest pending job, or returns nil when the
	// queue is empty.
	AcquireNext(ctx context.Context) (*IngestJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error
}

// TransactionManager defines the interface for handling database transactions.
type TransactionManager interface {
	// RunInTx executes the given function within a transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
