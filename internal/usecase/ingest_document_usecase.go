package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/domain"
)

// IngestDocumentUsecase runs the full ingestion pipeline for one document:
// enrich, clean, embed, index. It returns the number of chunks written.
type IngestDocumentUsecase interface {
	Ingest(ctx context.Context, documentID, filename, sourcePath string) (int, error)
	Delete(ctx context.Context, documentID string) error
}

type ingestDocumentUsecase struct {
	enricher  ChunkEnricher
	encoder   domain.VectorEncoder
	chunkRepo domain.ChunkRepository
	docRepo   domain.DocumentRepository
	txManager domain.TransactionManager
	logger    *slog.Logger
}

// NewIngestDocumentUsecase wires the ingestion pipeline stages.
func NewIngestDocumentUsecase(
	enricher ChunkEnricher,
	encoder domain.VectorEncoder,
	chunkRepo domain.ChunkRepository,
	docRepo domain.DocumentRepository,
	txManager domain.TransactionManager,
	logger *slog.Logger,
) IngestDocumentUsecase {
	return &ingestDocumentUsecase{
		enricher:  enricher,
		encoder:   encoder,
		chunkRepo: chunkRepo,
		docRepo:   docRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Ingest converts, cleans, embeds and indexes one document. The index write
// is all-or-nothing: an embedding or store failure fails the whole call and
// no partial index is reported as complete. There is no automatic retry.
func (u *ingestDocumentUsecase) Ingest(ctx context.Context, documentID, filename, sourcePath string) (int, error) {
	start := time.Now()

	if err := u.ensureCatalogEntry(ctx, documentID, filename, sourcePath); err != nil {
		return 0, err
	}

	chunks := u.enricher.Enrich(ctx, EnrichChunksInput{
		DocumentID: documentID,
		Filename:   filename,
		SourcePath: sourcePath,
	})

	contents := make([]string, len(chunks))
	for i := range chunks {
		chunks[i].Content = domain.CleanText(chunks[i].Content)
		contents[i] = chunks[i].Content
	}

	embeddings, err := u.encoder.Encode(ctx, contents)
	if err != nil {
		return 0, u.failIngest(ctx, documentID, fmt.Errorf("%w: failed to encode chunks: %v", domain.ErrIndexWrite, err))
	}
	if len(embeddings) != len(chunks) {
		return 0, u.failIngest(ctx, documentID, fmt.Errorf("%w: expected %d embeddings, got %d", domain.ErrIndexWrite, len(chunks), len(embeddings)))
	}

	err = u.txManager.RunInTx(ctx, func(ctx context.Context) error {
		// Re-ingesting replaces the document's chunks wholesale; readers
		// never observe a half-written index.
		if err := u.chunkRepo.DeleteByDocument(ctx, documentID); err != nil {
			return fmt.Errorf("failed to clear previous chunks: %w", err)
		}
		if err := u.chunkRepo.BulkInsert(ctx, chunks, embeddings); err != nil {
			return fmt.Errorf("failed to insert chunks: %w", err)
		}
		return u.docRepo.UpdateStatus(ctx, documentID, domain.DocumentStatusIndexed, len(chunks), nil)
	})
	if err != nil {
		return 0, u.failIngest(ctx, documentID, fmt.Errorf("%w: %v", domain.ErrIndexWrite, err))
	}

	u.logger.Info("document_ingested",
		slog.String("document_id", documentID),
		slog.String("filename", filename),
		slog.Int("chunk_count", len(chunks)),
		slog.String("embedder", u.encoder.Version()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return len(chunks), nil
}

// Delete removes a document's chunks and its catalog entry.
func (u *ingestDocumentUsecase) Delete(ctx context.Context, documentID string) error {
	return u.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := u.chunkRepo.DeleteByDocument(ctx, documentID); err != nil {
			return fmt.Errorf("failed to delete chunks: %w", err)
		}
		if err := u.docRepo.Delete(ctx, documentID); err != nil {
			return fmt.Errorf("failed to delete document record: %w", err)
		}
		return nil
	})
}

func (u *ingestDocumentUsecase) ensureCatalogEntry(ctx context.Context, documentID, filename, sourcePath string) error {
	exists, err := u.docRepo.Exists(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to check document record: %w", err)
	}
	if exists {
		return nil
	}
	now := time.Now()
	return u.docRepo.Create(ctx, &domain.DocumentRecord{
		ID:         documentID,
		Filename:   filename,
		SourcePath: sourcePath,
		Status:     domain.DocumentStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (u *ingestDocumentUsecase) failIngest(ctx context.Context, documentID string, ingestErr error) error {
	msg := ingestErr.Error()
	if err := u.docRepo.UpdateStatus(ctx, documentID, domain.DocumentStatusFailed, 0, &msg); err != nil {
		u.logger.Error("failed_to_record_ingest_failure",
			slog.String("document_id", documentID),
			slog.String("error", err.Error()))
	}
	return ingestErr
}
