package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// MockDocumentConverter is a test double for domain.DocumentConverter.
type MockDocumentConverter struct {
	mock.Mock
}

func (m *MockDocumentConverter) Convert(ctx context.Context, sourcePath string) (*domain.ConvertedDocument, error) {
	args := m.Called(ctx, sourcePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConvertedDocument), args.Error(1)
}

// MockVectorEncoder is a test double for domain.VectorEncoder.
type MockVectorEncoder struct {
	mock.Mock
}

func (m *MockVectorEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockVectorEncoder) Version() string {
	return "mock-encoder"
}

// stubEncoder returns one embedding per input text, or a fixed error.
// Used where the expected text count is not known up front.
type stubEncoder struct {
	err error
}

func (s *stubEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{float32(i), 0.5}
	}
	return out, nil
}

func (s *stubEncoder) Version() string {
	return "stub-encoder"
}

// MockChunkRepository is a test double for domain.ChunkRepository.
type MockChunkRepository struct {
	mock.Mock
}

func (m *MockChunkRepository) BulkInsert(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	args := m.Called(ctx, chunks, embeddings)
	return args.Error(0)
}

func (m *MockChunkRepository) SearchVector(ctx context.Context, documentID string, queryVector []float32, k int) ([]domain.ScoredChunk, error) {
	args := m.Called(ctx, documentID, queryVector, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredChunk), args.Error(1)
}

func (m *MockChunkRepository) SearchLexical(ctx context.Context, documentID string, queryText string, k int) ([]domain.ScoredChunk, error) {
	args := m.Called(ctx, documentID, queryText, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredChunk), args.Error(1)
}

func (m *MockChunkRepository) CountByDocument(ctx context.Context, documentID string) (int, error) {
	args := m.Called(ctx, documentID)
	return args.Int(0), args.Error(1)
}

func (m *MockChunkRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

// MockDocumentRepository is a test double for domain.DocumentRepository.
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRecord), args.Error(1)
}

func (m *MockDocumentRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, chunkCount int, errMsg *string) error {
	args := m.Called(ctx, id, status, chunkCount, errMsg)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockJobRepository is a test double for domain.JobRepository.
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Enqueue(ctx context.Context, job *domain.IngestJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) AcquireNext(ctx context.Context) (*domain.IngestJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestJob), args.Error(1)
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

// passthroughTxManager runs the transactional function directly.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockCompletionClient is a test double for domain.CompletionClient.
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, maxTokens)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionClient) Version() string {
	return "mock-completion"
}

// MockAnswerDocumentUsecase is a test double for the per-document pipeline.
type MockAnswerDocumentUsecase struct {
	mock.Mock
}

func (m *MockAnswerDocumentUsecase) Execute(ctx context.Context, input usecase.AnswerDocumentInput) domain.AnswerResult {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.AnswerResult)
}
