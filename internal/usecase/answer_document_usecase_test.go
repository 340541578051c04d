package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func hit(content string, score float32) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{ID: uuid.New(), Content: content, Kind: domain.ChunkKindContent},
		Score: score,
	}
}

func queryEmbedding() [][]float32 {
	return [][]float32{{0.1, 0.2, 0.3}}
}

func TestAnswerDocument_Success(t *testing.T) {
	chunkRepo := new(MockChunkRepository)
	encoder := new(MockVectorEncoder)
	completion := new(MockCompletionClient)

	encoder.On("Encode", mock.Anything, []string{"what is covered?"}).Return(queryEmbedding(), nil)
	chunkRepo.On("SearchVector", mock.Anything, "doc-1", mock.Anything, 3).Return([]domain.ScoredChunk{
		hit("Coverage includes water damage.", 0.8),
	}, nil)
	completion.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Coverage includes water damage.") &&
			strings.Contains(prompt, "Question: what is covered?")
	}), 500).Return("Water damage is covered.", nil)

	uc := usecase.NewAnswerDocumentUsecase(
		chunkRepo, encoder,
		usecase.NewGroundedPromptBuilder(),
		usecase.NewGenerator(completion, 500, time.Second, testLogger()),
		testLogger(),
	)

	result := uc.Execute(context.Background(), usecase.AnswerDocumentInput{
		Query:      "what is covered?",
		DocumentID: "doc-1",
		TopK:       3,
	})

	assert.Equal(t, "doc-1", result.DocumentID)
	assert.Equal(t, "Water damage is covered.", result.Answer)
	require.Len(t, result.Evidence, 1)
	assert.Equal(t, "Coverage includes water damage.", result.Evidence[0].Content)
}

func TestAnswerDocument_EncodeFailureYieldsErrorResult(t *testing.T) {
	chunkRepo := new(MockChunkRepository)
	encoder := new(MockVectorEncoder)
	completion := new(MockCompletionClient)

	encoder.On("Encode", mock.Anything, mock.Anything).Return(nil, errors.New("embedder unreachable"))

	uc := usecase.NewAnswerDocumentUsecase(
		chunkRepo, encoder,
		usecase.NewGroundedPromptBuilder(),
		usecase.NewGenerator(completion, 500, time.Second, testLogger()),
		testLogger(),
	)

	result := uc.Execute(context.Background(), usecase.AnswerDocumentInput{
		Query:      "q",
		DocumentID: "doc-1",
		TopK:       3,
	})

	assert.Equal(t, "doc-1", result.DocumentID)
	assert.True(t, strings.HasPrefix(result.Answer, "Error: "))
	assert.Empty(t, result.Evidence)
	completion.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnswerDocument_VectorSearchFailureYieldsErrorResult(t *testing.T) {
	chunkRepo := new(MockChunkRepository)
	encoder := new(MockVectorEncoder)
	completion := new(MockCompletionClient)

	encoder.On("Encode", mock.Anything, mock.Anything).Return(queryEmbedding(), nil)
	chunkRepo.On("SearchVector", mock.Anything, "doc-1", mock.Anything, 3).
		Return(nil, errors.New("index unavailable"))

	uc := usecase.NewAnswerDocumentUsecase(
		chunkRepo, encoder,
		usecase.NewGroundedPromptBuilder(),
		usecase.NewGenerator(completion, 500, time.Second, testLogger()),
		testLogger(),
	)

	result := uc.Execute(context.Background(), usecase.AnswerDocumentInput{
		Query:      "q",
		DocumentID: "doc-1",
		TopK:       3,
	})

	assert.True(t, strings.HasPrefix(result.Answer, "Error: "))
	assert.Contains(t, result.Answer, "vector search failed")
}

func TestAnswerDocument_LexicalFailureDegradesToVectorOnly(t *testing.T) {
	chunkRepo := new(MockChunkRepository)
	encoder := new(MockVectorEncoder)
	completion := new(MockCompletionClient)

	encoder.On("Encode", mock.Anything, mock.Anything).Return(queryEmbedding(), nil)
	chunkRepo.On("SearchVector", mock.Anything, "doc-1", mock.Anything, 3).Return([]domain.ScoredChunk{
		hit("vector hit", 0.8),
	}, nil)
	chunkRepo.On("SearchLexical", mock.Anything, "doc-1", "q", 3).
		Return(nil, errors.New("no tsvector index"))
	completion.On("Complete", mock.Anything, mock.Anything, mock.Anything, 500).Return("answer", nil)

	uc := usecase.NewAnswerDocumentUsecase(
		chunkRepo, encoder,
		usecase.NewGroundedPromptBuilder(),
		usecase.NewGenerator(completion, 500, time.Second, testLogger()),
		testLogger(),
		usecase.WithLexicalChannel(true),
	)

	result := uc.Execute(context.Background(), usecase.AnswerDocumentInput{
		Query:      "q",
		DocumentID: "doc-1",
		TopK:       3,
	})

	assert.Equal(t, "answer", result.Answer)
	require.Len(t, result.Evidence, 1)
	assert.Equal(t, "vector hit", result.Evidence[0].Content)
}

func TestAnswerDocument_GenerationFailureReturnsErrorAnswerWithEvidence(t *testing.T) {
	chunkRepo := new(MockChunkRepository)
	encoder := new(MockVectorEncoder)
	completion := new(MockCompletionClient)

	encoder.On("Encode", mock.Anything, mock.Anything).Return(queryEmbedding(), nil)
	chunkRepo.On("SearchVector", mock.Anything, "doc-1", mock.Anything, 3).Return([]domain.ScoredChunk{
		hit("evidence survives generation failure", 0.8),
	}, nil)
	completion.On("Complete", mock.Anything, mock.Anything, mock.Anything, 500).
		Return("", errors.New("model timeout"))

	uc := usecase.NewAnswerDocumentUsecase(
		chunkRepo, encoder,
		usecase.NewGroundedPromptBuilder(),
		usecase.NewGenerator(completion, 500, time.Second, testLogger()),
		testLogger(),
	)

	result := uc.Execute(context.Background(), usecase.AnswerDocumentInput{
		Query:      "q",
		DocumentID: "doc-1",
		TopK:       3,
	})

	assert.Equal(t, "Error: model timeout", result.Answer)
	require.Len(t, result.Evidence, 1)
	assert.Equal(t, "evidence survives generation failure", result.Evidence[0].Content)
}

func TestAnswerDocument_NoHitsStillGenerates(t *testing.T) {
	chunkRepo := new(MockChunkRepository)
	encoder := new(MockVectorEncoder)
	completion := new(MockCompletionClient)

	encoder.On("Encode", mock.Anything, mock.Anything).Return(queryEmbedding(), nil)
	chunkRepo.On("SearchVector", mock.Anything, "doc-1", mock.Anything, 3).
		Return([]domain.ScoredChunk{}, nil)
	completion.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, usecase.NoContextPlaceholder)
	}), 500).Return("I don't know based on the provided information", nil)

	uc := usecase.NewAnswerDocumentUsecase(
		chunkRepo, encoder,
		usecase.NewGroundedPromptBuilder(),
		usecase.NewGenerator(completion, 500, time.Second, testLogger()),
		testLogger(),
	)

	result := uc.Execute(context.Background(), usecase.AnswerDocumentInput{
		Query:      "q",
		DocumentID: "doc-1",
		TopK:       3,
	})

	assert.Equal(t, "I don't know based on the provided information", result.Answer)
	assert.Empty(t, result.Evidence)
}
