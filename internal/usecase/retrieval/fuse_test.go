package retrieval_test

import (
	"io"
	"log/slog"
	"testing"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func scoredChunk(id uuid.UUID, content string) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{
			ID:      id,
			Content: content,
			Kind:    domain.ChunkKindContent,
		},
	}
}

func TestFuse_DeduplicatesAcrossChannels(t *testing.T) {
	idA, idB, idC, idD := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	sc := &retrieval.StageContext{
		DocumentID: "doc-1",
		VectorHits: []domain.ScoredChunk{
			scoredChunk(idA, "A"),
			scoredChunk(idB, "B"),
			scoredChunk(idC, "C"),
		},
		LexicalHits: []domain.ScoredChunk{
			scoredChunk(idB, "B"),
			scoredChunk(idD, "D"),
		},
	}

	retrieval.Fuse(sc, testLogger())

	require.Len(t, sc.Fused, 4)
	assert.Equal(t, []uuid.UUID{idA, idB, idC, idD}, fusedIDs(sc))
}

func TestFuse_FirstOccurrenceWins(t *testing.T) {
	dup := uuid.New()
	vectorVariant := scoredChunk(dup, "vector variant")
	vectorVariant.Score = 0.9
	lexicalVariant := scoredChunk(dup, "lexical variant")
	lexicalVariant.Score = 0.1

	sc := &retrieval.StageContext{
		VectorHits:  []domain.ScoredChunk{vectorVariant},
		LexicalHits: []domain.ScoredChunk{lexicalVariant},
	}

	retrieval.Fuse(sc, testLogger())

	require.Len(t, sc.Fused, 1)
	assert.Equal(t, "vector variant", sc.Fused[0].Content)
	assert.Equal(t, float32(0.9), sc.Fused[0].Score)
}

func TestFuse_VectorChannelPrecedesLexical(t *testing.T) {
	idV, idL := uuid.New(), uuid.New()

	sc := &retrieval.StageContext{
		VectorHits:  []domain.ScoredChunk{scoredChunk(idV, "vector")},
		LexicalHits: []domain.ScoredChunk{scoredChunk(idL, "lexical")},
	}

	retrieval.Fuse(sc, testLogger())

	require.Len(t, sc.Fused, 2)
	assert.Equal(t, idV, sc.Fused[0].ID)
	assert.Equal(t, idL, sc.Fused[1].ID)
}

func TestFuse_BothChannelsEmpty(t *testing.T) {
	sc := &retrieval.StageContext{}

	retrieval.Fuse(sc, testLogger())

	assert.Empty(t, sc.Fused)
	assert.NotNil(t, sc.Fused)
}

func fusedIDs(sc *retrieval.StageContext) []uuid.UUID {
	ids := make([]uuid.UUID, len(sc.Fused))
	for i, hit := range sc.Fused {
		ids[i] = hit.ID
	}
	return ids
}
