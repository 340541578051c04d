package retrieval

import (
	"docqa-orchestrator/internal/domain"
)

// StageContext carries data between the retrieval stages for one
// (query, document) pair. Stages only append; there are no backward
// transitions.
type StageContext struct {
	// Input
	Query      string
	DocumentID string
	TopK       int

	// Channel outputs
	QueryEmbedding []float32
	VectorHits     []domain.ScoredChunk
	LexicalHits    []domain.ScoredChunk

	// Fusion output
	Fused []domain.ScoredChunk

	// Rerank output, ordered by score descending
	Ranked []domain.ScoredChunk
}
