package domain

import "context"

// RerankCandidate represents a fused chunk handed to the cross-encoder.
type RerankCandidate struct {
	// ID is the chunk identifier, used to map scores back.
	ID string
	// Content is the text scored against the query.
	Content string
}

// RerankResult is one reranked candidate with its cross-encoder score.
type RerankResult struct {
	// ID matches the candidate ID.
	ID string
	// Score is the cross-encoder relevance score, higher is more relevant.
	Score float32
}

// Reranker defines the interface for cross-encoder reranking.
// Rerank returns one result per candidate, sorted by score descending.
// A nil Reranker means reranking is unavailable; candidates pass through
// with a zero score in fusion order.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []RerankCandidate) ([]RerankResult, error)

	// ModelName returns the model identifier for logging.
	ModelName() string
}
