package domain

// TopK bounds for a query. Values outside the range are rejected, a zero
// value takes the default.
const (
	MinTopK     = 1
	MaxTopK     = 10
	DefaultTopK = 3
)

// Query is one natural-language question against a set of ingested documents.
type Query struct {
	Text        string
	DocumentIDs []string
	TopK        int
}

// AnswerResult is the outcome of running the query pipeline against a single
// document. A failed document still produces a well-formed result with an
// error-prefixed answer and no evidence.
type AnswerResult struct {
	DocumentID string
	Answer     string
	Evidence   []ScoredChunk
}

// AggregatedResponse is the externally visible result of a query: one answer
// plus every document's evidence, sorted by score descending.
type AggregatedResponse struct {
	Answer    string
	Documents []ScoredChunk
}
