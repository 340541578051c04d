package domain

import "errors"

// Failure taxonomy. Conversion failures degrade to sentinel chunks and are
// not errors at the pipeline boundary; everything else surfaces through one
// of these sentinels so callers can match with errors.Is.
var (
	// ErrEmptyDocumentIDs rejects a query with no target documents.
	ErrEmptyDocumentIDs = errors.New("no document IDs provided")

	// ErrEmptyQuery rejects a query with blank text.
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrTopKOutOfRange rejects a top_k outside [MinTopK, MaxTopK].
	ErrTopKOutOfRange = errors.New("top_k out of range")

	// ErrUnknownDocument rejects a query naming a document that was never
	// ingested.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrIndexWrite marks an embedding or vector-store failure during
	// ingestion. The ingestion call fails outright; no partial index is
	// reported as complete.
	ErrIndexWrite = errors.New("index write failed")

	// ErrRetrieval marks a per-document retrieval or ranking failure during
	// a query. Caught by the pipeline and converted to an error answer.
	ErrRetrieval = errors.New("retrieval failed")
)
