package domain

import (
	"github.com/google/uuid"
)

// ChunkKind distinguishes regular content chunks from sentinel error chunks.
// Conversion failures are recorded as data so a bad source stays visible in
// the index without breaking the rest of the batch.
type ChunkKind string

const (
	ChunkKindContent ChunkKind = "content"
	ChunkKindError   ChunkKind = "error"
)

// MaxChunkContentLength bounds the enriched content stored per chunk, in
// runes. Longer chunks are truncated before embedding to cap embedding cost.
const MaxChunkContentLength = 500

// Chunk is a bounded slice of a document's text with positional and
// structural metadata. Chunks are immutable once emitted by the enricher;
// retrieval attaches scores via ScoredChunk instead of mutating them.
type Chunk struct {
	ID             uuid.UUID
	DocumentID     string
	Index          int // 0-based emission order, unique within a document
	Content        string
	Headings       []string // heading breadcrumb path, may be empty
	Pages          []int    // sorted unique originating page numbers
	FirstPage      int      // minimum page number, 0 when unknown
	OriginFilename string
	Kind           ChunkKind
	ErrorMessage   string // set only on error chunks
}

// NewErrorChunk builds the sentinel chunk emitted when conversion or
// chunking fails for a source. It carries the failure as content so the
// error is inspectable downstream.
func NewErrorChunk(documentID, filename string, convErr error) Chunk {
	return Chunk{
		ID:             uuid.New(),
		DocumentID:     documentID,
		Index:          0,
		Content:        "Error processing document: " + convErr.Error(),
		OriginFilename: filename,
		Kind:           ChunkKindError,
		ErrorMessage:   convErr.Error(),
	}
}

// IsError reports whether the chunk is a conversion-failure sentinel.
func (c Chunk) IsError() bool {
	return c.Kind == ChunkKindError
}

// ScoredChunk is a chunk plus its retrieval-time relevance score.
// Higher scores mean more relevant. Produced fresh per query, never persisted.
type ScoredChunk struct {
	Chunk
	Score float32
}

// ConvertedSection is one structurally distinct piece of a converted
// document: a run of text under a heading path, with page provenance.
type ConvertedSection struct {
	Headings []string
	Pages    []int
	Text     string
}

// ConvertedDocument is the structured output of the document conversion
// service, ready for heading-aware splitting.
type ConvertedDocument struct {
	Filename string
	Sections []ConvertedSection
}
