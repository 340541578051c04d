package domain

import (
	"context"
)

// VectorEncoder defines the interface for generating embeddings.
// The same encoder serves ingestion and query time so vector spaces stay
// comparable.
type VectorEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}
