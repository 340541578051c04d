package retrieval

import (
	"log/slog"

	"docqa-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// Fuse concatenates the retrieval channels into one candidate set,
// vector results first, then lexical. Duplicates are dropped on chunk ID
// with the first occurrence winning. Fusion imposes no combined ordering
// beyond each channel's own order; the reranker owns final ordering.
// An empty fused set means "no context", not an error.
func Fuse(sc *StageContext, logger *slog.Logger) {
	seen := make(map[uuid.UUID]bool, len(sc.VectorHits)+len(sc.LexicalHits))
	fused := make([]domain.ScoredChunk, 0, len(sc.VectorHits)+len(sc.LexicalHits))

	for _, channel := range [][]domain.ScoredChunk{sc.VectorHits, sc.LexicalHits} {
		for _, hit := range channel {
			if seen[hit.ID] {
				continue
			}
			seen[hit.ID] = true
			fused = append(fused, hit)
		}
	}

	sc.Fused = fused

	logger.Info("channels_fused",
		slog.String("document_id", sc.DocumentID),
		slog.Int("vector_count", len(sc.VectorHits)),
		slog.Int("lexical_count", len(sc.LexicalHits)),
		slog.Int("fused_count", len(fused)))
}
