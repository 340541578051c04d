package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"docqa-orchestrator/internal/domain"
)

// Rerank scores the fused candidates against the query with the
// cross-encoder and orders them by score descending. The sort is stable, so
// equal scores keep their fusion order. With no reranker configured the
// candidates pass through in fusion order with a zero score. A failing
// rerank call is a retrieval failure and propagates to the caller.
func Rerank(
	ctx context.Context,
	sc *StageContext,
	reranker domain.Reranker,
	timeout time.Duration,
	logger *slog.Logger,
) error {
	if len(sc.Fused) == 0 {
		sc.Ranked = nil
		return nil
	}

	if reranker == nil {
		ranked := make([]domain.ScoredChunk, len(sc.Fused))
		copy(ranked, sc.Fused)
		for i := range ranked {
			ranked[i].Score = 0.0
		}
		sc.Ranked = ranked
		return nil
	}

	candidates := make([]domain.RerankCandidate, len(sc.Fused))
	for i, hit := range sc.Fused {
		candidates[i] = domain.RerankCandidate{
			ID:      hit.ID.String(),
			Content: hit.Content,
		}
	}

	rerankCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	results, err := reranker.Rerank(rerankCtx, sc.Query, candidates)
	if err != nil {
		return fmt.Errorf("%w: rerank call failed: %v", domain.ErrRetrieval, err)
	}

	scores := make(map[string]float32, len(results))
	for _, r := range results {
		scores[r.ID] = r.Score
	}

	ranked := make([]domain.ScoredChunk, len(sc.Fused))
	copy(ranked, sc.Fused)
	for i := range ranked {
		ranked[i].Score = scores[ranked[i].ID.String()]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if sc.TopK > 0 && len(ranked) > sc.TopK {
		ranked = ranked[:sc.TopK]
	}
	sc.Ranked = ranked

	logger.Info("reranking_completed",
		slog.String("document_id", sc.DocumentID),
		slog.Int("candidate_count", len(candidates)),
		slog.Int("ranked_count", len(ranked)),
		slog.String("model", reranker.ModelName()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return nil
}
