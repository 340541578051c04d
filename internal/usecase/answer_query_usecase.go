package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"docqa-orchestrator/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
)

const defaultFanOutLimit = 4

// AnswerQueryUsecase fans a query out across the requested documents, runs
// the per-document pipeline with failure isolation, and aggregates the
// results into one response.
type AnswerQueryUsecase interface {
	Execute(ctx context.Context, query domain.Query) (*domain.AggregatedResponse, error)
}

type answerQueryUsecase struct {
	docRepo     domain.DocumentRepository
	docPipeline AnswerDocumentUsecase
	fanOutLimit int
	cache       *expirable.LRU[string, *domain.AggregatedResponse]
	logger      *slog.Logger
}

// AnswerQueryOption customizes the orchestrator.
type AnswerQueryOption func(*answerQueryUsecase)

// WithCacheConfig enables answer caching with the given size and TTL.
func WithCacheConfig(size int, ttl time.Duration) AnswerQueryOption {
	return func(u *answerQueryUsecase) {
		if size > 0 {
			u.cache = expirable.NewLRU[string, *domain.AggregatedResponse](size, nil, ttl)
		}
	}
}

// WithFanOutLimit bounds the number of documents queried concurrently.
func WithFanOutLimit(limit int) AnswerQueryOption {
	return func(u *answerQueryUsecase) {
		if limit > 0 {
			u.fanOutLimit = limit
		}
	}
}

// NewAnswerQueryUsecase wires the orchestrator over the per-document pipeline.
func NewAnswerQueryUsecase(
	docRepo domain.DocumentRepository,
	docPipeline AnswerDocumentUsecase,
	logger *slog.Logger,
	opts ...AnswerQueryOption,
) AnswerQueryUsecase {
	u := &answerQueryUsecase{
		docRepo:     docRepo,
		docPipeline: docPipeline,
		fanOutLimit: defaultFanOutLimit,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *answerQueryUsecase) Execute(ctx context.Context, query domain.Query) (*domain.AggregatedResponse, error) {
	topK, err := u.validate(ctx, &query)
	if err != nil {
		return nil, err
	}

	cacheKey := u.cacheKey(query, topK)
	if u.cache != nil {
		if cached, ok := u.cache.Get(cacheKey); ok {
			u.logger.Info("answer_cache_hit", slog.String("query", truncate(query.Text, 80)))
			return cached, nil
		}
	}

	start := time.Now()

	// Fan out per document. Results land at their requested position so the
	// aggregation below never depends on completion order.
	results := make([]domain.AnswerResult, len(query.DocumentIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.fanOutLimit)
	for i, docID := range query.DocumentIDs {
		g.Go(func() error {
			results[i] = u.docPipeline.Execute(gctx, AnswerDocumentInput{
				Query:      query.Text,
				DocumentID: docID,
				TopK:       topK,
			})
			return nil
		})
	}
	// Pipelines convert their own failures; Wait only collects.
	_ = g.Wait()

	response := Aggregate(results)

	u.logger.Info("query_completed",
		slog.String("query", truncate(query.Text, 80)),
		slog.Int("document_count", len(query.DocumentIDs)),
		slog.Int("evidence_count", len(response.Documents)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	if u.cache != nil {
		u.cache.Add(cacheKey, response)
	}
	return response, nil
}

// Aggregate merges per-document results into the final response. The answer
// is the first document's answer verbatim; later documents contribute
// evidence only. Evidence is concatenated in document order and stable-sorted
// by score descending. Known simplification: answers are not synthesized
// across documents. A second-pass synthesis over all results would slot in
// here without touching the fan-out.
func Aggregate(results []domain.AnswerResult) *domain.AggregatedResponse {
	if len(results) == 0 {
		return &domain.AggregatedResponse{Answer: "No results found", Documents: []domain.ScoredChunk{}}
	}

	documents := make([]domain.ScoredChunk, 0)
	for _, result := range results {
		documents = append(documents, result.Evidence...)
	}
	sort.SliceStable(documents, func(i, j int) bool {
		return documents[i].Score > documents[j].Score
	})

	return &domain.AggregatedResponse{
		Answer:    results[0].Answer,
		Documents: documents,
	}
}

// validate rejects malformed queries before any retrieval work begins and
// resolves the effective top_k.
func (u *answerQueryUsecase) validate(ctx context.Context, query *domain.Query) (int, error) {
	if strings.TrimSpace(query.Text) == "" {
		return 0, domain.ErrEmptyQuery
	}
	if len(query.DocumentIDs) == 0 {
		return 0, domain.ErrEmptyDocumentIDs
	}

	topK := query.TopK
	if topK == 0 {
		topK = domain.DefaultTopK
	}
	if topK < domain.MinTopK || topK > domain.MaxTopK {
		return 0, fmt.Errorf("%w: %d", domain.ErrTopKOutOfRange, topK)
	}

	for _, docID := range query.DocumentIDs {
		exists, err := u.docRepo.Exists(ctx, docID)
		if err != nil {
			return 0, fmt.Errorf("failed to check document %s: %w", docID, err)
		}
		if !exists {
			return 0, fmt.Errorf("%w: %s", domain.ErrUnknownDocument, docID)
		}
	}

	return topK, nil
}

func (u *answerQueryUsecase) cacheKey(query domain.Query, topK int) string {
	return query.Text + "\x1f" + strings.Join(query.DocumentIDs, ",") + "\x1f" + strconv.Itoa(topK)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
