package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"
)

// AnswerDocumentInput is one (query, document) pair to answer.
type AnswerDocumentInput struct {
	Query      string
	DocumentID string
	TopK       int
}

// AnswerDocumentUsecase runs the per-document query pipeline:
// retrieve, rerank, assemble prompt, generate. Stage failures never escape
// the pipeline; they convert to an error-text AnswerResult so the caller's
// batch continues.
type AnswerDocumentUsecase interface {
	Execute(ctx context.Context, input AnswerDocumentInput) domain.AnswerResult
}

type answerDocumentUsecase struct {
	chunkRepo      domain.ChunkRepository
	encoder        domain.VectorEncoder
	reranker       domain.Reranker // nil when reranking is unavailable
	lexicalEnabled bool
	rerankTimeout  time.Duration
	promptBuilder  PromptBuilder
	generator      Generator
	logger         *slog.Logger
}

// AnswerDocumentOption customizes the per-document pipeline.
type AnswerDocumentOption func(*answerDocumentUsecase)

// WithReranker enables cross-encoder reranking with the given call timeout.
func WithReranker(reranker domain.Reranker, timeout time.Duration) AnswerDocumentOption {
	return func(u *answerDocumentUsecase) {
		u.reranker = reranker
		u.rerankTimeout = timeout
	}
}

// WithLexicalChannel enables the keyword retrieval channel.
func WithLexicalChannel(enabled bool) AnswerDocumentOption {
	return func(u *answerDocumentUsecase) {
		u.lexicalEnabled = enabled
	}
}

// NewAnswerDocumentUsecase wires the query pipeline stages for one document.
func NewAnswerDocumentUsecase(
	chunkRepo domain.ChunkRepository,
	encoder domain.VectorEncoder,
	promptBuilder PromptBuilder,
	generator Generator,
	logger *slog.Logger,
	opts ...AnswerDocumentOption,
) AnswerDocumentUsecase {
	u := &answerDocumentUsecase{
		chunkRepo:     chunkRepo,
		encoder:       encoder,
		promptBuilder: promptBuilder,
		generator:     generator,
		rerankTimeout: 10 * time.Second,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *answerDocumentUsecase) Execute(ctx context.Context, input AnswerDocumentInput) domain.AnswerResult {
	sc := &retrieval.StageContext{
		Query:      input.Query,
		DocumentID: input.DocumentID,
		TopK:       input.TopK,
	}

	if err := u.retrieve(ctx, sc); err != nil {
		return u.errorResult(input.DocumentID, err)
	}

	retrieval.Fuse(sc, u.logger)

	if err := retrieval.Rerank(ctx, sc, u.reranker, u.rerankTimeout, u.logger); err != nil {
		return u.errorResult(input.DocumentID, err)
	}

	prompt := u.promptBuilder.Build(PromptInput{
		Query:    input.Query,
		Contexts: sc.Ranked,
	})

	generated := u.generator.Generate(ctx, prompt, sc.Ranked)

	return domain.AnswerResult{
		DocumentID: input.DocumentID,
		Answer:     generated.Answer,
		Evidence:   generated.Evidence,
	}
}

// retrieve runs the vector channel and, when enabled, the keyword channel.
// A lexical miss or lexical index absence yields an empty channel, not an
// error; vector channel failures are retrieval failures.
func (u *answerDocumentUsecase) retrieve(ctx context.Context, sc *retrieval.StageContext) error {
	embeddings, err := u.encoder.Encode(ctx, []string{sc.Query})
	if err != nil {
		return fmt.Errorf("%w: failed to encode query: %v", domain.ErrRetrieval, err)
	}
	if len(embeddings) != 1 {
		return fmt.Errorf("%w: expected 1 query embedding, got %d", domain.ErrRetrieval, len(embeddings))
	}
	sc.QueryEmbedding = embeddings[0]

	sc.VectorHits, err = u.chunkRepo.SearchVector(ctx, sc.DocumentID, sc.QueryEmbedding, sc.TopK)
	if err != nil {
		return fmt.Errorf("%w: vector search failed: %v", domain.ErrRetrieval, err)
	}

	if u.lexicalEnabled {
		sc.LexicalHits, err = u.chunkRepo.SearchLexical(ctx, sc.DocumentID, sc.Query, sc.TopK)
		if err != nil {
			u.logger.Warn("lexical_channel_unavailable",
				slog.String("document_id", sc.DocumentID),
				slog.String("error", err.Error()))
			sc.LexicalHits = nil
		}
	}

	return nil
}

func (u *answerDocumentUsecase) errorResult(documentID string, err error) domain.AnswerResult {
	u.logger.Error("document_query_failed",
		slog.String("document_id", documentID),
		slog.String("error", err.Error()))
	return domain.AnswerResult{
		DocumentID: documentID,
		Answer:     "Error: " + err.Error(),
		Evidence:   nil,
	}
}
