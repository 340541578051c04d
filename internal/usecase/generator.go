package usecase

import (
	"context"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/domain"
)

// answerSystemPrompt establishes grounded-answering behavior for every
// generation call.
const answerSystemPrompt = "You are an assistant that answers questions from document excerpts supplied by the user. " +
	"Ground every answer in those excerpts and make clear when they do not contain the answer."

// GenerationResult pairs the generated text with the evidence chunks the
// model saw. A failed generation still yields a result with an error-text
// answer; the generator never raises past the pipeline boundary.
type GenerationResult struct {
	Answer   string
	Evidence []domain.ScoredChunk
}

// Generator invokes the completion service with the assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, evidence []domain.ScoredChunk) GenerationResult
}

type completionGenerator struct {
	client    domain.CompletionClient
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
}

// NewGenerator wraps a completion client with the response-length budget and
// call timeout.
func NewGenerator(client domain.CompletionClient, maxTokens int, timeout time.Duration, logger *slog.Logger) Generator {
	return &completionGenerator{
		client:    client,
		maxTokens: maxTokens,
		timeout:   timeout,
		logger:    logger,
	}
}

func (g *completionGenerator) Generate(ctx context.Context, prompt string, evidence []domain.ScoredChunk) GenerationResult {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.client.Complete(callCtx, answerSystemPrompt, prompt, g.maxTokens)
	if err != nil {
		g.logger.Error("generation_failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return GenerationResult{
			Answer:   "Error: " + err.Error(),
			Evidence: evidence,
		}
	}

	g.logger.Info("generation_completed",
		slog.Int("answer_length", len(text)),
		slog.String("model", g.client.Version()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return GenerationResult{
		Answer:   text,
		Evidence: evidence,
	}
}
