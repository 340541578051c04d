package domain

import "context"

// CompletionClient sends an assembled prompt to the generation model.
// Calls carry a bounded timeout; failures are returned as errors and the
// generator stage degrades them to an error-text answer.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
	Version() string
}
