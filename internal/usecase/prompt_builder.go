package usecase

import (
	"fmt"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// NoContextPlaceholder is substituted when no usable excerpts survive
// filtering, so the model is told explicitly that nothing was retrieved.
const NoContextPlaceholder = "No relevant context available"

// PromptInput contains the pieces that feed into the prompt builder.
type PromptInput struct {
	Query    string
	Contexts []domain.ScoredChunk
}

// PromptBuilder assembles the grounded generation prompt from the ranked
// context and the question. Implementations are pure string construction,
// no model calls and no side effects.
type PromptBuilder interface {
	Build(input PromptInput) string
}

// GroundedPromptBuilder renders numbered excerpt blocks followed by the
// question and an explicit grounding instruction.
type GroundedPromptBuilder struct{}

// NewGroundedPromptBuilder creates the default prompt builder.
func NewGroundedPromptBuilder() PromptBuilder {
	return &GroundedPromptBuilder{}
}

// Build renders the user prompt. Chunks whose trimmed content is empty are
// skipped; with no usable excerpts the literal placeholder takes their place.
func (b *GroundedPromptBuilder) Build(input PromptInput) string {
	var sb strings.Builder

	sb.WriteString("Excerpts:\n")
	n := 0
	for _, ctx := range input.Contexts {
		text := strings.TrimSpace(ctx.Content)
		if text == "" {
			continue
		}
		n++
		sb.WriteString(fmt.Sprintf("Excerpt %d:\n%s\n\n", n, text))
	}
	if n == 0 {
		sb.WriteString(NoContextPlaceholder)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(strings.TrimSpace(input.Query))
	sb.WriteString("\n\n")
	sb.WriteString("Answer the question using the excerpts above. ")
	sb.WriteString("Fall back on general knowledge only when the excerpts are insufficient, ")
	sb.WriteString("and say \"I don't know based on the provided information\" if the question cannot be answered at all.")

	return sb.String()
}
