package usecase_test

import (
	"strings"
	"testing"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func chunkWithContent(content string) domain.ScoredChunk {
	return domain.ScoredChunk{Chunk: domain.Chunk{Content: content}}
}

func TestGroundedPromptBuilder_NumbersExcerpts(t *testing.T) {
	builder := usecase.NewGroundedPromptBuilder()

	prompt := builder.Build(usecase.PromptInput{
		Query: "What is the refund policy?",
		Contexts: []domain.ScoredChunk{
			chunkWithContent("Refunds are issued within 14 days."),
			chunkWithContent("Contact support to start a refund."),
		},
	})

	assert.Contains(t, prompt, "Excerpt 1:\nRefunds are issued within 14 days.")
	assert.Contains(t, prompt, "Excerpt 2:\nContact support to start a refund.")
	assert.Contains(t, prompt, "Question: What is the refund policy?")
	assert.NotContains(t, prompt, usecase.NoContextPlaceholder)
}

func TestGroundedPromptBuilder_EmptyContextUsesPlaceholder(t *testing.T) {
	builder := usecase.NewGroundedPromptBuilder()

	prompt := builder.Build(usecase.PromptInput{Query: "anything?"})

	assert.Contains(t, prompt, usecase.NoContextPlaceholder)
	assert.NotContains(t, prompt, "Excerpt 1:")
}

func TestGroundedPromptBuilder_SkipsBlankChunks(t *testing.T) {
	builder := usecase.NewGroundedPromptBuilder()

	prompt := builder.Build(usecase.PromptInput{
		Query: "anything?",
		Contexts: []domain.ScoredChunk{
			chunkWithContent("   \n\t  "),
			chunkWithContent("real content"),
		},
	})

	assert.Contains(t, prompt, "Excerpt 1:\nreal content")
	assert.NotContains(t, prompt, "Excerpt 2:")
}

func TestGroundedPromptBuilder_AllBlankFallsBackToPlaceholder(t *testing.T) {
	builder := usecase.NewGroundedPromptBuilder()

	prompt := builder.Build(usecase.PromptInput{
		Query:    "anything?",
		Contexts: []domain.ScoredChunk{chunkWithContent("  "), chunkWithContent("")},
	})

	assert.Contains(t, prompt, usecase.NoContextPlaceholder)
}

func TestGroundedPromptBuilder_CarriesGroundingInstruction(t *testing.T) {
	builder := usecase.NewGroundedPromptBuilder()

	prompt := builder.Build(usecase.PromptInput{
		Query:    "anything?",
		Contexts: []domain.ScoredChunk{chunkWithContent("context")},
	})

	assert.Contains(t, prompt, "I don't know based on the provided information")
	assert.True(t, strings.HasPrefix(prompt, "Excerpts:\n"))
}
