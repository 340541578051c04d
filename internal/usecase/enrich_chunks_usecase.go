package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"docqa-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// EnrichChunksInput identifies the source document to convert and split.
type EnrichChunksInput struct {
	DocumentID string
	Filename   string
	SourcePath string
}

// ChunkEnricher converts one source document into an ordered sequence of
// enriched chunks. Conversion failures degrade to a single sentinel error
// chunk so one bad source never breaks the pipeline or the rest of a batch.
type ChunkEnricher interface {
	Enrich(ctx context.Context, input EnrichChunksInput) []domain.Chunk
}

type chunkEnricher struct {
	converter domain.DocumentConverter
	splitter  domain.Splitter
	logger    *slog.Logger
}

// NewChunkEnricher wires the conversion service and splitter into an enricher.
func NewChunkEnricher(converter domain.DocumentConverter, splitter domain.Splitter, logger *slog.Logger) ChunkEnricher {
	return &chunkEnricher{
		converter: converter,
		splitter:  splitter,
		logger:    logger,
	}
}

func (e *chunkEnricher) Enrich(ctx context.Context, input EnrichChunksInput) []domain.Chunk {
	converted, err := e.converter.Convert(ctx, input.SourcePath)
	if err != nil {
		e.logger.Error("document_conversion_failed",
			slog.String("document_id", input.DocumentID),
			slog.String("source", input.SourcePath),
			slog.String("error", err.Error()))
		return []domain.Chunk{domain.NewErrorChunk(input.DocumentID, input.Filename, err)}
	}

	pieces := e.splitter.Split(converted.Sections)
	e.logger.Info("document_split_completed",
		slog.String("document_id", input.DocumentID),
		slog.String("filename", input.Filename),
		slog.Int("piece_count", len(pieces)))

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		pages := dedupePages(piece.Pages)
		firstPage := 0
		if len(pages) > 0 {
			firstPage = pages[0]
		}

		chunks = append(chunks, domain.Chunk{
			ID:             uuid.New(),
			DocumentID:     input.DocumentID,
			Index:          i,
			Content:        contextualize(piece.Headings, piece.Text),
			Headings:       piece.Headings,
			Pages:          pages,
			FirstPage:      firstPage,
			OriginFilename: input.Filename,
			Kind:           domain.ChunkKindContent,
		})
	}

	return chunks
}

// contextualize prepends the heading breadcrumb to the piece text and bounds
// the result to MaxChunkContentLength runes.
func contextualize(headings []string, text string) string {
	var sb strings.Builder
	if len(headings) > 0 {
		sb.WriteString(strings.Join(headings, " > "))
		sb.WriteString("\n\n")
	}
	sb.WriteString(text)

	content := sb.String()
	runes := []rune(content)
	if len(runes) > domain.MaxChunkContentLength {
		content = string(runes[:domain.MaxChunkContentLength])
	}
	return content
}

func dedupePages(pages []int) []int {
	if len(pages) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(pages))
	unique := make([]int, 0, len(pages))
	for _, p := range pages {
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}
	sort.Ints(unique)
	return unique
}
