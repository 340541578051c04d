package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinSplitLength is the minimum allowed piece length in runes.
	// Pieces shorter than this are merged with adjacent pieces.
	MinSplitLength = 80
	// MaxSplitLength is the maximum allowed piece length in runes.
	// Pieces longer than this are split at sentence boundaries.
	MaxSplitLength = 1000
)

// SplitPiece is one sized slice of a section's text, still carrying the
// section's structural metadata.
type SplitPiece struct {
	Headings []string
	Pages    []int
	Text     string
}

// Splitter turns a converted document's sections into pieces sized for the
// embedding model's context window.
type Splitter interface {
	Split(sections []ConvertedSection) []SplitPiece
	Version() string
}

type sectionSplitter struct{}

// NewSplitter creates the default heading-aware splitter.
func NewSplitter() Splitter {
	return &sectionSplitter{}
}

func (s *sectionSplitter) Version() string {
	return "section-v1"
}

// Split processes each section independently so pieces never cross a heading
// boundary. Within a section, paragraphs are merged when short and split at
// sentence boundaries when long.
func (s *sectionSplitter) Split(sections []ConvertedSection) []SplitPiece {
	var pieces []SplitPiece
	for _, section := range sections {
		for _, text := range splitSectionText(section.Text) {
			pieces = append(pieces, SplitPiece{
				Headings: section.Headings,
				Pages:    section.Pages,
				Text:     text,
			})
		}
	}
	return pieces
}

func splitSectionText(body string) []string {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	parts := strings.Split(normalized, "\n\n")

	var paragraphs []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}

	merged := mergeShortPieces(paragraphs)
	return splitLongPieces(merged)
}

// mergeShortPieces merges consecutive paragraphs shorter than MinSplitLength.
// Long paragraphs are kept separate.
func mergeShortPieces(paragraphs []string) []string {
	if len(paragraphs) == 0 {
		return paragraphs
	}

	var merged []string
	var shortAccumulator string

	for _, para := range paragraphs {
		paraLen := utf8.RuneCountInString(para)
		if paraLen >= MinSplitLength {
			// Flush any accumulated short paragraphs first
			if shortAccumulator != "" {
				accumLen := utf8.RuneCountInString(shortAccumulator)
				if accumLen < MinSplitLength {
					if len(merged) > 0 {
						lastIdx := len(merged) - 1
						merged[lastIdx] = merged[lastIdx] + "\n\n" + shortAccumulator
					} else {
						// No previous piece, prepend to the current long paragraph
						para = shortAccumulator + "\n\n" + para
					}
				} else {
					merged = append(merged, shortAccumulator)
				}
				shortAccumulator = ""
			}
			merged = append(merged, para)
		} else {
			if shortAccumulator == "" {
				shortAccumulator = para
			} else {
				shortAccumulator = shortAccumulator + "\n\n" + para
			}
		}
	}

	if shortAccumulator != "" {
		accumLen := utf8.RuneCountInString(shortAccumulator)
		if accumLen < MinSplitLength && len(merged) > 0 {
			lastIdx := len(merged) - 1
			merged[lastIdx] = merged[lastIdx] + "\n\n" + shortAccumulator
		} else {
			merged = append(merged, shortAccumulator)
		}
	}

	return merged
}

// splitLongPieces splits paragraphs longer than MaxSplitLength at sentence
// boundaries.
func splitLongPieces(paragraphs []string) []string {
	var result []string

	for _, para := range paragraphs {
		if utf8.RuneCountInString(para) <= MaxSplitLength {
			result = append(result, para)
			continue
		}

		sentences := splitIntoSentences(para)
		var piece string

		for _, sentence := range sentences {
			pieceLen := utf8.RuneCountInString(piece)
			sentenceLen := utf8.RuneCountInString(sentence)
			spaceLen := 0
			if pieceLen > 0 {
				spaceLen = 1
			}

			if pieceLen > 0 && pieceLen+spaceLen+sentenceLen > MaxSplitLength {
				result = append(result, piece)
				piece = sentence
			} else {
				if piece != "" {
					piece += " "
				}
				piece += sentence
			}
		}

		if piece != "" {
			result = append(result, piece)
		}
	}

	return result
}

// splitIntoSentences splits text at common sentence boundaries: . ! ?
// followed by whitespace or end of text.
func splitIntoSentences(text string) []string {
	var sentences []string
	var current string

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current += string(runes[i])

		if runes[i] == '.' || runes[i] == '!' || runes[i] == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' {
				sentences = append(sentences, strings.TrimSpace(current))
				current = ""
			}
		}
	}

	if trimmed := strings.TrimSpace(current); trimmed != "" {
		sentences = append(sentences, trimmed)
	}

	return sentences
}
