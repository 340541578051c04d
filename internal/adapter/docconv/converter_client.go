package docconv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"docqa-orchestrator/internal/domain"
)

type convertRequest struct {
	Source string `json:"source"`
}

type convertSection struct {
	Headings []string `json:"headings"`
	Pages    []int    `json:"pages"`
	Text     string   `json:"text"`
}

type convertResponse struct {
	Filename string           `json:"filename"`
	Sections []convertSection `json:"sections"`
}

// ConverterClient implements domain.DocumentConverter against a document
// conversion sidecar that turns PDFs into structured, heading-annotated text.
type ConverterClient struct {
	BaseURL string
	Client  *http.Client
	logger  *slog.Logger
}

// NewConverterClient constructs a converter client.
func NewConverterClient(baseURL string, client *http.Client, logger *slog.Logger) *ConverterClient {
	return &ConverterClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
		logger:  logger,
	}
}

// Convert submits the source path to the conversion service. Errors bubble
// up unwrapped; the enricher degrades them to a sentinel error chunk.
func (c *ConverterClient) Convert(ctx context.Context, sourcePath string) (*domain.ConvertedDocument, error) {
	start := time.Now()

	jsonPayload, err := json.Marshal(convertRequest{Source: sourcePath})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal convert request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/convert", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create convert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call conversion service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("conversion service returned %d: %s", resp.StatusCode, string(body))
	}

	var convResp convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&convResp); err != nil {
		return nil, fmt.Errorf("failed to decode conversion response: %w", err)
	}

	sections := make([]domain.ConvertedSection, len(convResp.Sections))
	for i, s := range convResp.Sections {
		sections[i] = domain.ConvertedSection{
			Headings: s.Headings,
			Pages:    s.Pages,
			Text:     s.Text,
		}
	}

	c.logger.Info("document_converted",
		slog.String("source", sourcePath),
		slog.Int("section_count", len(sections)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return &domain.ConvertedDocument{
		Filename: convResp.Filename,
		Sections: sections,
	}, nil
}

var _ domain.DocumentConverter = (*ConverterClient)(nil)
