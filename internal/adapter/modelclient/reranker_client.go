package modelclient

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

// RerankRequest is the request payload for the rerank endpoint.
type RerankRequest struct {
	Query      string   `json:"query"`
	Candidates []string `json:"candidates"`
	Model      string   `json:"model,omitempty"`
}

// RerankResponseResult is a single result in the rerank response.
type RerankResponseResult struct {
	Index int     `json:"index"`
	Score float32 `json:"score"`
}

// RerankResponse is the response from the rerank endpoint.
type RerankResponse struct {
	Results []RerankResponseResult `json:"results"`
	Model   string                 `json:"model"`
}

// RerankerClient implements domain.Reranker over a cross-encoder HTTP
// service.
type RerankerClient struct {
	BaseURL string
	Model   string
	Client  *http.Client
	logger  *slog.Logger
}

// NewRerankerClient constructs a new RerankerClient.
func NewRerankerClient(baseURL, model string, client *http.Client, logger *slog.Logger) *RerankerClient {
	return &RerankerClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  client,
		logger:  logger,
	}
}

// Rerank scores candidates against the query using the cross-encoder model.
// Results come back sorted by score descending.
func (c *RerankerClient) Rerank(ctx context.Context, query string, candidates []domain.RerankCandidate) ([]domain.RerankResult, error) {
	if len(candidates) == 0 {
		return []domain.RerankResult{}, nil
	}

	startTime := time.Now()

	c.logger.Info("reranking_started",
		slog.String("query", truncateString(query, 100)),
		slog.Int("candidate_count", len(candidates)),
		slog.String("model", c.Model))

	contents := make([]string, len(candidates))
	for i, cand := range candidates {
		contents[i] = cand.Content
	}

	reqBody := RerankRequest{
		Query:      query,
		Candidates: contents,
		Model:      c.Model,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rerank request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/rerank", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		c.logger.Warn("reranking_failed",
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return nil, fmt.Errorf("failed to call rerank endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("reranking_failed",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", truncateString(string(body), 500)),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return nil, fmt.Errorf("rerank endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var rerankResp RerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, fmt.Errorf("failed to decode rerank response: %w", err)
	}

	// Map results back to candidate IDs
	results := make([]domain.RerankResult, len(rerankResp.Results))
	for i, r := range rerankResp.Results {
		if r.Index < 0 || r.Index >= len(candidates) {
			return nil, fmt.Errorf("invalid result index %d for %d candidates", r.Index, len(candidates))
		}
		results[i] = domain.RerankResult{
			ID:    candidates[r.Index].ID,
			Score: r.Score,
		}
	}

	c.logger.Info("reranking_completed",
		slog.Int("result_count", len(results)),
		slog.String("model", rerankResp.Model),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return results, nil
}

// ModelName returns the model identifier for logging.
func (c *RerankerClient) ModelName() string {
	return c.Model
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

var _ domain.Reranker = (*RerankerClient)(nil)
