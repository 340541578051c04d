package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// Sampling is moderate and non-zero: answers are not required to be
// deterministic.
const completionTemperature = 0.7

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// OllamaCompletion sends system+user prompts to Ollama's chat endpoint.
type OllamaCompletion struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewOllamaCompletion constructs a completion client for the given endpoint
// and model name.
func NewOllamaCompletion(baseURL, model string, client *http.Client) *OllamaCompletion {
	return &OllamaCompletion{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  client,
	}
}

// Complete sends the prompts and returns the assistant message text.
func (g *OllamaCompletion) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	reqBody := chatRequest{
		Model: g.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
		Options: map[string]interface{}{
			"temperature": completionTemperature,
		},
	}
	if maxTokens > 0 {
		reqBody.Options["num_predict"] = maxTokens
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", g.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call generation endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generation endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	content := strings.TrimSpace(chatResp.Message.Content)
	if content == "" {
		return "", fmt.Errorf("generation returned empty content")
	}

	return content, nil
}

func (g *OllamaCompletion) Version() string {
	return g.Model
}

var _ domain.CompletionClient = (*OllamaCompletion)(nil)
