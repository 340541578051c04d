package modelclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEmbedder_Encode_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bge-m3", req.Model)
		assert.Equal(t, []string{"one", "two"}, req.Input)

		json.NewEncoder(w).Encode(embedResponse{
			Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	defer server.Close()

	embedder := NewOllamaEmbedder(server.URL, "bge-m3", http.DefaultClient, 0)

	embeddings, err := embedder.Encode(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
	assert.Equal(t, []float32{0.3, 0.4}, embeddings[1])
}

func TestOllamaEmbedder_Encode_EmptyInput(t *testing.T) {
	embedder := NewOllamaEmbedder("http://localhost:11434", "bge-m3", http.DefaultClient, 0)

	embeddings, err := embedder.Encode(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}

func TestOllamaEmbedder_Encode_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	embedder := NewOllamaEmbedder(server.URL, "bge-m3", http.DefaultClient, 0)

	_, err := embedder.Encode(context.Background(), []string{"text"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestOllamaEmbedder_Encode_HonorsRateLimiterCancellation(t *testing.T) {
	// Limiter of 1 rps with burst 1: the second call must wait, and a
	// cancelled context aborts the wait.
	embedder := NewOllamaEmbedder("http://localhost:11434", "bge-m3", http.DefaultClient, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := embedder.Encode(ctx, []string{"text"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}
