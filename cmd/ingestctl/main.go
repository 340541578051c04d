package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Global flags
	serverURL string
	timeout   int

	// Ingest command flags
	async    bool
	filename string

	// Ask command flags
	documentIDs []string
	topK        int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ingestctl",
	Short:   "Manage documents in the document QA orchestrator",
	Version: version,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <document-id> <source-path>",
	Short: "Ingest a document into the index",
	Long: `Ingest a document into the index.

By default the document is converted, embedded and indexed synchronously
and the command reports the indexed chunk count. With --async the document
is only registered and queued; use "ingestctl status" to follow progress.

Examples:
  # Synchronous ingest
  ingestctl ingest handbook-2026 /data/docs/handbook.pdf

  # Queue for background ingestion
  ingestctl ingest handbook-2026 /data/docs/handbook.pdf --async`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question against one or more ingested documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var statusCmd = &cobra.Command{
	Use:   "status <document-id>",
	Short: "Show ingestion status for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Remove a document and its indexed chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("ORCHESTRATOR_URL", "http://localhost:9020"), "orchestrator base URL")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 120, "request timeout in seconds")

	ingestCmd.Flags().BoolVar(&async, "async", false, "queue the document instead of waiting for ingestion")
	ingestCmd.Flags().StringVar(&filename, "filename", "", "display filename (defaults to the source path basename)")

	askCmd.Flags().StringSliceVar(&documentIDs, "doc", nil, "document ID to query (repeatable)")
	askCmd.Flags().IntVar(&topK, "top-k", 0, "evidence chunks per document (1-10, server default when omitted)")
	_ = askCmd.MarkFlagRequired("doc")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *http.Client {
	return &http.Client{Timeout: time.Duration(timeout) * time.Second}
}

func postJSON(path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return newClient().Post(serverURL+path, "application/json", bytes.NewReader(data))
}

func runIngest(cmd *cobra.Command, args []string) error {
	documentID, sourcePath := args[0], args[1]
	name := filename
	if name == "" {
		name = filepath.Base(sourcePath)
	}

	payload := map[string]string{
		"document_id": documentID,
		"filename":    name,
		"source_path": sourcePath,
	}

	path := fmt.Sprintf("/v1/documents/%s/ingest", documentID)
	if async {
		path = "/v1/documents"
	}

	resp, err := postJSON(path, payload)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	fmt.Println(string(body))
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	payload := map[string]any{
		"query":        args[0],
		"document_ids": documentIDs,
	}
	if topK > 0 {
		payload["top_k"] = topK
	}

	resp, err := postJSON("/v1/query", payload)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Answer    string `json:"answer"`
		Documents []struct {
			DocumentID string  `json:"document_id"`
			Content    string  `json:"content"`
			Score      float32 `json:"score"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Println(result.Answer)
	if len(result.Documents) > 0 {
		fmt.Printf("\nEvidence (%d chunks):\n", len(result.Documents))
		for i, doc := range result.Documents {
			fmt.Printf("%d. [%s] score=%.3f\n", i+1, doc.DocumentID, doc.Score)
		}
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	resp, err := newClient().Get(fmt.Sprintf("%s/v1/documents/%s", serverURL, args[0]))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	fmt.Println(string(body))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/documents/%s", serverURL, args[0]), nil)
	if err != nil {
		return err
	}
	resp, err := newClient().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	fmt.Printf("deleted %s\n", args[0])
	return nil
}
