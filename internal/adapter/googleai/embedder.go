package googleai

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

	"cisnr-assistant/internal/domain"
)

// DefaultBaseURL is the public Generative Language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type embedContentRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// Embedder calls the Gemini embedContent endpoint.
type Embedder struct {
	BaseURL string
	APIKey  string
	ModelID string
	Client  *http.Client
}

// NewEmbedder constructs an embedder for the given model, e.g.
// "embedding-001". An empty baseURL selects the public endpoint.
func NewEmbedder(baseURL, apiKey, model string, client *http.Client) *Embedder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Embedder{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		ModelID: model,
		Client:  client,
	}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()

	reqBody := embedContentRequest{
		Model:   "models/" + e.ModelID,
		Content: content{Parts: []part{{Text: text}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:embedContent", e.BaseURL, e.ModelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.APIKey)

	resp, err := e.Client.Do(req)
	if err != nil {
		slog.Error("gemini_embed_failed",
			slog.String("model", e.ModelID),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to call embedding endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("gemini_embed_bad_status",
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("embedding endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var respBody embedContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}
	if len(respBody.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding endpoint returned empty vector")
	}

	slog.Debug("gemini_embed_completed",
		slog.Int("dimension", len(respBody.Embedding.Values)),
		slog.Duration("elapsed", time.Since(start)))

	return respBody.Embedding.Values, nil
}

// Model returns the wrapped model name.
func (e *Embedder) Model() string {
	return e.ModelID
}

var _ domain.Embedder = (*Embedder)(nil)
