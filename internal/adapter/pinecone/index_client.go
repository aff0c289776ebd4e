package pinecone

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

// metadataTextKey is where the ingestion pipeline stores the passage
// text inside each vector's metadata.
const metadataTextKey = "text"

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

// IndexClient queries a pre-populated Pinecone index over its data
// plane /query endpoint. Index build is out of scope; this client is
// read-only.
type IndexClient struct {
	Host      string
	APIKey    string
	IndexName string
	Client    *http.Client
}

// NewIndexClient constructs a client for the index served at host.
// The scheme may be omitted; https is assumed.
func NewIndexClient(host, apiKey, indexName string, client *http.Client) *IndexClient {
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &IndexClient{
		Host:      strings.TrimRight(host, "/"),
		APIKey:    apiKey,
		IndexName: indexName,
		Client:    client,
	}
}

// Search returns the topK nearest stored documents, ordered by
// similarity descending as ranked by Pinecone. The match score is
// injected into each document's metadata under domain.MetadataScore.
func (c *IndexClient) Search(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]domain.Document, error) {
	start := time.Now()

	reqBody := queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: includeMetadata,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query request: %w", err)
	}

	url := c.Host + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		slog.Error("pinecone_query_failed",
			slog.String("index", c.IndexName),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to call pinecone: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("pinecone_query_bad_status",
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("pinecone returned %d: %s", resp.StatusCode, string(body))
	}

	var respBody queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	docs := make([]domain.Document, 0, len(respBody.Matches))
	for _, m := range respBody.Matches {
		doc := domain.Document{}
		if text, ok := m.Metadata[metadataTextKey].(string); ok {
			doc.Content = text
		}
		if includeMetadata {
			md := make(map[string]any, len(m.Metadata))
			for k, v := range m.Metadata {
				if k == metadataTextKey {
					continue
				}
				md[k] = v
			}
			md[domain.MetadataScore] = m.Score
			doc.Metadata = md
		}
		docs = append(docs, doc)
	}

	slog.Debug("pinecone_query_completed",
		slog.Int("match_count", len(docs)),
		slog.Duration("elapsed", time.Since(start)))

	return docs, nil
}

var _ domain.VectorIndex = (*IndexClient)(nil)
