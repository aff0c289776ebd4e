package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"cisnr-assistant/internal/domain"
)

type pgvectorIndex struct {
	pool *pgxpool.Pool
}

// NewPgvectorIndex creates a VectorIndex over a pre-populated
// documents table (content text, metadata jsonb, embedding vector).
// Index build and refresh happen outside this service.
func NewPgvectorIndex(pool *pgxpool.Pool) domain.VectorIndex {
	return &pgvectorIndex{pool: pool}
}

func (r *pgvectorIndex) Search(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]domain.Document, error) {
	query := `
		SELECT content, metadata, 1 - (embedding <=> $1) AS score
		FROM documents
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var (
			content  string
			metadata map[string]any
			score    float64
		)
		if err := rows.Scan(&content, &metadata, &score); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc := domain.Document{Content: content}
		if includeMetadata {
			if metadata == nil {
				metadata = make(map[string]any, 1)
			}
			metadata[domain.MetadataScore] = score
			doc.Metadata = metadata
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return docs, nil
}
