package domain

import "context"

// VectorIndex answers nearest-neighbor queries against a pre-built
// document index. Results are ordered by similarity, descending; the
// caller must not re-sort them. When includeMetadata is true each
// Document carries its stored metadata plus the match score under
// MetadataScore.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]Document, error)
}
