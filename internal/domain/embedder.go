package domain

import "context"

// Embedder defines the capability to map text to a fixed-dimension
// semantic vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}
