package domain

import "context"

// Generator defines the capability to turn a rendered prompt into
// answer text via a hosted chat-completion model.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error)
	Model() string
}
