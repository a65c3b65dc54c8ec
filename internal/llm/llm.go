// Package llm defines the narrow capability interfaces the suggestion
// resolver consumes, plus the Gemini-backed implementation wired at the
// integration boundary. Keeping the interfaces this small lets the resolver
// stay deterministic and unit-testable with stub implementations.
package llm

import (
	"context"

	"google.golang.org/genai"
)

// Generator produces JSON text constrained to a response schema.
type Generator interface {
	// GenerateJSON sends hint as the system instruction and contextJSON as
	// the user content, requesting output that conforms to schema.
	GenerateJSON(ctx context.Context, hint string, schema *genai.Schema, contextJSON string) (string, error)
}

// Embedder produces a fixed-length embedding vector for a text.
// An empty vector signals "unavailable" and compares as similarity 0.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
