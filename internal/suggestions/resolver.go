package suggestions

import (
	"context"
	"log/slog"

	"mapstudio/internal/fields"
	"mapstudio/internal/llm"
)

// Resolver produces source-to-target suggestions from two field lists.
// External capability failures degrade individual tiers, never the pass.
type Resolver struct {
	generator llm.Generator
	embedder  llm.Embedder
	logger    *slog.Logger
}

// NewResolver creates a Resolver over the given capabilities.
func NewResolver(generator llm.Generator, embedder llm.Embedder, logger *slog.Logger) *Resolver {
	return &Resolver{
		generator: generator,
		embedder:  embedder,
		logger:    logger.With("system", "resolver"),
	}
}

// Resolve runs the three tiers in sequence. Tier 2 only runs when Tier 1
// produced nothing; Tier 3 always runs to cover remaining target fields.
// When the combined output is still empty, Tier 1 re-runs as the final
// fallback so the result is non-empty whenever any tokens are shared.
func (r *Resolver) Resolve(ctx context.Context, source, target []fields.Field) []Suggestion {
	out := lexicalMatch(source, target)
	if len(out) == 0 {
		out = r.aiAssisted(ctx, source, target)
	}

	out = r.fillWithEmbeddings(ctx, out, source, target)

	if len(out) == 0 {
		out = lexicalMatch(source, target)
	}

	r.logger.Info("resolution complete",
		"source_fields", len(source),
		"target_fields", len(target),
		"suggestions", len(out),
	)
	return out
}
