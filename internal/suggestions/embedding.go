package suggestions

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"mapstudio/internal/fields"
)

const (
	embeddingRequiredThreshold = 0.25
	embeddingOptionalThreshold = 0.40
)

// fillWithEmbeddings covers target fields that earlier tiers left unmapped.
// Each remaining target is matched against the not-yet-used source fields by
// cosine similarity over text embeddings. Required targets accept a lower
// similarity than optional ones. Embedding failures degrade to an empty
// vector, which never matches.
func (r *Resolver) fillWithEmbeddings(ctx context.Context, existing []Suggestion, source, target []fields.Field) []Suggestion {
	if r.embedder == nil || len(source) == 0 || len(target) == 0 {
		return existing
	}

	covered := make(map[string]bool, len(existing))
	used := make(map[string]bool, len(existing))
	for _, s := range existing {
		covered[s.TargetPath] = true
		used[s.SourcePath] = true
	}

	var open []fields.Field
	for _, t := range target {
		if !covered[t.Path] {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return existing
	}

	var free []fields.Field
	for _, s := range source {
		if !used[s.Path] {
			free = append(free, s)
		}
	}
	if len(free) == 0 {
		return existing
	}

	vectors := r.embedSources(ctx, free)

	out := existing
	for _, t := range open {
		targetVector, err := r.embedder.Embed(ctx, embedText(t))
		if err != nil {
			r.logger.Warn("target embedding failed", "path", t.Path, "error", err)
			targetVector = nil
		}

		bestIndex := -1
		bestScore := 0.0
		for i, s := range free {
			if used[s.Path] {
				continue
			}
			score := cosine(targetVector, vectors[i])
			if score > bestScore {
				bestScore = score
				bestIndex = i
			}
		}
		if bestIndex < 0 {
			continue
		}

		threshold := embeddingOptionalThreshold
		if t.Required {
			threshold = embeddingRequiredThreshold
		}
		if bestScore < threshold {
			continue
		}

		match := free[bestIndex]
		used[match.Path] = true
		out = append(out, Suggestion{
			SourcePath:    match.Path,
			TargetPath:    t.Path,
			Confidence:    round2(clamp(bestScore, 0.55, 0.95)),
			TransformType: DefaultTransformType,
			Reason:        "Semantic similarity (embedding)",
			ArtifactName:  t.ArtifactName,
			ArtifactType:  t.ArtifactType,
		})
	}
	return out
}

// embedSources embeds the unused source fields concurrently. A failed field
// keeps a nil vector so later similarity checks score it as zero.
func (r *Resolver) embedSources(ctx context.Context, free []fields.Field) [][]float32 {
	vectors := make([][]float32, len(free))

	limit := min(runtime.NumCPU(), len(free))
	if limit < 1 {
		limit = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for i, s := range free {
		group.Go(func() error {
			vector, err := r.embedder.Embed(groupCtx, embedText(s))
			if err != nil {
				r.logger.Warn("source embedding failed", "path", s.Path, "error", err)
				return nil
			}
			vectors[i] = vector
			return nil
		})
	}
	group.Wait()

	return vectors
}

func embedText(f fields.Field) string {
	return "path: " + f.Path + ", type: " + f.Type + ", description: " + f.Description
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
