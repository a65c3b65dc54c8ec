package suggestions

import (
	"regexp"
	"strings"

	"mapstudio/internal/fields"
)

const (
	lexicalAcceptThreshold = 0.35
	leafMatchBonus         = 0.35
)

var (
	tokenSeparators = regexp.MustCompile(`[.\[\]_\- ]+`)
	camelBoundary   = regexp.MustCompile(`([a-z])([A-Z])`)
	arrayIndex      = regexp.MustCompile(`\[[0-9]+\]`)
)

type lexicalMatchCandidate struct {
	sourcePath string
	score      float64
	reason     string
}

// lexicalMatch pairs each target field, in schema order, with its
// best-scoring unused source field. A source field is claimed by at most one
// target (one-to-one); claims happen in a single sequential pass so the
// iteration order is the deterministic tie-break.
func lexicalMatch(source, target []fields.Field) []Suggestion {
	if len(source) == 0 || len(target) == 0 {
		return []Suggestion{}
	}

	out := make([]Suggestion, 0)
	used := make(map[string]bool)

	for _, t := range target {
		if strings.TrimSpace(t.Path) == "" {
			continue
		}

		var best *lexicalMatchCandidate
		for _, s := range source {
			if strings.TrimSpace(s.Path) == "" || used[s.Path] {
				continue
			}
			candidate := scorePair(s.Path, t.Path)
			if best == nil || candidate.score > best.score {
				best = &candidate
			}
		}

		if best == nil || best.score < lexicalAcceptThreshold {
			continue
		}

		used[best.sourcePath] = true
		confidence := clamp(0.50+best.score*0.45, 0.60, 0.95)

		out = append(out, Suggestion{
			SourcePath:    best.sourcePath,
			TargetPath:    t.Path,
			Confidence:    round2(confidence),
			TransformType: DefaultTransformType,
			Reason:        best.reason,
			ArtifactName:  t.ArtifactName,
			ArtifactType:  t.ArtifactType,
		})
	}

	return out
}

// scorePair combines token overlap relative to the target's token count with
// a bonus for a case-insensitive leaf segment match.
func scorePair(sourcePath, targetPath string) lexicalMatchCandidate {
	sourceTokens := normalizeTokens(sourcePath)
	targetTokens := normalizeTokens(targetPath)
	if len(sourceTokens) == 0 || len(targetTokens) == 0 {
		return lexicalMatchCandidate{
			sourcePath: sourcePath,
			reason:     "Low semantic similarity",
		}
	}

	overlap := 0
	for token := range sourceTokens {
		if targetTokens[token] {
			overlap++
		}
	}
	overlapScore := float64(overlap) / float64(max(1, len(targetTokens)))

	score := overlapScore
	reason := "Semantic and description similarity"
	if leaf(sourcePath) == leaf(targetPath) {
		score += leafMatchBonus
		reason = "Field name and type exact match"
	}

	return lexicalMatchCandidate{
		sourcePath: sourcePath,
		score:      score,
		reason:     reason,
	}
}

// normalizeTokens lowercases a path and splits it on separators and
// camelCase boundaries into a token set.
func normalizeTokens(path string) map[string]bool {
	out := make(map[string]bool)
	for _, segment := range tokenSeparators.Split(path, -1) {
		if segment == "" {
			continue
		}
		spaced := camelBoundary.ReplaceAllString(segment, "$1 $2")
		for _, part := range strings.Fields(strings.ToLower(spaced)) {
			out[part] = true
		}
	}
	return out
}

// leaf returns the lowercased final path segment with array indices removed.
func leaf(path string) string {
	normalized := arrayIndex.ReplaceAllString(path, "")
	if i := strings.LastIndex(normalized, "."); i >= 0 {
		normalized = normalized[i+1:]
	}
	return strings.ToLower(normalized)
}
