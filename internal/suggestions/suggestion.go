// Package suggestions implements the three-tier correspondence resolver.
// Tier 1 is a deterministic lexical matcher, Tier 2 an LLM-assisted matcher
// used only when Tier 1 finds nothing, and Tier 3 an embedding-similarity
// gap-filler that always runs to cover target fields the earlier tiers
// missed.
package suggestions

import (
	"math"
	"strings"
)

// Mapping origins recorded on persisted and exported rows.
const (
	OriginLLMDerived = "LLM_DERIVED"
	OriginEdited     = "EDITED"
)

// DefaultTransformType is applied when a suggestion needs no transformation.
const DefaultTransformType = "DIRECT"

// Suggestion is a proposed source-to-target field pairing. Within one
// resolver pass a source path appears in at most one suggestion.
type Suggestion struct {
	SourcePath     string  `json:"source_path"`
	TargetPath     string  `json:"target_path"`
	Confidence     float64 `json:"confidence"`
	TransformType  string  `json:"transform_type"`
	Reason         string  `json:"reason"`
	Origin         string  `json:"origin,omitempty"`
	Selected       bool    `json:"selected,omitempty"`
	ManualOverride bool    `json:"manual_override,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	ArtifactName   string  `json:"artifact_name,omitempty"`
	ArtifactType   string  `json:"artifact_type,omitempty"`
}

// ResolveOrigin normalizes a raw origin value: an explicit origin wins,
// otherwise manual overrides resolve to EDITED and everything else to
// LLM_DERIVED.
func ResolveOrigin(raw string, manualOverride bool) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	if manualOverride {
		return OriginEdited
	}
	return OriginLLMDerived
}

func clamp(value, low, high float64) float64 {
	return math.Min(high, math.Max(low, value))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
