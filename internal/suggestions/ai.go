package suggestions

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"mapstudio/internal/fields"
	"mapstudio/pkg/formatting"
)

const aiMatchHint = `Generate source-to-target mapping suggestions.
Return top matches for target fields based on semantics and field intent.
Use DIRECT transform when no transformation is needed.
Prefer covering all required target fields first.`

const aiMatchInstructions = "Map each target path to the most appropriate source path. " +
	"Confidence should be between 0 and 1. Ensure required target fields are not skipped."

// aiResponseSchema constrains the model output to a suggestions array.
var aiResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"source_path":    {Type: genai.TypeString},
					"target_path":    {Type: genai.TypeString},
					"confidence":     {Type: genai.TypeNumber},
					"transform_type": {Type: genai.TypeString},
					"reason":         {Type: genai.TypeString},
				},
				Required: []string{"source_path", "target_path", "confidence", "transform_type", "reason"},
			},
		},
	},
	Required: []string{"suggestions"},
}

type aiResponse struct {
	Suggestions []aiSuggestion `json:"suggestions"`
}

type aiSuggestion struct {
	SourcePath    string  `json:"source_path"`
	TargetPath    string  `json:"target_path"`
	Confidence    float64 `json:"confidence"`
	TransformType string  `json:"transform_type"`
	Reason        string  `json:"reason"`
}

// aiAssisted asks the text-generation capability for structured suggestions.
// Returned items referencing unknown paths are dropped; confidence is clamped
// to [0,1]. Any call or parse failure degrades to an empty result.
func (r *Resolver) aiAssisted(ctx context.Context, source, target []fields.Field) []Suggestion {
	if r.generator == nil || len(source) == 0 || len(target) == 0 {
		return []Suggestion{}
	}

	contextJSON, err := json.Marshal(map[string]any{
		"source_fields": source,
		"target_fields": target,
		"instructions":  aiMatchInstructions,
	})
	if err != nil {
		r.logger.Warn("ai tier context marshal failed", "error", err)
		return []Suggestion{}
	}

	raw, err := r.generator.GenerateJSON(ctx, aiMatchHint, aiResponseSchema, string(contextJSON))
	if err != nil {
		r.logger.Warn("ai tier call failed", "error", err)
		return []Suggestion{}
	}

	parsed, err := formatting.Parse[aiResponse](raw)
	if err != nil {
		r.logger.Warn("ai tier response parse failed", "error", err)
		return []Suggestion{}
	}

	allowedSources := make(map[string]bool, len(source))
	for _, s := range source {
		if strings.TrimSpace(s.Path) != "" {
			allowedSources[s.Path] = true
		}
	}
	targetByPath := make(map[string]fields.Field, len(target))
	for _, t := range target {
		path := strings.TrimSpace(t.Path)
		if path == "" {
			continue
		}
		if _, ok := targetByPath[path]; !ok {
			targetByPath[path] = t
		}
	}

	out := make([]Suggestion, 0, len(parsed.Suggestions))
	for _, item := range parsed.Suggestions {
		sourcePath := strings.TrimSpace(item.SourcePath)
		targetPath := strings.TrimSpace(item.TargetPath)

		meta, knownTarget := targetByPath[targetPath]
		if !allowedSources[sourcePath] || !knownTarget {
			continue
		}

		transformType := strings.TrimSpace(item.TransformType)
		if transformType == "" {
			transformType = DefaultTransformType
		}
		reason := strings.TrimSpace(item.Reason)
		if reason == "" {
			reason = "AI semantic mapping"
		}

		out = append(out, Suggestion{
			SourcePath:    sourcePath,
			TargetPath:    targetPath,
			Confidence:    round2(clamp(item.Confidence, 0, 1)),
			TransformType: transformType,
			Reason:        reason,
			ArtifactName:  meta.ArtifactName,
			ArtifactType:  meta.ArtifactType,
		})
	}
	return out
}
