// Package export assembles the confirmed mapping set into structured export
// rows: a primary section covering selected mappings, a detail section
// covering every mapping, and a run summary. Rendering the rows into a file
// format is left to callers.
package export

import (
	"time"

	"mapstudio/internal/suggestions"
)

// Request carries everything needed to assemble an export artifact.
type Request struct {
	ProjectCode string                   `json:"project_code"`
	VersionCode string                   `json:"version_code"`
	PathType    PathType                 `json:"path_type"`
	TargetType  string                   `json:"target_type"`
	Mappings    []suggestions.Suggestion `json:"mappings"`
}

// PrimaryRow is one selected mapping rendered for the primary section.
type PrimaryRow struct {
	TargetLeaf    string   `json:"target_leaf"`
	TargetPath    string   `json:"target_path"`
	FormattedPath string   `json:"formatted_path"`
	SourcePath    string   `json:"source_path"`
	PathType      PathType `json:"path_type"`
}

// DetailRow is one mapping rendered for the full detail section.
type DetailRow struct {
	SourcePath    string  `json:"source_path"`
	TargetPath    string  `json:"target_path"`
	TransformType string  `json:"transform_type"`
	Confidence    float64 `json:"confidence"`
	Selected      string  `json:"selected"`
	Origin        string  `json:"origin"`
	Reason        string  `json:"reason"`
	Notes         string  `json:"notes,omitempty"`
}

// Summary describes the export run.
type Summary struct {
	ProjectCode   string    `json:"project_code"`
	VersionCode   string    `json:"version_code"`
	TargetType    string    `json:"target_type"`
	PathType      PathType  `json:"path_type"`
	ExportedAt    time.Time `json:"exported_at"`
	TotalCount    int       `json:"total_count"`
	SelectedCount int       `json:"selected_count"`
}

// Artifact is the assembled export payload.
type Artifact struct {
	Primary  []PrimaryRow `json:"primary"`
	Mappings []DetailRow  `json:"mappings"`
	Summary  Summary      `json:"summary"`
}

// Build assembles an Artifact from the request. Selected mappings populate
// the primary section; every mapping appears in the detail section.
func Build(req Request, exportedAt time.Time) *Artifact {
	pathType := ResolvePathType(string(req.PathType), req.TargetType)

	primary := make([]PrimaryRow, 0, len(req.Mappings))
	details := make([]DetailRow, 0, len(req.Mappings))
	selected := 0

	for _, m := range req.Mappings {
		flag := "N"
		if m.Selected {
			flag = "Y"
			selected++
			primary = append(primary, PrimaryRow{
				TargetLeaf:    Leaf(m.TargetPath),
				TargetPath:    m.TargetPath,
				FormattedPath: pathType.Format(m.TargetPath),
				SourcePath:    m.SourcePath,
				PathType:      pathType,
			})
		}

		details = append(details, DetailRow{
			SourcePath:    m.SourcePath,
			TargetPath:    m.TargetPath,
			TransformType: m.TransformType,
			Confidence:    m.Confidence,
			Selected:      flag,
			Origin:        suggestions.ResolveOrigin(m.Origin, m.ManualOverride),
			Reason:        m.Reason,
			Notes:         m.Notes,
		})
	}

	return &Artifact{
		Primary:  primary,
		Mappings: details,
		Summary: Summary{
			ProjectCode:   req.ProjectCode,
			VersionCode:   req.VersionCode,
			TargetType:    req.TargetType,
			PathType:      pathType,
			ExportedAt:    exportedAt,
			TotalCount:    len(req.Mappings),
			SelectedCount: selected,
		},
	}
}
