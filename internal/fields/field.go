// Package fields implements the canonical field model for Mapping Studio.
// It flattens raw source documents (JSON or XML instances) and parses target
// schemas (JSON Schema, XSD, XSD+WSDL) into ordered lists of leaf field
// descriptors that the suggestion resolver consumes.
package fields

// Semantic field types shared by source and target descriptors.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// Field describes one leaf value location in a source document or target
// schema. Path is unique within its list. Required is meaningful for target
// fields only. ArtifactName and ArtifactType identify the originating
// document when the target is assembled from multiple XSD/WSDL artifacts.
type Field struct {
	Path         string `json:"path"`
	Type         string `json:"type"`
	Required     bool   `json:"required,omitempty"`
	ArtifactName string `json:"artifact_name,omitempty"`
	ArtifactType string `json:"artifact_type,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Artifact is one named schema document supplied for multi-artifact targets.
type Artifact struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Paths returns the path of every field, preserving order.
func Paths(list []Field) []string {
	out := make([]string, len(list))
	for i, f := range list {
		out[i] = f.Path
	}
	return out
}
