// Package studio implements the conversation-driven mapping workflow: parse
// the source and target schemas held in a session, resolve suggestions,
// validate the current mapping set, and drive the lifecycle operations with
// the session's dialogue state.
package studio

import (
	"mapstudio/internal/fields"
	"mapstudio/internal/suggestions"
)

// ParseRequest carries schema text and settings to merge into the session
// before parsing. Blank fields leave existing session values untouched.
type ParseRequest struct {
	SourceSpec       string            `json:"source_spec,omitempty"`
	TargetSchema     string            `json:"target_schema,omitempty"`
	TargetSchemaJSON string            `json:"target_schema_json,omitempty"`
	TargetXSD        string            `json:"target_xsd,omitempty"`
	TargetWSDL       string            `json:"target_wsdl,omitempty"`
	TargetXSDName    string            `json:"target_xsd_name,omitempty"`
	TargetWSDLName   string            `json:"target_wsdl_name,omitempty"`
	Artifacts        []fields.Artifact `json:"artifacts,omitempty"`
	ProjectCode      string            `json:"project_code,omitempty"`
	VersionCode      string            `json:"version_code,omitempty"`
	SourceType       string            `json:"source_type,omitempty"`
	TargetType       string            `json:"target_type,omitempty"`
	PathType         string            `json:"path_type,omitempty"`
}

// ParseResult reports the parsed field lists and resolved settings.
type ParseResult struct {
	ConversationID string            `json:"conversation_id"`
	ProjectCode    string            `json:"project_code"`
	VersionCode    string            `json:"version_code"`
	SourceType     string            `json:"source_type"`
	TargetType     fields.TargetType `json:"target_type"`
	SourceFields   []fields.Field    `json:"source_fields"`
	TargetFields   []fields.Field    `json:"target_fields"`
}

// SuggestResult reports the resolved suggestions.
type SuggestResult struct {
	ConversationID string                   `json:"conversation_id"`
	Suggestions    []suggestions.Suggestion `json:"suggestions"`
}

// TypeMismatch describes a mapping whose source and target field types differ.
type TypeMismatch struct {
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
	SourceType string `json:"source_type"`
	TargetType string `json:"target_type"`
}

// ValidationReport is the static validation of the session's mapping set
// against the parsed target fields.
type ValidationReport struct {
	ConversationID   string         `json:"conversation_id"`
	MissingRequired  []string       `json:"missing_required"`
	TypeMismatches   []TypeMismatch `json:"type_mismatches"`
	DuplicateTargets []string       `json:"duplicate_targets"`
	ReadyToPublish   bool           `json:"ready_to_publish"`
}

// SessionView is the observable state of a conversation.
type SessionView struct {
	ConversationID string         `json:"conversation_id"`
	State          string         `json:"state"`
	Values         map[string]any `json:"values"`
}

// MappingSet carries an edited mapping selection for save, confirm, and
// export. A nil Mappings slice falls back to the session's current set.
type MappingSet struct {
	Mappings    []suggestions.Suggestion `json:"mappings,omitempty"`
	ConfirmedBy string                   `json:"confirmed_by,omitempty"`
	Notes       string                   `json:"notes,omitempty"`
	PathType    string                   `json:"path_type,omitempty"`
}
