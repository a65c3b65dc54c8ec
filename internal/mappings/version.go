// Package mappings implements the mapping lifecycle domain. It persists
// mapping versions and their field rows, records confirmation audits, and
// drives the save, confirm, export, and publish operations.
package mappings

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"mapstudio/internal/suggestions"
)

// Status is the lifecycle state persisted on a mapping version.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
)

// Defaults applied when a command omits project or version codes.
const (
	DefaultProjectCode = "MAPPER_DEMO_PROJECT"
	DefaultVersionCode = "1.0.0"
)

// StateAwaitingConfirmation is the dialogue state that gates publication.
// Publish is skipped for any other state.
const StateAwaitingConfirmation = "AWAITING_CONFIRMATION"

// Version represents a stored mapping version.
type Version struct {
	ProjectCode  string          `json:"project_code"`
	VersionCode  string          `json:"version_code"`
	Status       Status          `json:"status"`
	TargetSchema json.RawMessage `json:"target_schema,omitempty"`
	ArtifactID   *uuid.UUID      `json:"artifact_id,omitempty"`
	PublishedAt  *time.Time      `json:"published_at,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// FieldRow is one persisted mapping row of a version.
type FieldRow struct {
	ID              uuid.UUID       `json:"id"`
	ProjectCode     string          `json:"project_code"`
	VersionCode     string          `json:"version_code"`
	SourcePath      string          `json:"source_path"`
	TargetPath      string          `json:"target_path"`
	TransformType   string          `json:"transform_type"`
	TransformConfig json.RawMessage `json:"transform_config,omitempty"`
	Confidence      float64         `json:"confidence"`
	Reasoning       string          `json:"reasoning"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ConfirmationAudit records a human confirmation of the current mapping set.
type ConfirmationAudit struct {
	ID            uuid.UUID       `json:"id"`
	ProjectCode   string          `json:"project_code"`
	VersionCode   string          `json:"version_code"`
	Confirmed     bool            `json:"confirmed"`
	ConfirmedBy   string          `json:"confirmed_by"`
	SelectedCount int             `json:"selected_count"`
	Snapshot      json.RawMessage `json:"mapping_snapshot,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EnsureCommand lazily creates the project and version pair.
type EnsureCommand struct {
	ProjectCode  string          `json:"project_code"`
	VersionCode  string          `json:"version_code"`
	ProjectName  string          `json:"project_name"`
	SourceType   string          `json:"source_type"`
	TargetSchema json.RawMessage `json:"target_schema,omitempty"`
	CreatedBy    string          `json:"created_by"`
}

// SaveCommand replaces the persisted mapping rows of a version with the
// selected rows of the given set.
type SaveCommand struct {
	ProjectCode string                   `json:"project_code"`
	VersionCode string                   `json:"version_code"`
	SourceType  string                   `json:"source_type"`
	Mappings    []suggestions.Suggestion `json:"mappings"`
}

// ConfirmCommand records a confirmation of the given mapping set.
type ConfirmCommand struct {
	ProjectCode string                   `json:"project_code"`
	VersionCode string                   `json:"version_code"`
	ConfirmedBy string                   `json:"confirmed_by"`
	Notes       string                   `json:"notes"`
	Mappings    []suggestions.Suggestion `json:"mappings"`
}

// ExportCommand assembles export rows for a confirmed mapping set.
type ExportCommand struct {
	ProjectCode string                   `json:"project_code"`
	VersionCode string                   `json:"version_code"`
	PathType    string                   `json:"path_type"`
	TargetType  string                   `json:"target_type"`
	Mappings    []suggestions.Suggestion `json:"mappings"`
}

// PublishRequest carries the dialogue state gating a publish call.
type PublishRequest struct {
	SessionState string `json:"session_state"`
}

// SaveResult reports the outcome of a save.
type SaveResult struct {
	ProjectCode string `json:"project_code"`
	VersionCode string `json:"version_code"`
	SavedCount  int    `json:"saved_count"`
	Status      Status `json:"status"`
}

// ConfirmResult reports the outcome of a confirmation.
type ConfirmResult struct {
	ProjectCode   string    `json:"project_code"`
	VersionCode   string    `json:"version_code"`
	SelectedCount int       `json:"selected_count"`
	ConfirmedBy   string    `json:"confirmed_by"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// PublishResult reports the outcome of a publish attempt. Skipped is true
// when the session state did not permit publication.
type PublishResult struct {
	ProjectCode string     `json:"project_code"`
	VersionCode string     `json:"version_code"`
	Skipped     bool       `json:"skipped"`
	Reason      string     `json:"reason,omitempty"`
	Status      Status     `json:"status,omitempty"`
	ArtifactID  *uuid.UUID `json:"artifact_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// NormalizeCodes applies the demo defaults to blank project and version codes.
func NormalizeCodes(projectCode, versionCode string) (string, string) {
	if strings.TrimSpace(projectCode) == "" {
		projectCode = DefaultProjectCode
	}
	if strings.TrimSpace(versionCode) == "" {
		versionCode = DefaultVersionCode
	}
	return projectCode, versionCode
}
