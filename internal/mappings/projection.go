package mappings

import (
	"net/url"

	"mapstudio/pkg/query"
	"mapstudio/pkg/repository"
)

var versionProjection = query.
	NewProjectionMap("public", "mapping_version", "v").
	Project("project_code", "ProjectCode").
	Project("version_code", "VersionCode").
	Project("status", "Status").
	Project("target_schema_json", "TargetSchema").
	Project("artifact_id", "ArtifactID").
	Project("published_at", "PublishedAt").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt")

var fieldProjection = query.
	NewProjectionMap("public", "mapping_field", "f").
	Project("id", "ID").
	Project("project_code", "ProjectCode").
	Project("version_code", "VersionCode").
	Project("source_path", "SourcePath").
	Project("target_path", "TargetPath").
	Project("transform_type", "TransformType").
	Project("transform_config", "TransformConfig").
	Project("confidence", "Confidence").
	Project("reasoning", "Reasoning").
	Project("created_at", "CreatedAt")

var auditProjection = query.
	NewProjectionMap("public", "mapping_confirm_audit", "a").
	Project("id", "ID").
	Project("project_code", "ProjectCode").
	Project("version_code", "VersionCode").
	Project("confirmed", "Confirmed").
	Project("confirmed_by", "ConfirmedBy").
	Project("selected_count", "SelectedCount").
	Project("mapping_snapshot", "Snapshot").
	Project("notes", "Notes").
	Project("created_at", "CreatedAt")

var fieldDefaultSort = query.SortField{
	Field: "TargetPath",
}

var auditDefaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for mapping field queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	TransformType *string `json:"transform_type,omitempty"`
	TargetPath    *string `json:"target_path,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("TransformType", f.TransformType).
		WhereEquals("TargetPath", f.TargetPath)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("transform_type"); t != "" {
		f.TransformType = &t
	}

	if t := values.Get("target_path"); t != "" {
		f.TargetPath = &t
	}

	return f
}

func scanVersion(s repository.Scanner) (Version, error) {
	var v Version
	var schemaRaw []byte

	err := s.Scan(
		&v.ProjectCode,
		&v.VersionCode,
		&v.Status,
		&schemaRaw,
		&v.ArtifactID,
		&v.PublishedAt,
		&v.CreatedBy,
		&v.CreatedAt,
	)

	if err != nil {
		return v, err
	}

	if len(schemaRaw) > 0 {
		v.TargetSchema = schemaRaw
	}

	return v, nil
}

func scanFieldRow(s repository.Scanner) (FieldRow, error) {
	var f FieldRow
	var configRaw []byte

	err := s.Scan(
		&f.ID,
		&f.ProjectCode,
		&f.VersionCode,
		&f.SourcePath,
		&f.TargetPath,
		&f.TransformType,
		&configRaw,
		&f.Confidence,
		&f.Reasoning,
		&f.CreatedAt,
	)

	if err != nil {
		return f, err
	}

	if len(configRaw) > 0 {
		f.TransformConfig = configRaw
	}

	return f, nil
}

func scanAudit(s repository.Scanner) (ConfirmationAudit, error) {
	var a ConfirmationAudit
	var snapshotRaw []byte

	err := s.Scan(
		&a.ID,
		&a.ProjectCode,
		&a.VersionCode,
		&a.Confirmed,
		&a.ConfirmedBy,
		&a.SelectedCount,
		&snapshotRaw,
		&a.Notes,
		&a.CreatedAt,
	)

	if err != nil {
		return a, err
	}

	if len(snapshotRaw) > 0 {
		a.Snapshot = snapshotRaw
	}

	return a, nil
}
