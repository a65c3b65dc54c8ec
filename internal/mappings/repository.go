package mappings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mapstudio/internal/export"
	"mapstudio/internal/suggestions"
	"mapstudio/pkg/pagination"
	"mapstudio/pkg/query"
	"mapstudio/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a mapping repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "mappings"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// ensureTx lazily creates the project and version rows. Existing rows are
// left untouched.
func ensureTx(ctx context.Context, tx *sql.Tx, cmd EnsureCommand) error {
	projectName := strings.TrimSpace(cmd.ProjectName)
	if projectName == "" {
		projectName = cmd.ProjectCode
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO mapping_project (project_code, project_name, source_type, created_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_code) DO NOTHING`,
		cmd.ProjectCode, projectName, cmd.SourceType, cmd.CreatedBy,
	); err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}

	var schema any
	if len(cmd.TargetSchema) > 0 {
		schema = []byte(cmd.TargetSchema)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO mapping_version (project_code, version_code, status, target_schema_json, created_by)
		VALUES ($1, $2, 'DRAFT', $3, $4)
		ON CONFLICT (project_code, version_code) DO NOTHING`,
		cmd.ProjectCode, cmd.VersionCode, schema, cmd.CreatedBy,
	); err != nil {
		return fmt.Errorf("upsert version: %w", err)
	}

	return nil
}

func (r *repo) EnsureVersion(ctx context.Context, cmd EnsureCommand) (*Version, error) {
	cmd.ProjectCode, cmd.VersionCode = NormalizeCodes(cmd.ProjectCode, cmd.VersionCode)

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, ensureTx(ctx, tx, cmd)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return r.Find(ctx, cmd.ProjectCode, cmd.VersionCode)
}

// Save replaces the persisted mapping rows of a version in one transaction:
// the project and version are created lazily, existing field rows and the
// confirmation audit are cleared, and the selected non-blank rows are
// inserted. Saving always returns the version to DRAFT semantics.
func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*SaveResult, error) {
	cmd.ProjectCode, cmd.VersionCode = NormalizeCodes(cmd.ProjectCode, cmd.VersionCode)

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		ensure := EnsureCommand{
			ProjectCode: cmd.ProjectCode,
			VersionCode: cmd.VersionCode,
			SourceType:  cmd.SourceType,
		}
		if err := ensureTx(ctx, tx, ensure); err != nil {
			return 0, err
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM mapping_field WHERE project_code = $1 AND version_code = $2",
			cmd.ProjectCode, cmd.VersionCode,
		); err != nil {
			return 0, fmt.Errorf("clear mapping fields: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM mapping_confirm_audit WHERE project_code = $1 AND version_code = $2",
			cmd.ProjectCode, cmd.VersionCode,
		); err != nil {
			return 0, fmt.Errorf("clear confirmation audit: %w", err)
		}

		count := 0
		for _, m := range cmd.Mappings {
			if !m.Selected {
				continue
			}
			if strings.TrimSpace(m.SourcePath) == "" || strings.TrimSpace(m.TargetPath) == "" {
				continue
			}

			config, err := json.Marshal(map[string]any{
				"selected":        m.Selected,
				"manual_override": m.ManualOverride,
				"mapping_origin":  suggestions.ResolveOrigin(m.Origin, m.ManualOverride),
				"artifact_name":   m.ArtifactName,
				"artifact_type":   m.ArtifactType,
			})
			if err != nil {
				return 0, fmt.Errorf("marshal transform config: %w", err)
			}

			transformType := strings.TrimSpace(m.TransformType)
			if transformType == "" {
				transformType = suggestions.DefaultTransformType
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO mapping_field (
					id, project_code, version_code, source_path, target_path,
					transform_type, transform_config, confidence, reasoning
				)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				uuid.New(), cmd.ProjectCode, cmd.VersionCode, m.SourcePath, m.TargetPath,
				transformType, config, m.Confidence, m.Reason,
			); err != nil {
				return 0, fmt.Errorf("insert mapping field: %w", err)
			}
			count++
		}

		return count, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("mappings saved",
		"project_code", cmd.ProjectCode,
		"version_code", cmd.VersionCode,
		"saved", saved,
	)
	return &SaveResult{
		ProjectCode: cmd.ProjectCode,
		VersionCode: cmd.VersionCode,
		SavedCount:  saved,
		Status:      StatusDraft,
	}, nil
}

// Confirm records a human confirmation of the given mapping set. At least
// one mapping must be selected.
func (r *repo) Confirm(ctx context.Context, cmd ConfirmCommand) (*ConfirmResult, error) {
	cmd.ProjectCode, cmd.VersionCode = NormalizeCodes(cmd.ProjectCode, cmd.VersionCode)

	selected := 0
	for _, m := range cmd.Mappings {
		if m.Selected {
			selected++
		}
	}
	if selected == 0 {
		return nil, ErrNoSelection
	}

	snapshot, err := json.Marshal(cmd.Mappings)
	if err != nil {
		return nil, fmt.Errorf("marshal mapping snapshot: %w", err)
	}

	confirmedBy := strings.TrimSpace(cmd.ConfirmedBy)
	if confirmedBy == "" {
		confirmedBy = "user"
	}

	insertQ := `
		INSERT INTO mapping_confirm_audit (
			id, project_code, version_code, confirmed, confirmed_by,
			selected_count, mapping_snapshot, notes
		)
		VALUES ($1, $2, $3, TRUE, $4, $5, $6, $7)
		RETURNING created_at`

	insertArgs := []any{
		uuid.New(), cmd.ProjectCode, cmd.VersionCode, confirmedBy,
		selected, snapshot, cmd.Notes,
	}

	confirmedAt, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (time.Time, error) {
		return repository.QueryOne(ctx, tx, insertQ, insertArgs,
			func(s repository.Scanner) (time.Time, error) {
				var at time.Time
				err := s.Scan(&at)
				return at, err
			})
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("mappings confirmed",
		"project_code", cmd.ProjectCode,
		"version_code", cmd.VersionCode,
		"selected", selected,
		"confirmed_by", confirmedBy,
	)
	return &ConfirmResult{
		ProjectCode:   cmd.ProjectCode,
		VersionCode:   cmd.VersionCode,
		SelectedCount: selected,
		ConfirmedBy:   confirmedBy,
		ConfirmedAt:   confirmedAt,
	}, nil
}

// Export assembles export rows for the given mapping set. An active
// confirmation audit is a precondition.
func (r *repo) Export(ctx context.Context, cmd ExportCommand) (*export.Artifact, error) {
	cmd.ProjectCode, cmd.VersionCode = NormalizeCodes(cmd.ProjectCode, cmd.VersionCode)

	audit, err := r.Confirmation(ctx, cmd.ProjectCode, cmd.VersionCode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrConfirmationRequired
		}
		return nil, err
	}
	if !audit.Confirmed {
		return nil, ErrConfirmationRequired
	}

	artifact := export.Build(export.Request{
		ProjectCode: cmd.ProjectCode,
		VersionCode: cmd.VersionCode,
		PathType:    export.PathType(cmd.PathType),
		TargetType:  cmd.TargetType,
		Mappings:    cmd.Mappings,
	}, time.Now().UTC())

	r.logger.Info("mappings exported",
		"project_code", cmd.ProjectCode,
		"version_code", cmd.VersionCode,
		"rows", artifact.Summary.TotalCount,
		"selected", artifact.Summary.SelectedCount,
	)
	return artifact, nil
}

// Publish stamps the version PUBLISHED with a generated artifact id. The
// call is skipped unless the dialogue state is AWAITING_CONFIRMATION.
func (r *repo) Publish(ctx context.Context, projectCode, versionCode, sessionState string) (*PublishResult, error) {
	projectCode, versionCode = NormalizeCodes(projectCode, versionCode)

	if sessionState != StateAwaitingConfirmation {
		r.logger.Info("publish skipped",
			"project_code", projectCode,
			"version_code", versionCode,
			"state", sessionState,
		)
		return &PublishResult{
			ProjectCode: projectCode,
			VersionCode: versionCode,
			Skipped:     true,
			Reason:      "session is not awaiting confirmation",
		}, nil
	}

	publishQ := `
		UPDATE mapping_version
		SET status = 'PUBLISHED', artifact_id = $1, published_at = NOW()
		WHERE project_code = $2 AND version_code = $3
		RETURNING project_code, version_code, status, target_schema_json,
				  artifact_id, published_at, created_by, created_at`

	artifactID := uuid.New()

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Version, error) {
		return repository.QueryOne(ctx, tx, publishQ,
			[]any{artifactID, projectCode, versionCode},
			scanVersion,
		)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("mapping version published",
		"project_code", v.ProjectCode,
		"version_code", v.VersionCode,
		"artifact_id", artifactID,
	)
	return &PublishResult{
		ProjectCode: v.ProjectCode,
		VersionCode: v.VersionCode,
		Status:      v.Status,
		ArtifactID:  v.ArtifactID,
		PublishedAt: v.PublishedAt,
	}, nil
}

func (r *repo) Find(ctx context.Context, projectCode, versionCode string) (*Version, error) {
	projectCode, versionCode = NormalizeCodes(projectCode, versionCode)

	q, args := query.NewBuilder(versionProjection).
		WhereEquals("ProjectCode", &projectCode).
		WhereEquals("VersionCode", &versionCode).
		BuildSingleOrNull()

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVersion)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) ListFields(
	ctx context.Context,
	projectCode, versionCode string,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[FieldRow], error) {
	projectCode, versionCode = NormalizeCodes(projectCode, versionCode)
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(fieldProjection, fieldDefaultSort).
		WhereEquals("ProjectCode", &projectCode).
		WhereEquals("VersionCode", &versionCode).
		WhereSearch(page.Search, "SourcePath", "TargetPath")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count mapping fields: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanFieldRow)
	if err != nil {
		return nil, fmt.Errorf("query mapping fields: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// Confirmation returns the most recent confirmation audit for a version.
func (r *repo) Confirmation(ctx context.Context, projectCode, versionCode string) (*ConfirmationAudit, error) {
	projectCode, versionCode = NormalizeCodes(projectCode, versionCode)

	q, args := query.
		NewBuilder(auditProjection, auditDefaultSort).
		WhereEquals("ProjectCode", &projectCode).
		WhereEquals("VersionCode", &versionCode).
		BuildPage(1, 1)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanAudit)
	if err != nil {
		return nil, fmt.Errorf("query confirmation audit: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}
