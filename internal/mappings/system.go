package mappings

import (
	"context"

	"mapstudio/internal/export"
	"mapstudio/pkg/pagination"
)

// System defines the public contract for mapping lifecycle operations.
type System interface {
	Handler() *Handler

	EnsureVersion(ctx context.Context, cmd EnsureCommand) (*Version, error)
	Save(ctx context.Context, cmd SaveCommand) (*SaveResult, error)
	Confirm(ctx context.Context, cmd ConfirmCommand) (*ConfirmResult, error)
	Export(ctx context.Context, cmd ExportCommand) (*export.Artifact, error)
	Publish(ctx context.Context, projectCode, versionCode, sessionState string) (*PublishResult, error)

	Find(ctx context.Context, projectCode, versionCode string) (*Version, error)
	ListFields(
		ctx context.Context,
		projectCode, versionCode string,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[FieldRow], error)
	Confirmation(ctx context.Context, projectCode, versionCode string) (*ConfirmationAudit, error)
}
