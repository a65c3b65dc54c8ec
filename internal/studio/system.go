package studio

import (
	"context"

	"mapstudio/internal/export"
	"mapstudio/internal/mappings"
)

// System defines the public contract for studio workflow operations.
type System interface {
	Handler() *Handler

	Parse(ctx context.Context, conversationID string, req ParseRequest) (*ParseResult, error)
	Suggest(ctx context.Context, conversationID string) (*SuggestResult, error)
	Validate(ctx context.Context, conversationID string) (*ValidationReport, error)

	Save(ctx context.Context, conversationID string, set MappingSet) (*mappings.SaveResult, error)
	Confirm(ctx context.Context, conversationID string, set MappingSet) (*mappings.ConfirmResult, error)
	Export(ctx context.Context, conversationID string, set MappingSet) (*export.Artifact, error)
	Publish(ctx context.Context, conversationID string) (*mappings.PublishResult, error)

	Snapshot(conversationID string) (*SessionView, error)
}
