package llm

import (
	"context"
	"database/sql"
	"log/slog"

	"mapstudio/pkg/repository"
)

type conversationIDKey struct{}

// WithConversationID tags ctx with the dialogue conversation identifier so
// LLM calls made during that conversation can be attributed in the call log.
func WithConversationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, conversationIDKey{}, id)
}

// ConversationIDFromContext returns the conversation identifier from ctx,
// or empty when the call is not conversation-scoped.
func ConversationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(conversationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// CallEntry is one recorded LLM invocation.
type CallEntry struct {
	ConversationID string
	Provider       string
	Model          string
	Hint           string
	ContextText    string
	ResponseText   string
	Success        bool
}

// CallLog persists LLM call audit rows.
type CallLog struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCallLog creates a call log backed by the given database.
func NewCallLog(db *sql.DB, logger *slog.Logger) *CallLog {
	return &CallLog{
		db:     db,
		logger: logger.With("system", "llm-call-log"),
	}
}

// Record inserts one call entry.
func (l *CallLog) Record(ctx context.Context, entry CallEntry) error {
	var conversationID any
	if entry.ConversationID != "" {
		conversationID = entry.ConversationID
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO llm_call_log(
			conversation_id, provider, model, hint,
			context_text, response_text, success
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		conversationID,
		entry.Provider,
		entry.Model,
		entry.Hint,
		entry.ContextText,
		entry.ResponseText,
		entry.Success,
	)
	return err
}

// Recent returns the latest call entries, newest first.
func (l *CallLog) Recent(ctx context.Context, limit int) ([]CallEntry, error) {
	if limit < 1 {
		limit = 50
	}

	q := `
		SELECT COALESCE(conversation_id, ''), provider, model, hint,
			   context_text, response_text, success
		FROM llm_call_log
		ORDER BY created_at DESC
		LIMIT $1`

	return repository.QueryMany(ctx, l.db, q, []any{limit}, scanCallEntry)
}

func scanCallEntry(s repository.Scanner) (CallEntry, error) {
	var e CallEntry
	err := s.Scan(
		&e.ConversationID,
		&e.Provider,
		&e.Model,
		&e.Hint,
		&e.ContextText,
		&e.ResponseText,
		&e.Success,
	)
	return e, err
}
