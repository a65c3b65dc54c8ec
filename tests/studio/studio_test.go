package studio_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"mapstudio/internal/export"
	"mapstudio/internal/mappings"
	"mapstudio/internal/session"
	"mapstudio/internal/studio"
	"mapstudio/internal/suggestions"
	"mapstudio/pkg/pagination"
)

type stubMappings struct {
	ensured        []mappings.EnsureCommand
	saved          []mappings.SaveCommand
	publishStates  []string
	publishResult  *mappings.PublishResult
	exportArtifact *export.Artifact
	exportErr      error
}

func (m *stubMappings) Handler() *mappings.Handler { return nil }

func (m *stubMappings) EnsureVersion(_ context.Context, cmd mappings.EnsureCommand) (*mappings.Version, error) {
	m.ensured = append(m.ensured, cmd)
	project, version := mappings.NormalizeCodes(cmd.ProjectCode, cmd.VersionCode)
	return &mappings.Version{
		ProjectCode: project,
		VersionCode: version,
		Status:      mappings.StatusDraft,
	}, nil
}

func (m *stubMappings) Save(_ context.Context, cmd mappings.SaveCommand) (*mappings.SaveResult, error) {
	m.saved = append(m.saved, cmd)
	saved := 0
	for _, row := range cmd.Mappings {
		if row.Selected {
			saved++
		}
	}
	return &mappings.SaveResult{
		ProjectCode: cmd.ProjectCode,
		VersionCode: cmd.VersionCode,
		SavedCount:  saved,
		Status:      mappings.StatusDraft,
	}, nil
}

func (m *stubMappings) Confirm(_ context.Context, cmd mappings.ConfirmCommand) (*mappings.ConfirmResult, error) {
	selected := 0
	for _, row := range cmd.Mappings {
		if row.Selected {
			selected++
		}
	}
	if selected == 0 {
		return nil, mappings.ErrNoSelection
	}
	return &mappings.ConfirmResult{
		ProjectCode:   cmd.ProjectCode,
		VersionCode:   cmd.VersionCode,
		SelectedCount: selected,
		ConfirmedBy:   cmd.ConfirmedBy,
		ConfirmedAt:   time.Now(),
	}, nil
}

func (m *stubMappings) Export(_ context.Context, _ mappings.ExportCommand) (*export.Artifact, error) {
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	return m.exportArtifact, nil
}

func (m *stubMappings) Publish(_ context.Context, projectCode, versionCode, sessionState string) (*mappings.PublishResult, error) {
	m.publishStates = append(m.publishStates, sessionState)
	if m.publishResult != nil {
		return m.publishResult, nil
	}
	if sessionState != mappings.StateAwaitingConfirmation {
		return &mappings.PublishResult{
			ProjectCode: projectCode,
			VersionCode: versionCode,
			Skipped:     true,
			Reason:      "session is not awaiting confirmation",
		}, nil
	}
	return &mappings.PublishResult{
		ProjectCode: projectCode,
		VersionCode: versionCode,
		Status:      mappings.StatusPublished,
	}, nil
}

func (m *stubMappings) Find(_ context.Context, projectCode, versionCode string) (*mappings.Version, error) {
	return nil, mappings.ErrNotFound
}

func (m *stubMappings) ListFields(
	_ context.Context,
	_, _ string,
	_ pagination.PageRequest,
	_ mappings.Filters,
) (*pagination.PageResult[mappings.FieldRow], error) {
	return nil, mappings.ErrNotFound
}

func (m *stubMappings) Confirmation(_ context.Context, _, _ string) (*mappings.ConfirmationAudit, error) {
	return nil, mappings.ErrNotFound
}

func newStudio(t *testing.T) (studio.System, *stubMappings) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stub := &stubMappings{}
	resolver := suggestions.NewResolver(nil, nil, logger)
	return studio.New(session.NewStore(), resolver, stub, logger), stub
}

func parseOrders(t *testing.T, system studio.System, conversationID string) *studio.ParseResult {
	t.Helper()
	result, err := system.Parse(context.Background(), conversationID, studio.ParseRequest{
		SourceSpec:       `{"id": 7, "note": "rush"}`,
		TargetSchemaJSON: `{"required": ["id"], "properties": {"id": {"type": "number"}, "remarks": {"type": "string"}}}`,
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return result
}

func TestParse(t *testing.T) {
	system, stub := newStudio(t)

	result := parseOrders(t, system, "conv-parse")

	if result.ConversationID != "conv-parse" {
		t.Errorf("conversation id: got %q", result.ConversationID)
	}
	if result.ProjectCode != mappings.DefaultProjectCode {
		t.Errorf("project: got %q, want default", result.ProjectCode)
	}
	if result.VersionCode != mappings.DefaultVersionCode {
		t.Errorf("version: got %q, want default", result.VersionCode)
	}
	if result.SourceType != "JSON" {
		t.Errorf("source type: got %q, want JSON", result.SourceType)
	}
	if string(result.TargetType) != "JSON_SCHEMA" {
		t.Errorf("target type: got %q, want JSON_SCHEMA", result.TargetType)
	}
	if len(result.SourceFields) != 2 {
		t.Errorf("source fields: got %d, want 2", len(result.SourceFields))
	}
	if len(result.TargetFields) != 2 {
		t.Errorf("target fields: got %d, want 2", len(result.TargetFields))
	}

	if len(stub.ensured) != 1 {
		t.Fatalf("ensure calls: got %d, want 1", len(stub.ensured))
	}
	if stub.ensured[0].CreatedBy != "studio" {
		t.Errorf("created by: got %q, want studio", stub.ensured[0].CreatedBy)
	}

	view, err := system.Snapshot("conv-parse")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if view.Values[session.KeyParseStatus] != session.StatusDone {
		t.Errorf("parse status: got %v, want DONE", view.Values[session.KeyParseStatus])
	}
}

func TestParseMergesAcrossCalls(t *testing.T) {
	system, _ := newStudio(t)

	parseOrders(t, system, "conv-merge")

	// A later call without a source spec keeps the session's earlier one.
	result, err := system.Parse(context.Background(), "conv-merge", studio.ParseRequest{
		TargetSchemaJSON: `{"properties": {"remarks": {"type": "string"}}}`,
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.SourceFields) != 2 {
		t.Errorf("source fields: got %d, want 2 (retained from session)", len(result.SourceFields))
	}
}

func TestParseXMLSource(t *testing.T) {
	system, _ := newStudio(t)

	result, err := system.Parse(context.Background(), "conv-xml", studio.ParseRequest{
		SourceSpec:   `<order><id>7</id></order>`,
		TargetSchema: `{"properties": {"id": {"type": "number"}}}`,
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if result.SourceType != "XML" {
		t.Errorf("source type: got %q, want XML", result.SourceType)
	}
	if len(result.SourceFields) != 1 || result.SourceFields[0].Path != "order.id" {
		t.Errorf("source fields: got %v", result.SourceFields)
	}
}

func TestSuggestRequiresParse(t *testing.T) {
	system, _ := newStudio(t)

	_, err := system.Suggest(context.Background(), "conv-unparsed")
	if !errors.Is(err, studio.ErrParseRequired) {
		t.Errorf("err = %v, want ErrParseRequired", err)
	}
}

func TestSuggestMovesToAwaitingConfirmation(t *testing.T) {
	system, _ := newStudio(t)
	parseOrders(t, system, "conv-suggest")

	result, err := system.Suggest(context.Background(), "conv-suggest")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	if result.Suggestions[0].SourcePath != "id" || result.Suggestions[0].TargetPath != "id" {
		t.Errorf("first suggestion: got %s->%s", result.Suggestions[0].SourcePath, result.Suggestions[0].TargetPath)
	}

	view, err := system.Snapshot("conv-suggest")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if view.State != mappings.StateAwaitingConfirmation {
		t.Errorf("state: got %q, want AWAITING_CONFIRMATION", view.State)
	}
	if view.Values[session.KeySuggestStatus] != session.StatusDone {
		t.Errorf("suggest status: got %v, want DONE", view.Values[session.KeySuggestStatus])
	}
}

func TestValidateReportsMissingRequired(t *testing.T) {
	system, _ := newStudio(t)

	_, err := system.Parse(context.Background(), "conv-missing", studio.ParseRequest{
		SourceSpec:       `{"alpha": "x"}`,
		TargetSchemaJSON: `{"required": ["omega"], "properties": {"omega": {"type": "string"}}}`,
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := system.Suggest(context.Background(), "conv-missing"); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	report, err := system.Validate(context.Background(), "conv-missing")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(report.MissingRequired) != 1 || report.MissingRequired[0] != "omega" {
		t.Errorf("missing required: got %v, want [omega]", report.MissingRequired)
	}
	if report.ReadyToPublish {
		t.Error("report should not be ready to publish")
	}
}

func TestValidateReadyToPublish(t *testing.T) {
	system, _ := newStudio(t)
	parseOrders(t, system, "conv-ready")
	if _, err := system.Suggest(context.Background(), "conv-ready"); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	report, err := system.Validate(context.Background(), "conv-ready")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(report.MissingRequired) != 0 {
		t.Errorf("missing required: got %v, want none", report.MissingRequired)
	}
	if !report.ReadyToPublish {
		t.Error("report should be ready to publish")
	}
}

func TestValidateReportsTypeMismatch(t *testing.T) {
	system, _ := newStudio(t)

	_, err := system.Parse(context.Background(), "conv-mismatch", studio.ParseRequest{
		SourceSpec:       `{"id": "not-a-number"}`,
		TargetSchemaJSON: `{"properties": {"id": {"type": "number"}}}`,
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := system.Suggest(context.Background(), "conv-mismatch"); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	report, err := system.Validate(context.Background(), "conv-mismatch")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(report.TypeMismatches) != 1 {
		t.Fatalf("type mismatches: got %d, want 1", len(report.TypeMismatches))
	}
	m := report.TypeMismatches[0]
	if m.SourceType != "string" || m.TargetType != "number" {
		t.Errorf("mismatch types: got %s->%s", m.SourceType, m.TargetType)
	}
}

func TestSaveFallsBackToSessionSet(t *testing.T) {
	system, stub := newStudio(t)
	parseOrders(t, system, "conv-save")
	if _, err := system.Suggest(context.Background(), "conv-save"); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	if _, err := system.Save(context.Background(), "conv-save", studio.MappingSet{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(stub.saved) != 1 {
		t.Fatalf("save calls: got %d, want 1", len(stub.saved))
	}
	cmd := stub.saved[0]
	if cmd.ProjectCode != mappings.DefaultProjectCode || cmd.VersionCode != mappings.DefaultVersionCode {
		t.Errorf("codes: got %s/%s", cmd.ProjectCode, cmd.VersionCode)
	}
	if len(cmd.Mappings) == 0 {
		t.Error("save should carry the session's mapping set")
	}
}

func TestSaveOverridesSessionSet(t *testing.T) {
	system, stub := newStudio(t)
	parseOrders(t, system, "conv-override")

	edited := []suggestions.Suggestion{
		{SourcePath: "note", TargetPath: "remarks", Selected: true, ManualOverride: true},
	}
	if _, err := system.Save(context.Background(), "conv-override", studio.MappingSet{Mappings: edited}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(stub.saved) != 1 || len(stub.saved[0].Mappings) != 1 {
		t.Fatalf("save calls: got %v", stub.saved)
	}
	if stub.saved[0].Mappings[0].SourcePath != "note" {
		t.Errorf("saved row: got %v", stub.saved[0].Mappings[0])
	}

	view, _ := system.Snapshot("conv-override")
	stored, ok := view.Values[session.KeyMappings].([]suggestions.Suggestion)
	if !ok || len(stored) != 1 || stored[0].SourcePath != "note" {
		t.Error("edited set should replace the session's mapping set")
	}
}

func TestPublishSkippedBeforeConfirmationState(t *testing.T) {
	system, stub := newStudio(t)
	parseOrders(t, system, "conv-skip")

	result, err := system.Publish(context.Background(), "conv-skip")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !result.Skipped {
		t.Fatal("publish should be skipped before suggestions run")
	}
	if len(stub.publishStates) != 1 || stub.publishStates[0] != "" {
		t.Errorf("delegated state: got %v, want blank", stub.publishStates)
	}

	view, _ := system.Snapshot("conv-skip")
	if view.Values[session.KeyPublishStatus] != session.StatusSkipped {
		t.Errorf("publish status: got %v, want SKIPPED", view.Values[session.KeyPublishStatus])
	}
	if view.State != "" {
		t.Errorf("state: got %q, want unchanged", view.State)
	}
}

func TestPublishAfterSuggest(t *testing.T) {
	system, stub := newStudio(t)
	parseOrders(t, system, "conv-publish")
	if _, err := system.Suggest(context.Background(), "conv-publish"); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	result, err := system.Publish(context.Background(), "conv-publish")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if result.Skipped {
		t.Fatal("publish should not be skipped in AWAITING_CONFIRMATION")
	}
	if len(stub.publishStates) != 1 || stub.publishStates[0] != mappings.StateAwaitingConfirmation {
		t.Errorf("delegated state: got %v", stub.publishStates)
	}

	view, _ := system.Snapshot("conv-publish")
	if view.State != string(mappings.StatusPublished) {
		t.Errorf("state: got %q, want PUBLISHED", view.State)
	}
	if view.Values[session.KeyPublishStatus] != session.StatusDone {
		t.Errorf("publish status: got %v, want DONE", view.Values[session.KeyPublishStatus])
	}
}

func TestExportDelegatesPreconditionError(t *testing.T) {
	system, stub := newStudio(t)
	stub.exportErr = fmt.Errorf("export: %w", mappings.ErrConfirmationRequired)
	parseOrders(t, system, "conv-export")

	_, err := system.Export(context.Background(), "conv-export", studio.MappingSet{})
	if !errors.Is(err, mappings.ErrConfirmationRequired) {
		t.Errorf("err = %v, want ErrConfirmationRequired", err)
	}
	if got := mappings.MapHTTPStatus(err); got != http.StatusPreconditionRequired {
		t.Errorf("status: got %d, want 428", got)
	}
}

func TestSnapshotNotFound(t *testing.T) {
	system, _ := newStudio(t)

	_, err := system.Snapshot("conv-missing")
	if !errors.Is(err, studio.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestStudioMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"session not found", studio.ErrSessionNotFound, http.StatusNotFound},
		{"parse required", studio.ErrParseRequired, http.StatusConflict},
		{"wrapped parse required", fmt.Errorf("suggest: %w", studio.ErrParseRequired), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := studio.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
