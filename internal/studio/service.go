package studio

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"mapstudio/internal/export"
	"mapstudio/internal/fields"
	"mapstudio/internal/llm"
	"mapstudio/internal/mappings"
	"mapstudio/internal/session"
	"mapstudio/internal/suggestions"
)

type service struct {
	sessions *session.Store
	resolver *suggestions.Resolver
	mappings mappings.System
	logger   *slog.Logger
}

// New creates a studio service implementing the System interface.
func New(
	sessions *session.Store,
	resolver *suggestions.Resolver,
	maps mappings.System,
	logger *slog.Logger,
) System {
	return &service{
		sessions: sessions,
		resolver: resolver,
		mappings: maps,
		logger:   logger.With("system", "studio"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Parse merges the request into the session, resolves the target type, runs
// the source flattener and target parser, and lazily persists the project
// and version pair with the serialized target schema.
func (s *service) Parse(ctx context.Context, conversationID string, req ParseRequest) (*ParseResult, error) {
	sess := s.sessions.Get(conversationID)
	applyRequest(sess, req)

	projectCode := sess.StringValue(session.KeyProjectCode, mappings.DefaultProjectCode)
	versionCode := sess.StringValue(session.KeyVersionCode, mappings.DefaultVersionCode)
	sourceSpec := sess.StringValue(session.KeySourceSpec, "")
	schema := sess.StringValue(session.KeyTargetSchema, "")
	schemaJSON := sess.StringValue(session.KeyTargetSchemaJSON, "")
	xsd := sess.StringValue(session.KeyTargetXSD, "")
	wsdl := sess.StringValue(session.KeyTargetWSDL, "")

	probe := firstNonBlank(schema, schemaJSON, xsd, wsdl)
	targetType := fields.ResolveTargetType(sess.StringValue(session.KeyTargetType, ""), probe)
	effective := fields.ResolveEffectiveSchema(targetType, schema, schemaJSON, xsd, wsdl)

	sourceType := sess.StringValue(session.KeySourceType, "")
	if sourceType == "" {
		sourceType = "JSON"
		if fields.LooksLikeXML(sourceSpec) {
			sourceType = "XML"
		}
	}

	sourceFields := fields.FlattenSource(sourceSpec)
	targetFields := fields.ParseTarget(fields.TargetInput{
		Text:      effective,
		Type:      targetType,
		XSD:       xsd,
		WSDL:      wsdl,
		XSDName:   sess.StringValue(session.KeyTargetXSDName, fields.DefaultXSDName),
		WSDLName:  sess.StringValue(session.KeyTargetWSDLName, fields.DefaultWSDLName),
		Artifacts: sessionArtifacts(sess),
	})

	payload := fields.TargetSchemaPayload(targetType, effective, xsd, wsdl)
	if _, err := s.mappings.EnsureVersion(ctx, mappings.EnsureCommand{
		ProjectCode:  projectCode,
		VersionCode:  versionCode,
		SourceType:   sourceType,
		TargetSchema: json.RawMessage(payload),
		CreatedBy:    "studio",
	}); err != nil {
		return nil, err
	}

	sess.Put(session.KeyProjectCode, projectCode)
	sess.Put(session.KeyVersionCode, versionCode)
	sess.Put(session.KeySourceType, sourceType)
	sess.Put(session.KeyTargetType, string(targetType))
	sess.Put(session.KeySourceFields, sourceFields)
	sess.Put(session.KeyTargetFields, targetFields)
	sess.Put(session.KeyParseStatus, session.StatusDone)

	s.logger.Info("schemas parsed",
		"conversation_id", sess.ID(),
		"target_type", targetType,
		"source_fields", len(sourceFields),
		"target_fields", len(targetFields),
	)
	return &ParseResult{
		ConversationID: sess.ID(),
		ProjectCode:    projectCode,
		VersionCode:    versionCode,
		SourceType:     sourceType,
		TargetType:     targetType,
		SourceFields:   sourceFields,
		TargetFields:   targetFields,
	}, nil
}

// Suggest runs the resolver over the parsed field lists and moves the
// dialogue to AWAITING_CONFIRMATION.
func (s *service) Suggest(ctx context.Context, conversationID string) (*SuggestResult, error) {
	sess := s.sessions.Get(conversationID)

	source, target, err := parsedFields(sess)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithConversationID(ctx, sess.ID())
	out := s.resolver.Resolve(ctx, source, target)

	sess.Put(session.KeyMappings, out)
	sess.Put(session.KeySuggestStatus, session.StatusDone)
	sess.SetState(mappings.StateAwaitingConfirmation)

	return &SuggestResult{
		ConversationID: sess.ID(),
		Suggestions:    out,
	}, nil
}

// Validate builds a static report of the session's mapping set against the
// parsed target fields.
func (s *service) Validate(ctx context.Context, conversationID string) (*ValidationReport, error) {
	sess := s.sessions.Get(conversationID)

	source, target, err := parsedFields(sess)
	if err != nil {
		return nil, err
	}

	set := sessionMappings(sess)

	sourceTypes := make(map[string]string, len(source))
	for _, f := range source {
		sourceTypes[f.Path] = f.Type
	}

	mapped := make(map[string]int, len(set))
	for _, m := range set {
		mapped[m.TargetPath]++
	}

	report := &ValidationReport{
		ConversationID:   sess.ID(),
		MissingRequired:  []string{},
		TypeMismatches:   []TypeMismatch{},
		DuplicateTargets: []string{},
	}

	for _, t := range target {
		if t.Required && mapped[t.Path] == 0 {
			report.MissingRequired = append(report.MissingRequired, t.Path)
		}
		if mapped[t.Path] > 1 {
			report.DuplicateTargets = append(report.DuplicateTargets, t.Path)
		}
	}

	targetTypes := make(map[string]string, len(target))
	for _, t := range target {
		targetTypes[t.Path] = t.Type
	}
	for _, m := range set {
		st, okSource := sourceTypes[m.SourcePath]
		tt, okTarget := targetTypes[m.TargetPath]
		if okSource && okTarget && st != tt {
			report.TypeMismatches = append(report.TypeMismatches, TypeMismatch{
				SourcePath: m.SourcePath,
				TargetPath: m.TargetPath,
				SourceType: st,
				TargetType: tt,
			})
		}
	}

	report.ReadyToPublish = len(report.MissingRequired) == 0
	return report, nil
}

// Save persists the given or current mapping set through the lifecycle
// manager and stores it back on the session.
func (s *service) Save(ctx context.Context, conversationID string, set MappingSet) (*mappings.SaveResult, error) {
	sess := s.sessions.Get(conversationID)

	rows := set.Mappings
	if rows == nil {
		rows = sessionMappings(sess)
	}

	result, err := s.mappings.Save(ctx, mappings.SaveCommand{
		ProjectCode: sess.StringValue(session.KeyProjectCode, ""),
		VersionCode: sess.StringValue(session.KeyVersionCode, ""),
		SourceType:  sess.StringValue(session.KeySourceType, ""),
		Mappings:    rows,
	})
	if err != nil {
		return nil, err
	}

	sess.Put(session.KeyMappings, rows)
	return result, nil
}

// Confirm records a confirmation of the given or current mapping set.
func (s *service) Confirm(ctx context.Context, conversationID string, set MappingSet) (*mappings.ConfirmResult, error) {
	sess := s.sessions.Get(conversationID)

	rows := set.Mappings
	if rows == nil {
		rows = sessionMappings(sess)
	}

	result, err := s.mappings.Confirm(ctx, mappings.ConfirmCommand{
		ProjectCode: sess.StringValue(session.KeyProjectCode, ""),
		VersionCode: sess.StringValue(session.KeyVersionCode, ""),
		ConfirmedBy: set.ConfirmedBy,
		Notes:       set.Notes,
		Mappings:    rows,
	})
	if err != nil {
		return nil, err
	}

	sess.Put(session.KeyMappings, rows)
	return result, nil
}

// Export assembles export rows for the given or current mapping set.
func (s *service) Export(ctx context.Context, conversationID string, set MappingSet) (*export.Artifact, error) {
	sess := s.sessions.Get(conversationID)

	rows := set.Mappings
	if rows == nil {
		rows = sessionMappings(sess)
	}

	pathType := set.PathType
	if strings.TrimSpace(pathType) == "" {
		pathType = sess.StringValue(session.KeyPathType, "")
	}

	return s.mappings.Export(ctx, mappings.ExportCommand{
		ProjectCode: sess.StringValue(session.KeyProjectCode, ""),
		VersionCode: sess.StringValue(session.KeyVersionCode, ""),
		PathType:    pathType,
		TargetType:  sess.StringValue(session.KeyTargetType, ""),
		Mappings:    rows,
	})
}

// Publish delegates to the lifecycle manager with the session's dialogue
// state. Skipped results mark the publish status without changing state.
func (s *service) Publish(ctx context.Context, conversationID string) (*mappings.PublishResult, error) {
	sess := s.sessions.Get(conversationID)

	result, err := s.mappings.Publish(ctx,
		sess.StringValue(session.KeyProjectCode, ""),
		sess.StringValue(session.KeyVersionCode, ""),
		sess.State(),
	)
	if err != nil {
		return nil, err
	}

	if result.Skipped {
		sess.Put(session.KeyPublishStatus, session.StatusSkipped)
	} else {
		sess.Put(session.KeyPublishStatus, session.StatusDone)
		sess.SetState(string(mappings.StatusPublished))
	}
	return result, nil
}

// Snapshot returns the observable state of an existing conversation.
func (s *service) Snapshot(conversationID string) (*SessionView, error) {
	sess, ok := s.sessions.Find(conversationID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	state, values := sess.Snapshot()
	return &SessionView{
		ConversationID: sess.ID(),
		State:          state,
		Values:         values,
	}, nil
}

func applyRequest(sess *session.Session, req ParseRequest) {
	putNonBlank(sess, session.KeySourceSpec, req.SourceSpec)
	putNonBlank(sess, session.KeyTargetSchema, req.TargetSchema)
	putNonBlank(sess, session.KeyTargetSchemaJSON, req.TargetSchemaJSON)
	putNonBlank(sess, session.KeyTargetXSD, req.TargetXSD)
	putNonBlank(sess, session.KeyTargetWSDL, req.TargetWSDL)
	putNonBlank(sess, session.KeyTargetXSDName, req.TargetXSDName)
	putNonBlank(sess, session.KeyTargetWSDLName, req.TargetWSDLName)
	putNonBlank(sess, session.KeyProjectCode, req.ProjectCode)
	putNonBlank(sess, session.KeyVersionCode, req.VersionCode)
	putNonBlank(sess, session.KeySourceType, req.SourceType)
	putNonBlank(sess, session.KeyTargetType, req.TargetType)
	putNonBlank(sess, session.KeyPathType, req.PathType)

	if len(req.Artifacts) > 0 {
		sess.Put(session.KeyTargetArtifacts, req.Artifacts)
	}
}

func putNonBlank(sess *session.Session, key, value string) {
	if strings.TrimSpace(value) != "" {
		sess.Put(key, value)
	}
}

func parsedFields(sess *session.Session) ([]fields.Field, []fields.Field, error) {
	rawSource, okSource := sess.Value(session.KeySourceFields)
	rawTarget, okTarget := sess.Value(session.KeyTargetFields)
	if !okSource || !okTarget {
		return nil, nil, ErrParseRequired
	}

	source, okSource := rawSource.([]fields.Field)
	target, okTarget := rawTarget.([]fields.Field)
	if !okSource || !okTarget {
		return nil, nil, ErrParseRequired
	}
	return source, target, nil
}

func sessionMappings(sess *session.Session) []suggestions.Suggestion {
	raw, ok := sess.Value(session.KeyMappings)
	if !ok {
		return nil
	}
	set, ok := raw.([]suggestions.Suggestion)
	if !ok {
		return nil
	}
	return set
}

func sessionArtifacts(sess *session.Session) []fields.Artifact {
	raw, ok := sess.Value(session.KeyTargetArtifacts)
	if !ok {
		return nil
	}
	artifacts, ok := raw.([]fields.Artifact)
	if !ok {
		return nil
	}
	return artifacts
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
