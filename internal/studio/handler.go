package studio

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"mapstudio/internal/mappings"
	"mapstudio/pkg/handlers"
	"mapstudio/pkg/routes"
)

// Handler provides HTTP endpoints for the studio workflow.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "studio"),
	}
}

// Routes returns the route group definition for studio endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/studio",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{conversationId}/parse", Handler: h.Parse},
			{Method: "POST", Pattern: "/{conversationId}/suggest", Handler: h.Suggest},
			{Method: "POST", Pattern: "/{conversationId}/validate", Handler: h.Validate},
			{Method: "POST", Pattern: "/{conversationId}/save", Handler: h.Save},
			{Method: "POST", Pattern: "/{conversationId}/confirm", Handler: h.Confirm},
			{Method: "POST", Pattern: "/{conversationId}/export", Handler: h.Export},
			{Method: "POST", Pattern: "/{conversationId}/publish", Handler: h.Publish},
			{Method: "GET", Pattern: "/{conversationId}", Handler: h.Snapshot},
		},
	}
}

// Parse merges a ParseRequest JSON body into the session and parses the
// source and target schemas. An empty body reuses the session's values.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Parse(r.Context(), r.PathValue("conversationId"), req)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Suggest resolves suggestions over the session's parsed field lists.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Suggest(r.Context(), r.PathValue("conversationId"))
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Validate returns the static validation report for the session.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	report, err := h.sys.Validate(r.Context(), r.PathValue("conversationId"))
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// Save persists a MappingSet JSON body, or the session's current set when
// the body is empty.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	set, ok := h.decodeSet(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Save(r.Context(), r.PathValue("conversationId"), set)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Confirm records a confirmation of the mapping set.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	set, ok := h.decodeSet(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Confirm(r.Context(), r.PathValue("conversationId"), set)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Export assembles export rows for the mapping set.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	set, ok := h.decodeSet(w, r)
	if !ok {
		return
	}

	artifact, err := h.sys.Export(r.Context(), r.PathValue("conversationId"), set)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, artifact)
}

// Publish attempts to publish the session's version.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Publish(r.Context(), r.PathValue("conversationId"))
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Snapshot returns the observable state of an existing conversation.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	view, err := h.sys.Snapshot(r.PathValue("conversationId"))
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) decodeSet(w http.ResponseWriter, r *http.Request) (MappingSet, bool) {
	var set MappingSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return set, false
	}
	return set, true
}

// statusFor consults both the studio and mappings error tables so lifecycle
// errors keep their status codes when surfaced through studio endpoints.
func statusFor(err error) int {
	if status := mappings.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return MapHTTPStatus(err)
}
