package mappings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"mapstudio/pkg/handlers"
	"mapstudio/pkg/pagination"
	"mapstudio/pkg/routes"
)

// Handler provides HTTP endpoints for mapping lifecycle operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the field search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "mappings"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for mapping endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/mappings",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/save", Handler: h.Save},
			{Method: "POST", Pattern: "/confirm", Handler: h.Confirm},
			{Method: "POST", Pattern: "/export", Handler: h.Export},
			{Method: "POST", Pattern: "/{project}/{version}/publish", Handler: h.Publish},
			{Method: "POST", Pattern: "/{project}/{version}/fields/search", Handler: h.SearchFields},
			{Method: "GET", Pattern: "/{project}/{version}", Handler: h.Find},
			{Method: "GET", Pattern: "/{project}/{version}/fields", Handler: h.ListFields},
			{Method: "GET", Pattern: "/{project}/{version}/confirmation", Handler: h.Confirmation},
		},
	}
}

// Save persists the selected rows of a SaveCommand JSON body.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var cmd SaveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Save(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Confirm records a confirmation from a ConfirmCommand JSON body.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var cmd ConfirmCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Confirm(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Export assembles export rows from an ExportCommand JSON body.
// Requires an active confirmation audit.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var cmd ExportCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	artifact, err := h.sys.Export(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, artifact)
}

// Publish attempts to publish the version identified by the path parameters.
// The session state in the PublishRequest body gates the transition.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Publish(r.Context(),
		r.PathValue("project"), r.PathValue("version"), req.SessionState)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a mapping version by its path parameters.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	v, err := h.sys.Find(r.Context(), r.PathValue("project"), r.PathValue("version"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// ListFields returns a paginated list of persisted mapping rows with optional
// query parameter filters.
func (h *Handler) ListFields(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListFields(r.Context(),
		r.PathValue("project"), r.PathValue("version"), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// SearchFields accepts a JSON body with pagination and filter criteria and
// returns matching mapping rows.
func (h *Handler) SearchFields(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.ListFields(r.Context(),
		r.PathValue("project"), r.PathValue("version"), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Confirmation returns the most recent confirmation audit for a version.
func (h *Handler) Confirmation(w http.ResponseWriter, r *http.Request) {
	audit, err := h.sys.Confirmation(r.Context(), r.PathValue("project"), r.PathValue("version"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, audit)
}
