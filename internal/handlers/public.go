// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the SuperGuide API.
// Handlers are grouped by concern (public, guide, auth, admin) and receive
// their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"superguide/internal/cache"
	"superguide/internal/filter"
	"superguide/internal/models"
	"superguide/internal/store"
)

// Public groups the anonymous browse endpoints. The unfiltered resource
// list and the category listings are served through the Valkey directory
// cache; filtered queries always hit the database.
type Public struct {
	resources   *store.ResourceStore
	categories  *store.CategoryStore
	errorEvents *store.ErrorEventStore
	dirCache    *cache.DirectoryCache
}

// NewPublic creates a new Public handler group. dirCache may be nil when
// Valkey caching is disabled; responses then always come from the database.
func NewPublic(resources *store.ResourceStore, categories *store.CategoryStore, errorEvents *store.ErrorEventStore, dirCache *cache.DirectoryCache) *Public {
	return &Public{
		resources:   resources,
		categories:  categories,
		errorEvents: errorEvents,
		dirCache:    dirCache,
	}
}

// filterFromQuery builds filter params from URL query values.
func filterFromQuery(r *http.Request) filter.Params {
	q := r.URL.Query()
	return filter.Params{
		Query:         q.Get("q"),
		Category:      q.Get("category"),
		City:          q.Get("city"),
		Direction:     q.Get("direction"),
		RecoveryStage: q.Get("stage"),
		Transit:       q.Get("transit"),
		Walkability:   q.Get("walkability"),
		Snap:          q.Get("snap"),
		Cost:          q.Get("cost"),
	}
}

// resourceListResponse is the browse endpoint payload. Filtered reports
// whether any constraint was applied so the client can distinguish its
// initial empty state from a zero-match result.
type resourceListResponse struct {
	Resources []models.Resource `json:"resources"`
	Total     int               `json:"total"`
	Filtered  bool              `json:"filtered"`
}

// Resources serves GET /api/resources. Without query parameters it returns
// the full public listing (cached); with parameters it applies the text
// search and facet filters, ANDed together. ?verified=1 narrows the base
// listing to fully verified entries and is treated as a filter, so it
// bypasses the cache like the facet parameters do.
func (p *Public) Resources(w http.ResponseWriter, r *http.Request) {
	params := filterFromQuery(r)
	verifiedOnly := r.URL.Query().Get("verified") == "1"

	if params.IsZero() && !verifiedOnly && p.dirCache != nil {
		if cached, ok := p.dirCache.Get(r.Context(), cache.ResourcesKey()); ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	var resources []models.Resource
	var err error
	if verifiedOnly {
		resources, err = p.resources.ListVerified()
	} else {
		resources, err = p.resources.ListPublic()
	}
	if err != nil {
		slog.Error("list public resources failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if verifiedOnly {
		matched := filter.Apply(resources, params)
		respondJSON(w, http.StatusOK, resourceListResponse{
			Resources: emptySafe(matched),
			Total:     len(matched),
			Filtered:  true,
		})
		return
	}

	if params.IsZero() {
		resp := resourceListResponse{Resources: emptySafe(resources), Total: len(resources)}
		if p.dirCache != nil {
			if payload, err := json.Marshal(resp); err == nil {
				p.dirCache.Set(r.Context(), cache.ResourcesKey(), append(payload, '\n'))
			}
		}
		respondJSON(w, http.StatusOK, resp)
		return
	}

	matched := filter.Apply(resources, params)
	respondJSON(w, http.StatusOK, resourceListResponse{
		Resources: emptySafe(matched),
		Total:     len(matched),
		Filtered:  true,
	})
}

// Resource serves GET /api/resources/{id}. Unlike the browse listing,
// the detail view does not hide temporarily closed entries: a saved or
// shared link keeps working, and the closed status rides along in the
// payload so the client can flag it and still accept issue reports.
func (p *Public) Resource(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	resource, err := p.resources.FindByID(id)
	if err != nil {
		slog.Error("find resource failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if resource == nil {
		respondError(w, http.StatusNotFound, "resource not found")
		return
	}

	respondJSON(w, http.StatusOK, resource)
}

// Categories serves GET /api/categories. The default view is the two-level
// tree ordering (roots with their children immediately after); ?view=flat
// returns the plain sequence ordering.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view != "flat" {
		view = "tree"
	}

	if p.dirCache != nil {
		if cached, ok := p.dirCache.Get(r.Context(), cache.CategoriesKey(view)); ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	var (
		categories []models.Category
		err        error
	)
	if view == "flat" {
		categories, err = p.categories.List()
	} else {
		categories, err = p.categories.Hierarchy()
	}
	if err != nil {
		slog.Error("list categories failed", "error", err, "view", view)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := map[string]any{"categories": emptySafe(categories)}
	if p.dirCache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			p.dirCache.Set(r.Context(), cache.CategoriesKey(view), append(payload, '\n'))
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// fileReportRequest is the body for POST /api/resources/{id}/reports.
type fileReportRequest struct {
	IssueType string  `json:"issue_type"`
	Comment   *string `json:"comment"`
	Contact   *string `json:"contact"`
}

// FileReport serves POST /api/resources/{id}/reports. Filing flips the
// resource to needs_verification and bumps its open report counter.
func (p *Public) FileReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	var req fileReportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateReport(req.IssueType, req.Comment, req.Contact); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	resource, err := p.resources.FindByID(id)
	if err != nil {
		slog.Error("find resource for report failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if resource == nil {
		respondError(w, http.StatusNotFound, "resource not found")
		return
	}

	report, err := p.resources.FileReport(id, req.IssueType, req.Comment, req.Contact)
	if err != nil {
		slog.Error("file report failed", "error", err, "resource_id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// The resource's status changed, so the cached listing is stale.
	if p.dirCache != nil {
		p.dirCache.Invalidate(r.Context(), cache.ResourcesKey())
	}

	respondJSON(w, http.StatusCreated, report)
}

// logErrorRequest is the body for POST /api/log-error, the browser client's
// error intake.
type logErrorRequest struct {
	Message   string          `json:"message"`
	Severity  string          `json:"severity"`
	Stack     *string         `json:"stack"`
	Route     *string         `json:"route"`
	SessionID *string         `json:"session_id"`
	Metadata  json.RawMessage `json:"metadata"`
}

// LogError serves POST /api/log-error. Accepted events land in the
// error_events table for admin review. Severity defaults to "error".
func (p *Public) LogError(w http.ResponseWriter, r *http.Request) {
	var req logErrorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	severity := req.Severity
	if severity == "" {
		severity = string(models.SeverityError)
	}
	if msg := validateErrorEvent(req.Message, string(models.SourceClient), severity, req.Stack); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	event := &models.ErrorEvent{
		Source:    models.SourceClient,
		Severity:  models.ErrorSeverity(severity),
		Message:   req.Message,
		Stack:     req.Stack,
		Route:     req.Route,
		SessionID: req.SessionID,
		Metadata:  req.Metadata,
	}
	if err := p.errorEvents.Insert(event); err != nil {
		slog.Error("insert error event failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"id": event.ID.String()})
}

// emptySafe turns a nil slice into an empty one so JSON renders [] not null.
func emptySafe[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
