// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"superguide/internal/export"
	"superguide/internal/guide"
	"superguide/internal/session"
)

// Guide groups the personal guide endpoints. The visitor's selection is
// keyed by an anonymous token cookie; no account is involved.
type Guide struct {
	service  *guide.Service
	exporter *export.PDFRenderer
}

// NewGuide creates a new Guide handler group.
func NewGuide(service *guide.Service, exporter *export.PDFRenderer) *Guide {
	return &Guide{service: service, exporter: exporter}
}

// guideResponse is the payload for guide reads and toggles.
type guideResponse struct {
	Groups []guide.Group `json:"groups"`
	Count  int           `json:"count"`
}

// Get serves GET /api/guide: the visitor's selection grouped by category.
// A visitor without a token simply has an empty guide.
func (g *Guide) Get(w http.ResponseWriter, r *http.Request) {
	token, ok := session.GuideToken(r)
	if !ok {
		respondJSON(w, http.StatusOK, guideResponse{Groups: []guide.Group{}})
		return
	}

	resources, err := g.service.Resolve(r.Context(), token)
	if err != nil {
		slog.Error("resolve guide failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	groups := guide.GroupByCategory(resources)
	if groups == nil {
		groups = []guide.Group{}
	}
	respondJSON(w, http.StatusOK, guideResponse{Groups: groups, Count: len(resources)})
}

// toggleRequest is the body for POST /api/guide.
type toggleRequest struct {
	ResourceID uuid.UUID `json:"resource_id"`
}

// Toggle serves POST /api/guide: flips a resource in or out of the
// selection. The first toggle mints the token cookie.
func (g *Guide) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ResourceID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "resource_id is required")
		return
	}

	token, err := session.EnsureGuideToken(w, r)
	if err != nil {
		slog.Error("mint guide token failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	selected, ids, err := g.service.Toggle(r.Context(), token, req.ResourceID)
	if err != nil {
		slog.Error("toggle guide selection failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"selected": selected,
		"count":    len(ids),
	})
}

// Clear serves DELETE /api/guide: empties the selection.
func (g *Guide) Clear(w http.ResponseWriter, r *http.Request) {
	token, ok := session.GuideToken(r)
	if ok {
		if err := g.service.Clear(r.Context(), token); err != nil {
			slog.Error("clear guide failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"count": 0})
}

// Export serves GET /api/guide/export: the selection as a printable PDF,
// grouped by category. An empty selection still yields a valid document.
func (g *Guide) Export(w http.ResponseWriter, r *http.Request) {
	var groups []guide.Group
	if token, ok := session.GuideToken(r); ok {
		resources, err := g.service.Resolve(r.Context(), token)
		if err != nil {
			slog.Error("resolve guide for export failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		groups = guide.GroupByCategory(resources)
	}

	pdf, err := g.exporter.Render(groups)
	if err != nil {
		slog.Error("render guide pdf failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	filename := "my-resource-list-" + time.Now().Format("2006-01-02") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(pdf)
}
