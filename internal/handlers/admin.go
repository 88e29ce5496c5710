// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"superguide/internal/cache"
	"superguide/internal/middleware"
	"superguide/internal/models"
	"superguide/internal/store"
)

// Admin groups the back-office HTTP handlers. Every write that affects
// what the public sees invalidates the Valkey directory cache.
type Admin struct {
	resources   *store.ResourceStore
	categories  *store.CategoryStore
	reports     *store.ReportStore
	users       *store.UserStore
	errorEvents *store.ErrorEventStore
	dirCache    *cache.DirectoryCache
}

// NewAdmin creates a new Admin handler group. dirCache may be nil when
// Valkey caching is disabled.
func NewAdmin(resources *store.ResourceStore, categories *store.CategoryStore, reports *store.ReportStore, users *store.UserStore, errorEvents *store.ErrorEventStore, dirCache *cache.DirectoryCache) *Admin {
	return &Admin{
		resources:   resources,
		categories:  categories,
		reports:     reports,
		users:       users,
		errorEvents: errorEvents,
		dirCache:    dirCache,
	}
}

// invalidateDirectory clears the public listing cache after a write.
func (a *Admin) invalidateDirectory(r *http.Request) {
	if a.dirCache != nil {
		a.dirCache.InvalidateAll(r.Context())
	}
}

// Dashboard serves GET /api/admin/dashboard with back-office counters.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	resources, err := a.resources.ListAll()
	if err != nil {
		slog.Error("dashboard resource list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var needsVerification int
	for _, res := range resources {
		if res.Status == models.StatusNeedsVerification {
			needsVerification++
		}
	}

	openReports, err := a.reports.CountOpen()
	if err != nil {
		slog.Error("dashboard report count failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	unresolvedFalse := false
	events, err := a.errorEvents.List(store.ListFilter{Resolved: &unresolvedFalse})
	if err != nil {
		slog.Error("dashboard error list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"resources":          len(resources),
		"needs_verification": needsVerification,
		"open_reports":       openReports,
		"unresolved_errors":  len(events),
	})
}

// --- Resources ---

// ResourcesList serves GET /api/admin/resources: every entry, including
// temporarily closed ones, newest first.
func (a *Admin) ResourcesList(w http.ResponseWriter, r *http.Request) {
	resources, err := a.resources.ListAll()
	if err != nil {
		slog.Error("admin list resources failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"resources": emptySafe(resources)})
}

// ResourceCreate serves POST /api/admin/resources.
func (a *Admin) ResourceCreate(w http.ResponseWriter, r *http.Request) {
	var req models.Resource
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		req.Status = models.StatusActive
	}
	if msg := validateResource(&req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.resources.Create(&req)
	if err != nil {
		slog.Error("create resource failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidateDirectory(r)
	respondJSON(w, http.StatusCreated, created)
}

// ResourceUpdate serves PUT /api/admin/resources/{id}. Last write wins.
func (a *Admin) ResourceUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	existing, err := a.resources.FindByID(id)
	if err != nil {
		slog.Error("find resource for update failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "resource not found")
		return
	}

	var req models.Resource
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		req.Status = existing.Status
	}
	if msg := validateResource(&req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	req.ID = id
	if err := a.resources.Update(&req); err != nil {
		slog.Error("update resource failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	updated, err := a.resources.FindByID(id)
	if err != nil || updated == nil {
		slog.Error("reload resource after update failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidateDirectory(r)
	respondJSON(w, http.StatusOK, updated)
}

// ResourceDelete serves DELETE /api/admin/resources/{id}. Reports on the
// resource are removed with it.
func (a *Admin) ResourceDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	if err := a.resources.Delete(id); err != nil {
		slog.Error("delete resource failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidateDirectory(r)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// verifyResourceRequest is the body for POST /api/admin/resources/{id}/verify.
type verifyResourceRequest struct {
	Notes      string `json:"notes"`
	ResetCount bool   `json:"reset_count"`
}

// ResourceVerify marks a resource verified as of today: status back to
// active, notes recorded, and optionally the open report counter zeroed.
func (a *Admin) ResourceVerify(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	var req verifyResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.resources.Verify(id, req.Notes, req.ResetCount); err != nil {
		slog.Error("verify resource failed", "error", err, "id", id)
		respondError(w, http.StatusNotFound, "resource not found")
		return
	}

	verified, err := a.resources.FindByID(id)
	if err != nil || verified == nil {
		slog.Error("reload resource after verify failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidateDirectory(r)
	respondJSON(w, http.StatusOK, verified)
}

// --- Categories ---

// categoryRequest is the body for category create and update.
type categoryRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id"`
	Sequence int        `json:"sequence"`
}

// checkParent enforces the two-level hierarchy: a parent must exist and
// be a root. Returns a client message, or "" when the parent is fine.
func (a *Admin) checkParent(parentID *uuid.UUID) (string, error) {
	if parentID == nil {
		return "", nil
	}
	parent, err := a.categories.FindByID(*parentID)
	if err != nil {
		return "", err
	}
	if parent == nil {
		return "Parent category not found.", nil
	}
	if !parent.IsRoot() {
		return "Parent must be a top-level category.", nil
	}
	return "", nil
}

// CategoriesList serves GET /api/admin/categories (flat, sequence order).
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List()
	if err != nil {
		slog.Error("admin list categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": emptySafe(categories)})
}

// CategoryCreate serves POST /api/admin/categories.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	msg, err := a.checkParent(req.ParentID)
	if err != nil {
		slog.Error("parent lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.categories.Create(&models.Category{
		Name:     strings.TrimSpace(req.Name),
		ParentID: req.ParentID,
		Sequence: req.Sequence,
	})
	if err != nil {
		slog.Error("create category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidateDirectory(r)
	respondJSON(w, http.StatusCreated, created)
}

// CategoryUpdate serves PUT /api/admin/categories/{id}.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	existing, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			respondError(w, http.StatusBadRequest, "A category cannot be its own parent.")
			return
		}
		// A category that has children must stay a root.
		hasChildren, err := a.categories.HasChildren(id)
		if err != nil {
			slog.Error("children check failed", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if hasChildren {
			respondError(w, http.StatusBadRequest, "A category with children cannot become a child.")
			return
		}
		msg, err := a.checkParent(req.ParentID)
		if err != nil {
			slog.Error("parent lookup failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.ParentID = req.ParentID
	existing.Sequence = req.Sequence
	if err := a.categories.Update(existing); err != nil {
		slog.Error("update category failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidateDirectory(r)
	respondJSON(w, http.StatusOK, existing)
}

// CategoryDelete serves DELETE /api/admin/categories/{id}. Children are
// promoted to roots; resources keep their free-text label.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidateDirectory(r)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Reports ---

// ReportsList serves GET /api/admin/reports, optionally filtered by
// ?status=open|in_review|resolved|duplicate.
func (a *Admin) ReportsList(w http.ResponseWriter, r *http.Request) {
	status := models.ReportStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.ReportOpen, models.ReportInReview, models.ReportResolved, models.ReportDuplicate:
	default:
		respondError(w, http.StatusBadRequest, "unknown report status")
		return
	}

	reports, err := a.reports.List(status)
	if err != nil {
		slog.Error("list reports failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reports": emptySafe(reports)})
}

// reportUpdateRequest is the body for PUT /api/admin/reports/{id}.
type reportUpdateRequest struct {
	Status          models.ReportStatus `json:"status"`
	ResolutionNotes *string             `json:"resolution_notes"`
}

// ReportUpdate moves a report through triage. resolved_at is stamped
// exactly when the status becomes resolved.
func (a *Admin) ReportUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	var req reportUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch req.Status {
	case models.ReportOpen, models.ReportInReview, models.ReportResolved, models.ReportDuplicate:
	default:
		respondError(w, http.StatusBadRequest, "unknown report status")
		return
	}

	if err := a.reports.UpdateStatus(id, req.Status, req.ResolutionNotes); err != nil {
		slog.Error("update report failed", "error", err, "id", id)
		respondError(w, http.StatusNotFound, "report not found")
		return
	}

	report, err := a.reports.FindByID(id)
	if err != nil || report == nil {
		slog.Error("reload report failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// --- Error events ---

// ErrorsList serves GET /api/admin/errors with optional ?severity=,
// ?source=, ?resolved=true|false and ?limit= filters.
func (a *Admin) ErrorsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ListFilter{
		Severity: q.Get("severity"),
		Source:   q.Get("source"),
	}
	if f.Severity != "" && !models.ValidSeverity(f.Severity) {
		respondError(w, http.StatusBadRequest, "unknown severity")
		return
	}
	if f.Source != "" && !models.ValidSource(f.Source) {
		respondError(w, http.StatusBadRequest, "unknown source")
		return
	}
	if v := q.Get("resolved"); v != "" {
		resolved, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "resolved must be true or false")
			return
		}
		f.Resolved = &resolved
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		f.Limit = limit
	}

	events, err := a.errorEvents.List(f)
	if err != nil {
		slog.Error("list error events failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"errors": emptySafe(events)})
}

// ErrorToggleResolved serves POST /api/admin/errors/{id}/toggle.
func (a *Admin) ErrorToggleResolved(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid error id")
		return
	}

	if err := a.errorEvents.ToggleResolved(id); err != nil {
		slog.Error("toggle error event failed", "error", err, "id", id)
		respondError(w, http.StatusNotFound, "error event not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "toggled"})
}

// --- Users ---

// UsersList serves GET /api/admin/users. Admin role only.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": emptySafe(users)})
}

// userCreateRequest is the body for POST /api/admin/users.
type userCreateRequest struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
}

// UserCreate serves POST /api/admin/users. The new user signs in with the
// given password and enrolls in 2FA on first login.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "A valid email is required.")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleEditor {
		respondError(w, http.StatusBadRequest, "Role must be admin or editor.")
		return
	}

	existing, err := a.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "A user with that email already exists.")
		return
	}

	user, err := a.users.Create(req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		slog.Error("create user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// UserDelete serves DELETE /api/admin/users/{id}. Self-deletion is
// rejected so the back office cannot lock itself out.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.UserID == id {
		respondError(w, http.StatusBadRequest, "You cannot delete your own account.")
		return
	}

	if err := a.users.Delete(id); err != nil {
		slog.Error("delete user failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UserReset2FA serves POST /api/admin/users/{id}/reset-2fa. The user
// re-enrolls on their next login.
func (a *Admin) UserReset2FA(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := a.users.ResetTOTP(id); err != nil {
		slog.Error("reset totp failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
