// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"superguide/internal/session"
)

// guideCookie extracts the guide token cookie from a recorded response.
func guideCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.GuideCookieName {
			return c
		}
	}
	t.Fatal("response should set the guide token cookie")
	return nil
}

// toggleResource posts a toggle for the given resource, attaching the
// cookie when one is provided, and returns the recorder.
func toggleResource(t *testing.T, env *testEnv, id string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"resource_id":"` + id + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/guide", bytes.NewReader([]byte(body)))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.Guide.Toggle(rec, req)
	return rec
}

// TestGuideToggleFlow walks the whole anonymous guide flow: first toggle
// mints the cookie, reads group by category, second toggle removes, and
// clear empties the selection.
func TestGuideToggleFlow(t *testing.T) {
	env := newTestEnv(t)
	pantry := seedResource(t, env, "Open Pantry", "Food")
	shelter := seedResource(t, env, "Night Shelter", "Housing")

	// First toggle mints the token cookie and adds the resource.
	rec := toggleResource(t, env, pantry.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status: got %d, body %s", rec.Code, rec.Body.String())
	}
	cookie := guideCookie(t, rec)
	if !cookie.HttpOnly {
		t.Error("guide cookie should be HttpOnly")
	}

	var toggle struct {
		Selected bool `json:"selected"`
		Count    int  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &toggle); err != nil {
		t.Fatalf("decode toggle: %v", err)
	}
	if !toggle.Selected || toggle.Count != 1 {
		t.Errorf("first toggle: got selected=%v count=%d", toggle.Selected, toggle.Count)
	}

	// Second resource joins the same selection.
	rec = toggleResource(t, env, shelter.ID.String(), cookie)
	if err := json.Unmarshal(rec.Body.Bytes(), &toggle); err != nil {
		t.Fatalf("decode toggle: %v", err)
	}
	if toggle.Count != 2 {
		t.Errorf("second toggle count: got %d, want 2", toggle.Count)
	}

	// Read back grouped by category.
	req := httptest.NewRequest(http.MethodGet, "/api/guide", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.Guide.Get(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status: got %d", rec.Code)
	}

	var guideResp guideResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &guideResp); err != nil {
		t.Fatalf("decode guide: %v", err)
	}
	if guideResp.Count != 2 || len(guideResp.Groups) != 2 {
		t.Fatalf("guide: got count=%d groups=%d", guideResp.Count, len(guideResp.Groups))
	}
	// Resolution orders by resource name, so the shelter's group leads.
	if guideResp.Groups[0].Category != "Housing" || guideResp.Groups[1].Category != "Food" {
		t.Errorf("group order: got %q then %q", guideResp.Groups[0].Category, guideResp.Groups[1].Category)
	}

	// Toggling the pantry again removes it.
	rec = toggleResource(t, env, pantry.ID.String(), cookie)
	if err := json.Unmarshal(rec.Body.Bytes(), &toggle); err != nil {
		t.Fatalf("decode toggle: %v", err)
	}
	if toggle.Selected || toggle.Count != 1 {
		t.Errorf("re-toggle: got selected=%v count=%d, want false/1", toggle.Selected, toggle.Count)
	}

	// Clear empties everything.
	req = httptest.NewRequest(http.MethodDelete, "/api/guide", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.Guide.Clear(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status: got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/guide", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.Guide.Get(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &guideResp); err != nil {
		t.Fatalf("decode guide: %v", err)
	}
	if guideResp.Count != 0 || len(guideResp.Groups) != 0 {
		t.Errorf("after clear: got count=%d groups=%d", guideResp.Count, len(guideResp.Groups))
	}
}

// TestGuideGetWithoutCookie verifies that a visitor without a token just
// sees an empty guide, with no cookie minted by the read.
func TestGuideGetWithoutCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Guide.Get(rec, httptest.NewRequest(http.MethodGet, "/api/guide", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var resp guideResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode guide: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("count: got %d, want 0", resp.Count)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("a guide read must not set cookies")
	}
}

// TestGuideToggleRejectsBadInput covers validation on the toggle endpoint.
func TestGuideToggleRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing id", `{}`},
		{"nil id", `{"resource_id":"00000000-0000-0000-0000-000000000000"}`},
		{"malformed", `{"resource_id":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/guide", bytes.NewReader([]byte(tc.body)))
			rec := httptest.NewRecorder()
			env.Guide.Toggle(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

// TestGuideExport verifies the PDF download, both with a selection and for
// a visitor who never toggled anything.
func TestGuideExport(t *testing.T) {
	env := newTestEnv(t)
	pantry := seedResource(t, env, "Open Pantry", "Food")

	rec := toggleResource(t, env, pantry.ID.String(), nil)
	cookie := guideCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/api/guide/export", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.Guide.Export(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "my-resource-list-") {
		t.Errorf("Content-Disposition: got %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body should be a PDF document")
	}

	// No cookie still yields a valid, empty document.
	rec = httptest.NewRecorder()
	env.Guide.Export(rec, httptest.NewRequest(http.MethodGet, "/api/guide/export", nil))
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Errorf("empty export: got %d", rec.Code)
	}
}
