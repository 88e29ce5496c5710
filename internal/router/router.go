// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// SuperGuide API. Routes are organized into public, guide, auth, and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"superguide/internal/handlers"
	"superguide/internal/middleware"
	"superguide/internal/session"
)

// Limiters holds the rate limiters applied to the anonymous write
// endpoints. The caller owns their lifecycle and stops them on shutdown.
type Limiters struct {
	Login   *middleware.RateLimiter
	Reports *middleware.RateLimiter
	Errors  *middleware.RateLimiter
}

// New creates the configured chi router with all middleware and route
// groups wired up. secure controls the Secure flag on the CSRF cookie.
func New(sessionStore *session.Store, public *handlers.Public, guide *handlers.Guide, auth *handlers.Auth, admin *handlers.Admin, limiters Limiters, secure bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check, no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Public directory, anonymous reads.
		r.Get("/resources", public.Resources)
		r.Get("/resources/{id}", public.Resource)
		r.Get("/categories", public.Categories)

		// Anonymous writes, rate limited per client IP.
		r.With(limiters.Reports.Middleware).Post("/resources/{id}/reports", public.FileReport)
		r.With(limiters.Errors.Middleware).Post("/log-error", public.LogError)

		// Personal guide, keyed by the anonymous token cookie.
		r.Route("/guide", func(r chi.Router) {
			r.Get("/", guide.Get)
			r.Post("/", guide.Toggle)
			r.Delete("/", guide.Clear)
			r.Get("/export", guide.Export)
		})

		// Authentication.
		r.Route("/auth", func(r chi.Router) {
			r.With(limiters.Login.Middleware).Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)

			// 2FA needs a session but not completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/setup", auth.TwoFASetup)
				r.Post("/2fa/verify", auth.TwoFAVerify)
			})
		})

		// Back office, authenticated, 2FA-verified, CSRF-protected.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NewCSRF(secure))
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/dashboard", admin.Dashboard)

			r.Route("/resources", func(r chi.Router) {
				r.Get("/", admin.ResourcesList)
				r.Post("/", admin.ResourceCreate)
				r.Put("/{id}", admin.ResourceUpdate)
				r.Delete("/{id}", admin.ResourceDelete)
				r.Post("/{id}/verify", admin.ResourceVerify)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Post("/", admin.CategoryCreate)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", admin.ReportsList)
				r.Put("/{id}", admin.ReportUpdate)
			})

			r.Route("/errors", func(r chi.Router) {
				r.Get("/", admin.ErrorsList)
				r.Post("/{id}/toggle", admin.ErrorToggleResolved)
			})

			// User management, admin role only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.UsersList)
				r.Post("/", admin.UserCreate)
				r.Delete("/{id}", admin.UserDelete)
				r.Post("/{id}/reset-2fa", admin.UserReset2FA)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
