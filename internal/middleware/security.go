// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// SecureHeaders sets defensive headers on every response. The server only
// ever serves JSON (and the PDF export), never HTML, so the policy here is
// stricter than a page-serving app could afford.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// Responses carry explicit Content-Type; never let a browser sniff
		// a JSON body into something executable.
		h.Set("X-Content-Type-Options", "nosniff")

		// Nothing this API returns is meant to be framed.
		h.Set("X-Frame-Options", "DENY")

		// A no-HTML origin can deny everything. This also stops an API
		// response from doing anything if a browser renders it directly.
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Disable the legacy XSS auditor; it is deprecated and its block
		// mode could be abused to suppress responses.
		h.Set("X-XSS-Protection", "0")

		// API URLs can carry resource ids; keep them out of referrers.
		h.Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}
