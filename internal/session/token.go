// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import "net/http"

// GuideCookieName identifies a visitor's guide selection. Unlike the admin
// session cookie it carries no identity; it is a random handle to a
// server-side id list.
const GuideCookieName = "sg_guide"

// guideCookieMaxAge keeps the cookie around longer than the selection's
// Valkey TTL so a returning visitor reuses the same token.
const guideCookieMaxAge = 365 * 24 * 60 * 60

// GuideToken returns the visitor's guide token, if any.
func GuideToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(GuideCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// EnsureGuideToken returns the visitor's guide token, minting and setting
// one when the request has none. Called only on writes, so browsing never
// sets a cookie.
func EnsureGuideToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if token, ok := GuideToken(r); ok {
		return token, nil
	}
	token, err := generateID()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     GuideCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   guideCookieMaxAge,
	})
	return token, nil
}
