// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// The production limiter tiers are 10/min for login, 5/min for report
// filing, and 30/min for client error intake. The report tier is the
// tightest, so it drives most of the assertions here.

func TestRateLimiterReportTier(t *testing.T) {
	rl := NewRateLimiter(5, 1*time.Minute)
	defer rl.Stop()

	for i := 0; i < 5; i++ {
		if !rl.allow("203.0.113.7") {
			t.Fatalf("report %d of 5 should be allowed", i+1)
		}
	}

	if rl.allow("203.0.113.7") {
		t.Error("6th report in the window should be rejected")
	}

	// Limits are per client, a second visitor is unaffected.
	if !rl.allow("203.0.113.8") {
		t.Error("a different client should still be allowed")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, 100*time.Millisecond)
	defer rl.Stop()

	rl.allow("203.0.113.7")
	rl.allow("203.0.113.7")

	if rl.allow("203.0.113.7") {
		t.Error("should be rate-limited inside the window")
	}

	time.Sleep(150 * time.Millisecond)

	if !rl.allow("203.0.113.7") {
		t.Error("should be allowed once the window slides past")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	// Shrunk to 2 so the test does not need 10 requests; shape matches
	// the login tier.
	rl := NewRateLimiter(2, 1*time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "198.51.100.4:40312"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("attempt %d: got status %d, want 200", i+1, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "198.51.100.4:40312"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("got status %d, want 429", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{
			name:       "forwarded-for from reverse proxy",
			xff:        "203.0.113.7",
			remoteAddr: "10.0.0.5:1234",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded-for chain keeps the originating client",
			xff:        "203.0.113.7, 172.16.0.1, 10.0.0.5",
			remoteAddr: "10.0.0.5:1234",
			want:       "203.0.113.7",
		},
		{
			name:       "real-ip header",
			xri:        "203.0.113.9",
			remoteAddr: "10.0.0.5:1234",
			want:       "203.0.113.9",
		},
		{
			name:       "direct connection strips port",
			remoteAddr: "198.51.100.4:40312",
			want:       "198.51.100.4",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "198.51.100.4",
			want:       "198.51.100.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, 50*time.Millisecond)
	defer rl.Stop()

	rl.allow("203.0.113.7")
	rl.allow("203.0.113.8")

	time.Sleep(100 * time.Millisecond)

	rl.cleanup()

	rl.mu.RLock()
	count := len(rl.clients)
	rl.mu.RUnlock()

	if count != 0 {
		t.Errorf("cleanup should drop idle clients, %d remain", count)
	}
}

func TestRateLimiterCleanupKeepsActiveClients(t *testing.T) {
	rl := NewRateLimiter(10, 200*time.Millisecond)
	defer rl.Stop()

	rl.allow("idle-client")
	rl.allow("active-client")

	time.Sleep(250 * time.Millisecond)

	// Only the active client touches the limiter again.
	rl.allow("active-client")

	rl.cleanup()

	rl.mu.RLock()
	_, idle := rl.clients["idle-client"]
	_, active := rl.clients["active-client"]
	rl.mu.RUnlock()

	if idle {
		t.Error("idle client should have been dropped")
	}
	if !active {
		t.Error("active client should survive cleanup")
	}
}
