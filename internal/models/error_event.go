// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ErrorSource identifies where an error event originated.
type ErrorSource string

const (
	SourceClient ErrorSource = "client"
	SourceAPI    ErrorSource = "api"
	SourceJob    ErrorSource = "job"
)

// ErrorSeverity ranks error events for the admin review screen.
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ValidSource reports whether s is a recognized error source.
func ValidSource(s string) bool {
	switch ErrorSource(s) {
	case SourceClient, SourceAPI, SourceJob:
		return true
	}
	return false
}

// ValidSeverity reports whether s is a recognized severity.
func ValidSeverity(s string) bool {
	switch ErrorSeverity(s) {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityCritical:
		return true
	}
	return false
}

// ErrorEvent is a captured application error, reported either by the
// browser client or by the API itself, reviewed and resolved by admins.
type ErrorEvent struct {
	ID         uuid.UUID     `json:"id"`
	Source     ErrorSource   `json:"source"`
	Severity   ErrorSeverity `json:"severity"`
	Message    string        `json:"message"`
	Stack      *string       `json:"stack"`
	Route      *string       `json:"route"`
	Endpoint   *string       `json:"endpoint"`
	UserID     *uuid.UUID    `json:"user_id"`
	SessionID  *string       `json:"session_id"`
	Metadata   []byte        `json:"metadata"` // Raw JSON, stored as jsonb
	Resolved   bool          `json:"resolved"`
	ResolvedAt *time.Time    `json:"resolved_at"`
	CreatedAt  time.Time     `json:"created_at"`
}
