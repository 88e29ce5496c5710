// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"superguide/internal/models"
)

// ErrorEventStore persists captured application errors for admin review.
type ErrorEventStore struct {
	db *sql.DB
}

// NewErrorEventStore creates a new ErrorEventStore.
func NewErrorEventStore(db *sql.DB) *ErrorEventStore {
	return &ErrorEventStore{db: db}
}

const errorEventColumns = `id, source, severity, message, stack, route, endpoint,
	user_id, session_id, metadata, resolved, resolved_at, created_at`

func scanErrorEvent(scanner interface{ Scan(...any) error }) (*models.ErrorEvent, error) {
	var e models.ErrorEvent
	err := scanner.Scan(
		&e.ID, &e.Source, &e.Severity, &e.Message, &e.Stack, &e.Route, &e.Endpoint,
		&e.UserID, &e.SessionID, &e.Metadata, &e.Resolved, &e.ResolvedAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert records a new error event, filling in the generated ID and
// creation time.
func (s *ErrorEventStore) Insert(e *models.ErrorEvent) error {
	err := s.db.QueryRow(`
		INSERT INTO error_events (source, severity, message, stack, route, endpoint,
		                          user_id, session_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, e.Source, e.Severity, e.Message, e.Stack, e.Route, e.Endpoint,
		e.UserID, e.SessionID, nullableJSON(e.Metadata)).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert error event: %w", err)
	}
	return nil
}

// nullableJSON maps empty metadata to SQL NULL instead of an invalid empty
// jsonb value.
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

// ListFilter narrows the admin error-event listing. Zero values mean no
// constraint; Resolved is a tri-state pointer.
type ListFilter struct {
	Severity string
	Source   string
	Resolved *bool
	Limit    int
}

// List returns error events newest first, applying the filter.
func (s *ErrorEventStore) List(f ListFilter) ([]models.ErrorEvent, error) {
	query := `SELECT ` + errorEventColumns + ` FROM error_events WHERE 1=1`
	var args []any
	n := 0
	next := func() string { n++; return fmt.Sprintf("$%d", n) }

	if f.Severity != "" {
		query += ` AND severity = ` + next()
		args = append(args, f.Severity)
	}
	if f.Source != "" {
		query += ` AND source = ` + next()
		args = append(args, f.Source)
	}
	if f.Resolved != nil {
		query += ` AND resolved = ` + next()
		args = append(args, *f.Resolved)
	}
	query += ` ORDER BY created_at DESC`
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + next()
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list error events: %w", err)
	}
	defer rows.Close()

	var items []models.ErrorEvent
	for rows.Next() {
		e, err := scanErrorEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error event: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// ToggleResolved flips the resolved flag on an event, stamping or clearing
// resolved_at to match.
func (s *ErrorEventStore) ToggleResolved(id uuid.UUID) error {
	res, err := s.db.Exec(`
		UPDATE error_events SET
			resolved = NOT resolved,
			resolved_at = CASE WHEN resolved THEN NULL ELSE $1 END
		WHERE id = $2
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("toggle error event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("toggle error event: no row with id %s", id)
	}
	return nil
}
