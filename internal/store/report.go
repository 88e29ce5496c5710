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

// ReportStore handles the admin triage queue for visitor reports.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore creates a new ReportStore with the given database connection.
func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

const reportColumns = `r.id, r.resource_id, r.issue_type, r.comment, r.optional_contact,
	r.submitted_at, r.report_status, r.resolution_notes, r.resolved_at`

func scanReport(scanner interface{ Scan(...any) error }) (*models.Report, error) {
	var rep models.Report
	err := scanner.Scan(
		&rep.ID, &rep.ResourceID, &rep.IssueType, &rep.Comment, &rep.OptionalContact,
		&rep.SubmittedAt, &rep.ReportStatus, &rep.ResolutionNotes, &rep.ResolvedAt,
		&rep.ResourceName,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// List returns reports newest first, joined with the resource name for the
// triage view. An empty status lists everything.
func (s *ReportStore) List(status models.ReportStatus) ([]models.Report, error) {
	query := `
		SELECT ` + reportColumns + `, COALESCE(res.name, '')
		FROM reports r
		LEFT JOIN resources res ON res.id = r.resource_id`
	args := []any{}
	if status != "" {
		query += ` WHERE r.report_status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY r.submitted_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var items []models.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		items = append(items, *rep)
	}
	return items, rows.Err()
}

// FindByID retrieves a report by ID. Returns nil if not found.
func (s *ReportStore) FindByID(id uuid.UUID) (*models.Report, error) {
	row := s.db.QueryRow(`
		SELECT `+reportColumns+`, COALESCE(res.name, '')
		FROM reports r
		LEFT JOIN resources res ON res.id = r.resource_id
		WHERE r.id = $1
	`, id)
	rep, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report by id: %w", err)
	}
	return rep, nil
}

// UpdateStatus advances a report through triage. resolved_at is stamped
// exactly when the new status is resolved and cleared on any other status,
// keeping the set-iff-resolved invariant in one place.
func (s *ReportStore) UpdateStatus(id uuid.UUID, status models.ReportStatus, resolutionNotes *string) error {
	var resolvedAt *time.Time
	if status == models.ReportResolved {
		now := time.Now()
		resolvedAt = &now
	}

	res, err := s.db.Exec(`
		UPDATE reports SET
			report_status = $1, resolution_notes = $2, resolved_at = $3
		WHERE id = $4
	`, status, resolutionNotes, resolvedAt, id)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update report status: no row with id %s", id)
	}
	return nil
}

// CountOpen returns the number of reports still awaiting triage.
func (s *ReportStore) CountOpen() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM reports WHERE report_status = 'open'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count open reports: %w", err)
	}
	return count, nil
}
