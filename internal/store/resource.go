// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"superguide/internal/models"
)

// ResourceStore handles all resource-related database operations.
type ResourceStore struct {
	db *sql.DB
}

// NewResourceStore creates a new ResourceStore with the given database connection.
func NewResourceStore(db *sql.DB) *ResourceStore {
	return &ResourceStore{db: db}
}

const resourceColumns = `id, name, category, city_direction, recovery_stage,
	transit_accessibility, walkability, access_indicators, snap_accepted,
	cost, address, phone, website, hours, description, best_for,
	status, last_verified_date, verification_notes, open_report_count, created_at`

// scanResource scans a row into a Resource struct. The TEXT[] columns go
// through pq.Array, which parses the Postgres array literal regardless of
// the underlying driver.
func scanResource(scanner interface{ Scan(...any) error }) (*models.Resource, error) {
	var r models.Resource
	err := scanner.Scan(
		&r.ID, &r.Name, &r.Category, &r.CityDirection, pq.Array(&r.RecoveryStage),
		&r.TransitAccessibility, &r.Walkability, pq.Array(&r.AccessIndicators),
		&r.SnapAccepted, &r.Cost, &r.Address, &r.Phone, &r.Website, &r.Hours,
		&r.Description, &r.BestFor, &r.Status, &r.LastVerifiedDate,
		&r.VerificationNotes, &r.OpenReportCount, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// textArray wraps a string slice for a NOT NULL TEXT[] column, mapping nil
// to the empty array instead of SQL NULL.
func textArray(s []string) any {
	if s == nil {
		s = []string{}
	}
	return pq.Array(s)
}

func (s *ResourceStore) queryList(query string, args ...any) ([]models.Resource, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var items []models.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// ListPublic returns every resource visible to visitors (everything except
// temporarily closed entries), ordered by name.
func (s *ResourceStore) ListPublic() ([]models.Resource, error) {
	return s.queryList(`
		SELECT ` + resourceColumns + ` FROM resources
		WHERE status != 'temporarily_closed'
		ORDER BY name
	`)
}

// ListVerified returns only fully verified resources, ordered by name.
// The strict browse view excludes entries awaiting verification.
func (s *ResourceStore) ListVerified() ([]models.Resource, error) {
	return s.queryList(`
		SELECT ` + resourceColumns + ` FROM resources
		WHERE status = 'active'
		ORDER BY name
	`)
}

// ListAll returns every resource for the admin view, newest first.
func (s *ResourceStore) ListAll() ([]models.Resource, error) {
	return s.queryList(`
		SELECT ` + resourceColumns + ` FROM resources
		ORDER BY created_at DESC
	`)
}

// FindByID retrieves a resource by its UUID. Returns nil if not found.
func (s *ResourceStore) FindByID(id uuid.UUID) (*models.Resource, error) {
	row := s.db.QueryRow(`SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id)
	r, err := scanResource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find resource by id: %w", err)
	}
	return r, nil
}

// FindByIDs bulk-fetches resources for a set of ids, ordered by name.
// Ids with no matching row are silently absent from the result, so stale
// guide entries resolve to nothing rather than an error.
func (s *ResourceStore) FindByIDs(ids []uuid.UUID) ([]models.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.queryList(`
		SELECT `+resourceColumns+` FROM resources
		WHERE id = ANY($1)
		ORDER BY name
	`, pq.Array(ids))
}

// Create inserts a new resource and returns it with the generated ID.
func (s *ResourceStore) Create(r *models.Resource) (*models.Resource, error) {
	row := s.db.QueryRow(`
		INSERT INTO resources (name, category, city_direction, recovery_stage,
		                       transit_accessibility, walkability, access_indicators,
		                       snap_accepted, cost, address, phone, website, hours,
		                       description, best_for, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+resourceColumns,
		r.Name, r.Category, r.CityDirection, textArray(r.RecoveryStage),
		r.TransitAccessibility, r.Walkability, textArray(r.AccessIndicators),
		r.SnapAccepted, r.Cost, r.Address, r.Phone, r.Website, r.Hours,
		r.Description, r.BestFor, r.Status,
	)
	result, err := scanResource(row)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return result, nil
}

// Update modifies an existing resource's descriptive fields and status.
// Verification fields and the report counter are managed by Verify and
// FileReport, not here. Last write wins; no concurrency token is checked.
func (s *ResourceStore) Update(r *models.Resource) error {
	_, err := s.db.Exec(`
		UPDATE resources SET
			name = $1, category = $2, city_direction = $3, recovery_stage = $4,
			transit_accessibility = $5, walkability = $6, access_indicators = $7,
			snap_accepted = $8, cost = $9, address = $10, phone = $11,
			website = $12, hours = $13, description = $14, best_for = $15,
			status = $16
		WHERE id = $17
	`, r.Name, r.Category, r.CityDirection, textArray(r.RecoveryStage),
		r.TransitAccessibility, r.Walkability, textArray(r.AccessIndicators),
		r.SnapAccepted, r.Cost, r.Address, r.Phone, r.Website, r.Hours,
		r.Description, r.BestFor, r.Status, r.ID)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	return nil
}

// Delete removes a resource by ID. Its reports go with it (ON DELETE CASCADE).
func (s *ResourceStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

// Verify marks a resource as verified: status back to active, today's date
// stamped, notes recorded. The open report counter resets to zero only when
// resetCount is set; otherwise it keeps its value.
func (s *ResourceStore) Verify(id uuid.UUID, notes string, resetCount bool) error {
	res, err := s.db.Exec(`
		UPDATE resources SET
			status = 'active',
			last_verified_date = CURRENT_DATE,
			verification_notes = $1,
			open_report_count = CASE WHEN $2 THEN 0 ELSE open_report_count END
		WHERE id = $3
	`, notes, resetCount, id)
	if err != nil {
		return fmt.Errorf("verify resource: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("verify resource: no row with id %s", id)
	}
	return nil
}

// FileReport records a visitor report against a resource: it inserts the
// report row, then flags the resource for verification and bumps its open
// report counter. The two writes are best-effort, not transactional: if
// the resource update fails the report row stays behind as an orphan, which
// admins can still see in the triage queue. Either failure fails the call.
func (s *ResourceStore) FileReport(resourceID uuid.UUID, issueType string, comment, contact *string) (*models.Report, error) {
	var rep models.Report
	err := s.db.QueryRow(`
		INSERT INTO reports (resource_id, issue_type, comment, optional_contact, report_status, submitted_at)
		VALUES ($1, $2, $3, $4, 'open', $5)
		RETURNING id, resource_id, issue_type, comment, optional_contact,
		          submitted_at, report_status, resolution_notes, resolved_at
	`, resourceID, issueType, comment, contact, time.Now()).Scan(
		&rep.ID, &rep.ResourceID, &rep.IssueType, &rep.Comment, &rep.OptionalContact,
		&rep.SubmittedAt, &rep.ReportStatus, &rep.ResolutionNotes, &rep.ResolvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE resources SET
			status = 'needs_verification',
			open_report_count = open_report_count + 1
		WHERE id = $1
	`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("flag resource after report: %w", err)
	}

	return &rep, nil
}
