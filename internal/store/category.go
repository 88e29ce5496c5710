// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"superguide/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB

	// hasSequence records whether the backing schema carries the sequence
	// column. Older deployments predate it; List falls back to ordering by
	// name alone. Set once by DetectCapabilities at startup.
	hasSequence bool
}

// NewCategoryStore returns a new CategoryStore. The store assumes the
// current schema until DetectCapabilities says otherwise.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db, hasSequence: true}
}

const categoryColumns = `id, name, parent_id, sequence, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.ParentID, &c.Sequence, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DetectCapabilities probes the schema once for optional columns. Called at
// startup so per-request queries never need a try-and-retry path.
func (s *CategoryStore) DetectCapabilities() error {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'categories' AND column_name = 'sequence'
		)
	`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("detect category capabilities: %w", err)
	}
	s.hasSequence = exists
	return nil
}

// List returns all categories. With the sequence column present the order
// is (sequence, name); without it, name alone.
func (s *CategoryStore) List() ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY sequence, name`
	if !s.hasSequence {
		query = `SELECT id, name, parent_id, 0, created_at, updated_at FROM categories ORDER BY name`
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Hierarchy returns categories ordered for display: roots first, each
// immediately followed by its direct children. When the hierarchical view
// comes out empty despite non-empty data (cyclic or fully orphaned parent
// references), the flat list is returned instead of nothing.
func (s *CategoryStore) Hierarchy() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	ordered := BuildHierarchy(flat)
	if len(ordered) == 0 && len(flat) > 0 {
		return flat, nil
	}
	return ordered, nil
}

// BuildHierarchy arranges a flat category list into display order: each
// root (nil parent) in its existing order, immediately followed by its
// direct children in their existing order. Categories whose parent id does
// not reference a root in the input are dropped.
func BuildHierarchy(flat []models.Category) []models.Category {
	var ordered []models.Category
	for _, root := range flat {
		if root.ParentID != nil {
			continue
		}
		ordered = append(ordered, root)
		for _, child := range flat {
			if child.ParentID != nil && *child.ParentID == root.ID {
				ordered = append(ordered, child)
			}
		}
	}
	return ordered
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// HasChildren reports whether any category points at this one as parent.
// The hierarchy caps at two levels, so a category with children cannot
// itself become a child.
func (s *CategoryStore) HasChildren(id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE parent_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category children: %w", err)
	}
	return exists, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, parent_id, sequence)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		c.Name, c.ParentID, c.Sequence,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, parent_id = $2, sequence = $3, updated_at = NOW()
		WHERE id = $4
	`, c.Name, c.ParentID, c.Sequence, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. Children are re-parented to roots
// (ON DELETE SET NULL); resources keep their free-text category label.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
