// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package filter applies the public browse filters over an in-memory
// resource set. All predicates are combined by logical AND; input order is
// preserved and there is no ranking.
package filter

import (
	"strings"

	"superguide/internal/models"
)

// Params holds one browse query: free-text search plus eight independent
// facets. An empty string means the facet places no constraint.
type Params struct {
	Query         string
	Category      string
	City          string
	Direction     string
	RecoveryStage string
	Transit       string
	Walkability   string
	Snap          string
	Cost          string
}

// IsZero reports whether nothing at all was asked for. The UI shows a
// distinct empty state for "no query entered" versus "zero matches".
func (p Params) IsZero() bool {
	return p == Params{}
}

// Active returns the number of facets placing a constraint, excluding the
// free-text query. Drives the filter-count badge.
func (p Params) Active() int {
	n := 0
	for _, v := range []string{
		p.Category, p.City, p.Direction, p.RecoveryStage,
		p.Transit, p.Walkability, p.Snap, p.Cost,
	} {
		if v != "" {
			n++
		}
	}
	return n
}

// Apply returns the resources matching every active predicate, in their
// input order.
func Apply(resources []models.Resource, p Params) []models.Resource {
	var out []models.Resource
	for _, r := range resources {
		if Matches(&r, p) {
			out = append(out, r)
		}
	}
	return out
}

// Matches evaluates every active predicate against a single resource.
func Matches(r *models.Resource, p Params) bool {
	if !matchesQuery(r, p.Query) {
		return false
	}
	if p.Category != "" && r.Category != p.Category {
		return false
	}
	if p.City != "" && !strings.Contains(r.CityDirection, p.City) {
		return false
	}
	if p.Direction != "" && !strings.Contains(r.CityDirection, p.Direction) {
		return false
	}
	if p.RecoveryStage != "" && !r.ServesStage(p.RecoveryStage) {
		return false
	}
	if p.Transit != "" && r.TransitAccessibility != p.Transit {
		return false
	}
	if p.Walkability != "" && r.Walkability != p.Walkability {
		return false
	}
	if p.Snap != "" && r.SnapAccepted != p.Snap {
		return false
	}
	if p.Cost != "" && r.Cost != p.Cost {
		return false
	}
	return true
}

// matchesQuery checks the free-text term against name and description,
// case-insensitively. An empty query matches everything.
func matchesQuery(r *models.Resource, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(r.Name), q) {
		return true
	}
	return r.Description != nil && strings.Contains(strings.ToLower(*r.Description), q)
}
