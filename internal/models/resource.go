// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ResourceStatus represents the verification state of a directory entry.
type ResourceStatus string

const (
	StatusActive            ResourceStatus = "active"
	StatusNeedsVerification ResourceStatus = "needs_verification"
	StatusTemporarilyClosed ResourceStatus = "temporarily_closed"
)

// Recovery stages a resource can serve. A resource may serve several.
const (
	StageCrisis      = "crisis"
	StageStabilizing = "stabilizing"
	StageGrowth      = "growth"
)

// TransitLevels enumerates the accepted transit_accessibility values.
var TransitLevels = []string{
	"On Major Bus Line",
	"Near Light Rail (Green Line / Blue Line)",
	"Multiple Transit Options",
	"Limited Transit Access",
	"Car Recommended",
}

// WalkabilityLevels enumerates the accepted walkability values.
var WalkabilityLevels = []string{
	"Walkable ≤ 15 minutes",
	"Walkable 16–30 minutes",
	"Unknown",
}

// CostLevels enumerates the accepted cost values.
var CostLevels = []string{"Free", "Sliding scale", "Insurance", "Fee", "Mixed"}

// SnapValues enumerates the accepted snap_accepted values.
var SnapValues = []string{"Yes", "No", "N/A"}

// Resource is a single directory entry describing a support service.
// Category and city_direction are free text; category is expected to match
// a Category name but is not a foreign key.
type Resource struct {
	ID                   uuid.UUID      `json:"id"`
	Name                 string         `json:"name"`
	Category             string         `json:"category"`
	CityDirection        string         `json:"city_direction"`
	RecoveryStage        []string       `json:"recovery_stage"`
	TransitAccessibility string         `json:"transit_accessibility"`
	Walkability          string         `json:"walkability"`
	AccessIndicators     []string       `json:"access_indicators"`
	SnapAccepted         string         `json:"snap_accepted"`
	Cost                 string         `json:"cost"`
	Address              string         `json:"address"`
	Phone                *string        `json:"phone"`
	Website              *string        `json:"website"`
	Hours                *string        `json:"hours"`
	Description          *string        `json:"description"`
	BestFor              *string        `json:"best_for"`
	Status               ResourceStatus `json:"status"`
	LastVerifiedDate     *time.Time     `json:"last_verified_date"`
	VerificationNotes    *string        `json:"verification_notes"`
	OpenReportCount      int            `json:"open_report_count"`
	CreatedAt            time.Time      `json:"created_at"`
}

// ServesStage returns true if the resource serves the given recovery stage.
func (r *Resource) ServesStage(stage string) bool {
	for _, s := range r.RecoveryStage {
		if s == stage {
			return true
		}
	}
	return false
}

// IsVisible returns true if the resource appears in public listings
// (everything except temporarily closed entries).
func (r *Resource) IsVisible() bool {
	return r.Status != StatusTemporarilyClosed
}
