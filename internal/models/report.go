// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus represents the triage state of a user-submitted report.
type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportInReview  ReportStatus = "in_review"
	ReportResolved  ReportStatus = "resolved"
	ReportDuplicate ReportStatus = "duplicate"
)

// IssueTypes lists the accepted issue_type values for a report, as offered
// on the resource detail page.
var IssueTypes = []string{
	"Closed / no longer operating",
	"Wrong phone number",
	"Wrong address",
	"Wrong hours",
	"SNAP info wrong",
	"Eligibility inaccurate",
	"Other",
}

// ValidIssueType reports whether s is one of the accepted issue types.
func ValidIssueType(s string) bool {
	for _, t := range IssueTypes {
		if t == s {
			return true
		}
	}
	return false
}

// Report is a visitor-submitted flag that a resource's data may be
// inaccurate. ResolvedAt is set if and only if the status is resolved.
type Report struct {
	ID              uuid.UUID    `json:"id"`
	ResourceID      uuid.UUID    `json:"resource_id"`
	IssueType       string       `json:"issue_type"`
	Comment         *string      `json:"comment"`
	OptionalContact *string      `json:"optional_contact"`
	SubmittedAt     time.Time    `json:"submitted_at"`
	ReportStatus    ReportStatus `json:"report_status"`
	ResolutionNotes *string      `json:"resolution_notes"`
	ResolvedAt      *time.Time   `json:"resolved_at"`

	// Virtual field populated by store methods for the admin triage view.
	ResourceName string `json:"resource_name,omitempty"`
}
