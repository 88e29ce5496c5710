package handlers

import (
	"strings"
	"unicode/utf8"

	"superguide/internal/models"
)

// Validation limits for resource and report fields.
const (
	maxNameLen     = 300
	maxLabelLen    = 200
	maxFreeTextLen = 2_000
	maxCommentLen  = 2_000
	maxContactLen  = 300
	maxMessageLen  = 10_000
	maxStackLen    = 50_000
)

// validateResource checks resource inputs and returns the first error found.
// Empty facet values are allowed; non-empty ones must come from the
// accepted lists so the browse filters stay coherent.
func validateResource(r *models.Resource) string {
	if strings.TrimSpace(r.Name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(r.Name) > maxNameLen {
		return "Name is too long (max 300 characters)."
	}
	if strings.TrimSpace(r.Category) == "" {
		return "Category is required."
	}
	if utf8.RuneCountInString(r.Category) > maxLabelLen {
		return "Category is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(r.CityDirection) > maxLabelLen {
		return "City/direction is too long (max 200 characters)."
	}
	for _, stage := range r.RecoveryStage {
		if stage != models.StageCrisis && stage != models.StageStabilizing && stage != models.StageGrowth {
			return "Unknown recovery stage: " + stage
		}
	}
	if r.TransitAccessibility != "" && !oneOf(r.TransitAccessibility, models.TransitLevels) {
		return "Unknown transit accessibility value."
	}
	if r.Walkability != "" && !oneOf(r.Walkability, models.WalkabilityLevels) {
		return "Unknown walkability value."
	}
	if r.SnapAccepted != "" && !oneOf(r.SnapAccepted, models.SnapValues) {
		return "Unknown SNAP value."
	}
	if r.Cost != "" && !oneOf(r.Cost, models.CostLevels) {
		return "Unknown cost value."
	}
	switch r.Status {
	case "", models.StatusActive, models.StatusNeedsVerification, models.StatusTemporarilyClosed:
	default:
		return "Unknown status value."
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > maxFreeTextLen {
		return "Description is too long (max 2,000 characters)."
	}
	if r.BestFor != nil && utf8.RuneCountInString(*r.BestFor) > maxFreeTextLen {
		return "Best-for note is too long (max 2,000 characters)."
	}
	return ""
}

// validateCategoryName checks a category name.
func validateCategoryName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxLabelLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

// validateReport checks an incoming issue report.
func validateReport(issueType string, comment, contact *string) string {
	if !models.ValidIssueType(issueType) {
		return "Unknown issue type."
	}
	if comment != nil && utf8.RuneCountInString(*comment) > maxCommentLen {
		return "Comment is too long (max 2,000 characters)."
	}
	if contact != nil && utf8.RuneCountInString(*contact) > maxContactLen {
		return "Contact is too long (max 300 characters)."
	}
	return ""
}

// validateErrorEvent checks a client-submitted error report.
func validateErrorEvent(message, source, severity string, stack *string) string {
	if strings.TrimSpace(message) == "" {
		return "Message is required."
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return "Message is too long (max 10,000 characters)."
	}
	if !models.ValidSource(source) {
		return "Unknown error source."
	}
	if severity != "" && !models.ValidSeverity(severity) {
		return "Unknown severity."
	}
	if stack != nil && utf8.RuneCountInString(*stack) > maxStackLen {
		return "Stack trace is too long (max 50,000 characters)."
	}
	return ""
}

func oneOf(v string, accepted []string) bool {
	for _, a := range accepted {
		if a == v {
			return true
		}
	}
	return false
}
