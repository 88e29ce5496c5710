package models

import "testing"

// TestResourceIsVisible verifies that only temporarily closed resources
// disappear from the public directory. needs_verification entries remain
// visible (flagged, not hidden).
func TestResourceIsVisible(t *testing.T) {
	tests := []struct {
		name   string
		status ResourceStatus
		want   bool
	}{
		{name: "active", status: StatusActive, want: true},
		{name: "needs verification", status: StatusNeedsVerification, want: true},
		{name: "temporarily closed", status: StatusTemporarilyClosed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resource{Status: tt.status}
			if got := r.IsVisible(); got != tt.want {
				t.Errorf("IsVisible() with status %q = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

// TestResourceServesStage verifies recovery stage membership checks.
func TestResourceServesStage(t *testing.T) {
	r := &Resource{RecoveryStage: []string{StageCrisis, StageStabilizing}}

	if !r.ServesStage(StageCrisis) {
		t.Error("should serve the crisis stage")
	}
	if r.ServesStage(StageGrowth) {
		t.Error("should not serve the growth stage")
	}

	empty := &Resource{}
	if empty.ServesStage(StageCrisis) {
		t.Error("no stages means no stage is served")
	}
}

// TestValidIssueType verifies the report issue type whitelist.
func TestValidIssueType(t *testing.T) {
	for _, issue := range IssueTypes {
		if !ValidIssueType(issue) {
			t.Errorf("accepted type %q should validate", issue)
		}
	}
	if ValidIssueType("Martian invasion") {
		t.Error("unknown type should not validate")
	}
	if ValidIssueType("") {
		t.Error("empty type should not validate")
	}
}

// TestCategoryIsRoot verifies root detection.
func TestCategoryIsRoot(t *testing.T) {
	root := &Category{}
	if !root.IsRoot() {
		t.Error("category without parent should be a root")
	}

	child := &Category{ParentID: &root.ID}
	if child.IsRoot() {
		t.Error("category with a parent should not be a root")
	}
}

// TestValidSourceAndSeverity verifies the error event enums.
func TestValidSourceAndSeverity(t *testing.T) {
	for _, s := range []string{"client", "api", "job"} {
		if !ValidSource(s) {
			t.Errorf("source %q should validate", s)
		}
	}
	if ValidSource("toaster") {
		t.Error("unknown source should not validate")
	}

	for _, s := range []string{"info", "warning", "error", "critical"} {
		if !ValidSeverity(s) {
			t.Errorf("severity %q should validate", s)
		}
	}
	if ValidSeverity("fatal") {
		t.Error("unknown severity should not validate")
	}
}
