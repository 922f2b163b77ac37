package app

import (
	"strings"
	"testing"
	"time"

	"github.com/phaseeng/taskdesk/internal/domain"
)

// TestAssignmentsCSVHeader pins the exact column set and order.
func TestAssignmentsCSVHeader(t *testing.T) {
	got := AssignmentsCSV(nil, testNow)
	want := "S.N.,Date Assigned,Employee Name,Employee ID,Designation,Task Type,Project,Task Details,Deadline,Priority,Work Status,Employee Remarks,Last Update Date,CEO Comment,Done Date,Days Left,Overdue?"
	if got != want {
		t.Fatalf("AssignmentsCSV(empty) = %q, want header only", got)
	}
}

// TestAssignmentsCSVRow checks field rendering: RFC3339 last update, Yes/No
// overdue, days left from the shared domain computation.
func TestAssignmentsCSVRow(t *testing.T) {
	lastUpdate := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	done := domain.Date("2026-03-14")
	rows := []domain.Assignment{{
		SN:              7,
		DateAssigned:    "2026-03-10",
		EmployeeID:      "emp-1",
		EmployeeName:    "Nahid Hasan",
		EmployeeHumanID: "EMP-001",
		Designation:     "Engineer",
		TaskType:        "Design",
		Project:         "Tower A",
		TaskDetails:     "Initial sketches",
		Deadline:        "2026-03-12",
		Priority:        domain.PriorityHigh,
		WorkStatus:      domain.StatusDone,
		EmployeeRemarks: "done ahead of time",
		LastUpdateAt:    &lastUpdate,
		CEOComment:      "good",
		DoneDate:        &done,
	}}

	out := AssignmentsCSV(rows, testNow)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("AssignmentsCSV() lines = %d, want 2", len(lines))
	}
	want := "7,2026-03-10,Nahid Hasan,EMP-001,Engineer,Design,Tower A,Initial sketches,2026-03-12,HIGH,DONE,done ahead of time,2026-03-14T09:30:00Z,good,2026-03-14,-3,No"
	if lines[1] != want {
		t.Fatalf("AssignmentsCSV() row = %q, want %q", lines[1], want)
	}
}

// TestAssignmentsCSVEscaping checks the quote-when-needed rule.
func TestAssignmentsCSVEscaping(t *testing.T) {
	rows := []domain.Assignment{{
		EmployeeName: `Nahid "The Planner" Hasan`,
		TaskDetails:  "line one\nline two",
		Project:      "Tower A, Phase 2",
		CEOComment:   "plain",
	}}

	out := AssignmentsCSV(rows, testNow)
	if !strings.Contains(out, `"Nahid ""The Planner"" Hasan"`) {
		t.Fatalf("quotes not doubled: %q", out)
	}
	if !strings.Contains(out, "\"line one\nline two\"") {
		t.Fatalf("newline field not quoted: %q", out)
	}
	if !strings.Contains(out, `"Tower A, Phase 2"`) {
		t.Fatalf("comma field not quoted: %q", out)
	}
	if strings.Contains(out, `"plain"`) {
		t.Fatalf("plain field quoted: %q", out)
	}
}

// TestNewFilteredExport checks the artifact envelope and the nil-row backfill.
func TestNewFilteredExport(t *testing.T) {
	doc := NewFilteredExport(nil, testNow)
	if doc.SchemaVersion != FilteredExportVersion {
		t.Fatalf("SchemaVersion = %d, want %d", doc.SchemaVersion, FilteredExportVersion)
	}
	if doc.Assignments == nil {
		t.Fatal("Assignments = nil, want empty slice")
	}
	if !doc.UpdatedAt.Equal(testNow) {
		t.Fatalf("UpdatedAt = %v, want %v", doc.UpdatedAt, testNow)
	}
}
