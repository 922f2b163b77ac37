package domain

import (
	"testing"
	"time"
)

func testRoster() []Employee {
	return []Employee{
		{ID: "emp-1", Name: "Nahid Hasan", HumanID: "EMP-001", Designation: "Engineer", AccessCode: 20001},
		{ID: "emp-2", Name: "Asma Begum", HumanID: "EMP-002", Designation: "Designer", AccessCode: 20002},
	}
}

// TestSyncSnapshot verifies the roster-to-row snapshot derivation, including
// the keep-prior and unknown-backfill branches for missing employees.
func TestSyncSnapshot(t *testing.T) {
	roster := testRoster()

	a := Assignment{EmployeeID: "emp-2"}
	a.SyncSnapshot(roster)
	if a.EmployeeName != "Asma Begum" || a.EmployeeHumanID != "EMP-002" || a.Designation != "Designer" {
		t.Fatalf("SyncSnapshot() = %q/%q/%q, want roster values", a.EmployeeName, a.EmployeeHumanID, a.Designation)
	}

	kept := Assignment{EmployeeID: "emp-gone", EmployeeName: "Old Name", EmployeeHumanID: "EMP-009"}
	kept.SyncSnapshot(roster)
	if kept.EmployeeName != "Old Name" || kept.EmployeeHumanID != "EMP-009" {
		t.Fatalf("SyncSnapshot(missing employee) overwrote prior snapshot: %q/%q", kept.EmployeeName, kept.EmployeeHumanID)
	}

	blank := Assignment{EmployeeID: "emp-gone"}
	blank.SyncSnapshot(roster)
	if blank.EmployeeName != "Unknown" {
		t.Fatalf("SyncSnapshot(missing, no prior) name = %q, want Unknown", blank.EmployeeName)
	}
}

// TestMarkEmployeeDeleted checks the non-cascading deletion sentinel.
func TestMarkEmployeeDeleted(t *testing.T) {
	a := Assignment{EmployeeID: "emp-1", EmployeeName: "Nahid Hasan", EmployeeHumanID: "EMP-001", Designation: "Engineer"}
	a.MarkEmployeeDeleted()
	if a.EmployeeName != DeletedEmployeeName {
		t.Fatalf("MarkEmployeeDeleted() name = %q, want %q", a.EmployeeName, DeletedEmployeeName)
	}
	if a.EmployeeHumanID != "" || a.Designation != "" {
		t.Fatalf("MarkEmployeeDeleted() left %q/%q, want empty", a.EmployeeHumanID, a.Designation)
	}
	if a.EmployeeID != "emp-1" {
		t.Fatalf("MarkEmployeeDeleted() changed EmployeeID to %q", a.EmployeeID)
	}
}

// TestSetWorkStatusDoneDate exercises the done-date invariant across every
// transition: non-nil exactly when DONE, with patch > existing > today
// resolution for the date itself.
func TestSetWorkStatusDoneDate(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	a := Assignment{WorkStatus: StatusNotStarted}
	if err := a.SetWorkStatus(StatusDone, nil, now); err != nil {
		t.Fatalf("SetWorkStatus(DONE) error = %v", err)
	}
	if a.DoneDate == nil || *a.DoneDate != Date("2026-03-15") {
		t.Fatalf("SetWorkStatus(DONE, nil) DoneDate = %v, want today", a.DoneDate)
	}

	explicit := Date("2026-03-10")
	if err := a.SetWorkStatus(StatusDone, &explicit, now); err != nil {
		t.Fatalf("SetWorkStatus(DONE, explicit) error = %v", err)
	}
	if a.DoneDate == nil || *a.DoneDate != explicit {
		t.Fatalf("SetWorkStatus(DONE, explicit) DoneDate = %v, want %v", a.DoneDate, explicit)
	}

	// Re-marking DONE without a date keeps the recorded day.
	if err := a.SetWorkStatus(StatusDone, nil, now); err != nil {
		t.Fatalf("SetWorkStatus(DONE again) error = %v", err)
	}
	if a.DoneDate == nil || *a.DoneDate != explicit {
		t.Fatalf("SetWorkStatus(DONE again) DoneDate = %v, want kept %v", a.DoneDate, explicit)
	}

	if err := a.SetWorkStatus(StatusInProgress, nil, now); err != nil {
		t.Fatalf("SetWorkStatus(IN_PROGRESS) error = %v", err)
	}
	if a.DoneDate != nil {
		t.Fatalf("SetWorkStatus(IN_PROGRESS) DoneDate = %v, want nil", a.DoneDate)
	}

	if err := a.SetWorkStatus("SHIPPED", nil, now); err != ErrInvalidStatus {
		t.Fatalf("SetWorkStatus(invalid) error = %v, want ErrInvalidStatus", err)
	}
}

// TestIsOverdue covers the calendar boundary and the DONE exemption.
func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	due := Assignment{Deadline: "2026-03-14", WorkStatus: StatusInProgress}
	if !due.IsOverdue(now) {
		t.Fatal("IsOverdue(yesterday, in progress) = false, want true")
	}

	today := Assignment{Deadline: "2026-03-15", WorkStatus: StatusInProgress}
	if today.IsOverdue(now) {
		t.Fatal("IsOverdue(today) = true, want false")
	}

	done := Assignment{Deadline: "2020-01-01", WorkStatus: StatusDone}
	if done.IsOverdue(now) {
		t.Fatal("IsOverdue(DONE) = true, want false")
	}

	undated := Assignment{WorkStatus: StatusBlocked}
	if undated.IsOverdue(now) {
		t.Fatal("IsOverdue(no deadline) = true, want false")
	}
}

// TestEnsureValue checks trim, exact dedup, and most-recent-first order.
func TestEnsureValue(t *testing.T) {
	list := []string{}
	list = EnsureValue(list, "  Design ")
	list = EnsureValue(list, "Development")
	list = EnsureValue(list, "Design")
	list = EnsureValue(list, "   ")
	if len(list) != 2 {
		t.Fatalf("EnsureValue() len = %d, want 2 (%v)", len(list), list)
	}
	if list[0] != "Development" || list[1] != "Design" {
		t.Fatalf("EnsureValue() order = %v, want [Development Design]", list)
	}
}

// TestEnvelopeSeedAndNormalize verifies the empty first-run shape and the
// repair pass on partially populated envelopes.
func TestEnvelopeSeedAndNormalize(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	seed := Seed(now)
	if seed.SchemaVersion != SchemaVersion {
		t.Fatalf("Seed() SchemaVersion = %d, want %d", seed.SchemaVersion, SchemaVersion)
	}
	if len(seed.Employees) != 0 || len(seed.Assignments) != 0 {
		t.Fatalf("Seed() not empty: %d employees, %d assignments", len(seed.Employees), len(seed.Assignments))
	}
	if len(seed.MasterData.TaskTypes) != 0 || len(seed.MasterData.Priorities) != 4 {
		t.Fatalf("Seed() master data = %+v, want empty vocab and full enums", seed.MasterData)
	}

	env := Envelope{
		SchemaVersion: 1,
		Employees:     testRoster(),
		Assignments:   []Assignment{{ID: "a1", EmployeeID: "emp-1"}},
	}
	env.Normalize(now)
	if env.SchemaVersion != SchemaVersion {
		t.Fatalf("Normalize() SchemaVersion = %d, want %d", env.SchemaVersion, SchemaVersion)
	}
	if env.Assignments[0].EmployeeName != "Nahid Hasan" {
		t.Fatalf("Normalize() did not re-sync snapshot: %q", env.Assignments[0].EmployeeName)
	}
	if env.MasterData.TaskTypes == nil || len(env.MasterData.Statuses) != 4 {
		t.Fatalf("Normalize() master data = %+v", env.MasterData)
	}
	if !env.UpdatedAt.Equal(now) {
		t.Fatalf("Normalize() UpdatedAt = %v, want %v", env.UpdatedAt, now)
	}
}

// TestEnvelopeClone confirms deep copies do not alias pointer fields.
func TestEnvelopeClone(t *testing.T) {
	d := Date("2026-03-01")
	env := Envelope{
		Assignments: []Assignment{{ID: "a1", DoneDate: &d}},
	}
	clone := env.Clone()
	*clone.Assignments[0].DoneDate = "1999-01-01"
	if *env.Assignments[0].DoneDate != "2026-03-01" {
		t.Fatalf("Clone() aliased DoneDate: %v", *env.Assignments[0].DoneDate)
	}
}

// TestEmployeeApply checks the patch allow-list semantics.
func TestEmployeeApply(t *testing.T) {
	emp, err := NewEmployee("emp-1", "Nahid Hasan", "EMP-001", "Engineer", 20001)
	if err != nil {
		t.Fatalf("NewEmployee() error = %v", err)
	}

	name := "  Nahid H.  "
	code := 30001
	if err := emp.Apply(EmployeePatch{Name: &name, AccessCode: &code}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if emp.Name != "Nahid H." || emp.AccessCode != 30001 {
		t.Fatalf("Apply() = %q/%d", emp.Name, emp.AccessCode)
	}
	if emp.HumanID != "EMP-001" {
		t.Fatalf("Apply() changed untouched field: %q", emp.HumanID)
	}

	empty := "   "
	if err := emp.Apply(EmployeePatch{Name: &empty}); err != ErrInvalidName {
		t.Fatalf("Apply(blank name) error = %v, want ErrInvalidName", err)
	}
	bad := 0
	if err := emp.Apply(EmployeePatch{AccessCode: &bad}); err != ErrInvalidAccessCode {
		t.Fatalf("Apply(zero code) error = %v, want ErrInvalidAccessCode", err)
	}
}

// TestSessionValidate covers the role/employee pairing rules.
func TestSessionValidate(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	if err := NewCEOSession(now).Validate(); err != nil {
		t.Fatalf("CEO session Validate() error = %v", err)
	}
	sess, err := NewEmployeeSession("emp-1", now)
	if err != nil {
		t.Fatalf("NewEmployeeSession() error = %v", err)
	}
	if err := sess.Validate(); err != nil {
		t.Fatalf("employee session Validate() error = %v", err)
	}
	if _, err := NewEmployeeSession("  ", now); err != ErrInvalidID {
		t.Fatalf("NewEmployeeSession(blank) error = %v, want ErrInvalidID", err)
	}
	if err := (Session{Role: "ADMIN"}).Validate(); err != ErrInvalidRole {
		t.Fatalf("Validate(unknown role) error = %v, want ErrInvalidRole", err)
	}
}
