package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/phaseeng/taskdesk/internal/domain"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func testLegacyRoster() []domain.Employee {
	return []domain.Employee{
		{ID: "emp-nahid", Name: "Nahid Hasan", HumanID: "EMP-001", Designation: "Engineer", AccessCode: 20001},
		{ID: "emp-asma", Name: "Asma Begum", HumanID: "EMP-002", Designation: "Designer", AccessCode: 20002},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "taskdesk.db"), Options{
		LegacyEmployees: testLegacyRoster(),
		LegacyTaskTypes: []string{"Design", "Survey"},
		LegacyProjects:  []string{"Tower A"},
		Clock:           func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// TestEnvelopeRoundTrip saves an envelope and reads it back through the
// versioned wrapper.
func TestEnvelopeRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	env, err := store.LoadEnvelope(ctx)
	if err != nil {
		t.Fatalf("LoadEnvelope(empty) error = %v", err)
	}
	if env != nil {
		t.Fatalf("LoadEnvelope(empty) = %+v, want nil", env)
	}

	saved := domain.Seed(testNow)
	saved.Employees = testLegacyRoster()
	saved.Assignments = []domain.Assignment{{ID: "a1", EmployeeID: "emp-nahid", TaskDetails: "survey the plot"}}
	if err := store.SaveEnvelope(ctx, saved); err != nil {
		t.Fatalf("SaveEnvelope() error = %v", err)
	}

	loaded, err := store.LoadEnvelope(ctx)
	if err != nil {
		t.Fatalf("LoadEnvelope() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadEnvelope() = nil after save")
	}
	if loaded.SchemaVersion != domain.SchemaVersion {
		t.Fatalf("SchemaVersion = %d, want %d", loaded.SchemaVersion, domain.SchemaVersion)
	}
	if len(loaded.Employees) != 2 || len(loaded.Assignments) != 1 {
		t.Fatalf("loaded %d employees, %d assignments", len(loaded.Employees), len(loaded.Assignments))
	}
	if loaded.Assignments[0].TaskDetails != "survey the plot" {
		t.Fatalf("TaskDetails = %q", loaded.Assignments[0].TaskDetails)
	}

	if err := store.ClearEnvelope(ctx); err != nil {
		t.Fatalf("ClearEnvelope() error = %v", err)
	}
	if env, _ := store.LoadEnvelope(ctx); env != nil {
		t.Fatal("LoadEnvelope() after clear != nil")
	}
}

// TestSessionRoundTrip covers save/load/clear and the corrupt-value
// degradation to logged out.
func TestSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if sess, err := store.LoadSession(ctx); err != nil || sess != nil {
		t.Fatalf("LoadSession(empty) = %v, %v", sess, err)
	}

	saved := domain.NewCEOSession(testNow)
	if err := store.SaveSession(ctx, saved); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	loaded, err := store.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if loaded == nil || !loaded.IsCEO() {
		t.Fatalf("LoadSession() = %+v, want CEO session", loaded)
	}

	if err := store.put(ctx, sessionKey, "{not json"); err != nil {
		t.Fatalf("put(corrupt) error = %v", err)
	}
	if sess, err := store.LoadSession(ctx); err != nil || sess != nil {
		t.Fatalf("LoadSession(corrupt) = %v, %v, want nil, nil", sess, err)
	}

	if err := store.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}
	if sess, _ := store.LoadSession(ctx); sess != nil {
		t.Fatal("LoadSession() after clear != nil")
	}
}

// TestMalformedEnvelopeTreatedAsAbsent verifies the degrade-to-reseed path
// for unreadable wrappers.
func TestMalformedEnvelopeTreatedAsAbsent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.put(ctx, dataKey, "][ definitely not json"); err != nil {
		t.Fatalf("put() error = %v", err)
	}
	env, err := store.LoadEnvelope(ctx)
	if err != nil {
		t.Fatalf("LoadEnvelope(malformed) error = %v", err)
	}
	if env != nil {
		t.Fatalf("LoadEnvelope(malformed) = %+v, want nil", env)
	}
}

// TestUnknownSchemaVersionTreatedAsAbsent verifies that a wrapper written by
// a future build degrades to absent data instead of failing.
func TestUnknownSchemaVersionTreatedAsAbsent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	stored, err := json.Marshal(storedEnvelope{SchemaVersion: 99, SavedAt: testNow, Payload: []byte(`{}`)})
	if err != nil {
		t.Fatalf("marshal wrapper: %v", err)
	}
	if err := store.put(ctx, dataKey, string(stored)); err != nil {
		t.Fatalf("put() error = %v", err)
	}

	env, err := store.LoadEnvelope(ctx)
	if err != nil {
		t.Fatalf("LoadEnvelope(v99) error = %v", err)
	}
	if env != nil {
		t.Fatalf("LoadEnvelope(v99) = %+v, want nil", env)
	}
}

// TestMigrateV1toV2 verifies the legacy migration: roster rebuilt from the
// configured legacy employees, snapshots re-derived, missing timestamps
// stamped, vocabularies seeded from the legacy lists.
func TestMigrateV1toV2(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	legacy := legacyEnvelopeV1{Assignments: []domain.Assignment{
		{ID: "a1", EmployeeID: "emp-nahid", TaskDetails: "first"},
		{ID: "a2", EmployeeID: "emp-gone", TaskDetails: "second"},
	}}
	payload, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal legacy payload: %v", err)
	}
	stored, err := json.Marshal(storedEnvelope{SchemaVersion: 1, SavedAt: testNow, Payload: payload})
	if err != nil {
		t.Fatalf("marshal wrapper: %v", err)
	}
	if err := store.put(ctx, dataKey, string(stored)); err != nil {
		t.Fatalf("put() error = %v", err)
	}

	env, err := store.LoadEnvelope(ctx)
	if err != nil {
		t.Fatalf("LoadEnvelope(v1) error = %v", err)
	}
	if env == nil {
		t.Fatal("LoadEnvelope(v1) = nil")
	}
	if env.SchemaVersion != domain.SchemaVersion {
		t.Fatalf("migrated SchemaVersion = %d, want %d", env.SchemaVersion, domain.SchemaVersion)
	}
	if len(env.Employees) != 2 {
		t.Fatalf("migrated roster = %d entries, want legacy 2", len(env.Employees))
	}
	if len(env.Assignments) != 2 {
		t.Fatalf("migrated %d assignments, want 2", len(env.Assignments))
	}

	matched := env.Assignments[0]
	if matched.EmployeeName != "Nahid Hasan" || matched.EmployeeHumanID != "EMP-001" {
		t.Fatalf("migrated snapshot = %q/%q", matched.EmployeeName, matched.EmployeeHumanID)
	}
	if !matched.CreatedAt.Equal(testNow) || !matched.UpdatedAt.Equal(testNow) {
		t.Fatalf("timestamps not backfilled: %v / %v", matched.CreatedAt, matched.UpdatedAt)
	}

	orphan := env.Assignments[1]
	if orphan.EmployeeName != "Unknown" {
		t.Fatalf("orphan snapshot = %q, want Unknown", orphan.EmployeeName)
	}

	if len(env.MasterData.TaskTypes) != 2 || len(env.MasterData.Projects) != 1 {
		t.Fatalf("migrated vocabularies = %v / %v", env.MasterData.TaskTypes, env.MasterData.Projects)
	}
}
