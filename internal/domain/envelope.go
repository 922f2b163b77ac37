package domain

import "time"

// SchemaVersion is the current persisted envelope version.
const SchemaVersion = 2

// Envelope is the versioned top-level aggregate and the sole unit of
// persistence. It exclusively owns every Employee and Assignment.
type Envelope struct {
	SchemaVersion int          `json:"schemaVersion"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Employees     []Employee   `json:"employees"`
	Assignments   []Assignment `json:"assignments"`
	MasterData    MasterData   `json:"masterData"`
}

// Seed returns the intentionally empty first-run envelope: no roster, no
// assignments, no vocabulary entries, full priority/status enumerations.
func Seed(now time.Time) Envelope {
	return Envelope{
		SchemaVersion: SchemaVersion,
		UpdatedAt:     now.UTC(),
		Employees:     []Employee{},
		Assignments:   []Assignment{},
		MasterData:    DefaultMasterData(),
	}
}

// Normalize repairs an envelope loaded from storage or import: forces the
// current schema version, backfills missing collections, and re-derives every
// assignment snapshot against the roster so stale data written by a prior
// session reads consistently.
func (e *Envelope) Normalize(now time.Time) {
	e.SchemaVersion = SchemaVersion
	if e.Employees == nil {
		e.Employees = []Employee{}
	}
	if e.Assignments == nil {
		e.Assignments = []Assignment{}
	}
	e.MasterData.Normalize()
	for i := range e.Assignments {
		e.Assignments[i].SyncSnapshot(e.Employees)
	}
	e.UpdatedAt = now.UTC()
}

// FindEmployee looks up a roster entry by internal id.
func (e Envelope) FindEmployee(id string) (Employee, bool) {
	for _, emp := range e.Employees {
		if emp.ID == id {
			return emp, true
		}
	}
	return Employee{}, false
}

// FindAssignment looks up an assignment by id.
func (e Envelope) FindAssignment(id string) (Assignment, bool) {
	for _, a := range e.Assignments {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return Assignment{}, false
}

// Clone returns a deep copy of the envelope.
func (e Envelope) Clone() Envelope {
	out := Envelope{
		SchemaVersion: e.SchemaVersion,
		UpdatedAt:     e.UpdatedAt,
		Employees:     append([]Employee{}, e.Employees...),
		Assignments:   make([]Assignment, 0, len(e.Assignments)),
		MasterData:    e.MasterData.Clone(),
	}
	for _, a := range e.Assignments {
		out.Assignments = append(out.Assignments, a.Clone())
	}
	return out
}
