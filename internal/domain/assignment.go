package domain

import (
	"slices"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Priorities returns the fixed priority enumeration in display order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Valid reports whether the priority is one of the fixed enumeration values.
func (p Priority) Valid() bool {
	return slices.Contains(Priorities(), p)
}

type WorkStatus string

const (
	StatusNotStarted WorkStatus = "NOT_STARTED"
	StatusInProgress WorkStatus = "IN_PROGRESS"
	StatusBlocked    WorkStatus = "BLOCKED"
	StatusDone       WorkStatus = "DONE"
)

// Statuses returns the fixed work-status enumeration in display order.
func Statuses() []WorkStatus {
	return []WorkStatus{StatusNotStarted, StatusInProgress, StatusBlocked, StatusDone}
}

// Valid reports whether the status is one of the fixed enumeration values.
func (s WorkStatus) Valid() bool {
	return slices.Contains(Statuses(), s)
}

// DeletedEmployeeName is the snapshot sentinel written when the referenced
// roster entry has been removed.
const DeletedEmployeeName = "Deleted Employee"

// unknownEmployeeName backfills a snapshot that has no roster match and no
// prior value to fall back on.
const unknownEmployeeName = "Unknown"

// Assignment is one unit of assigned work. EmployeeName, EmployeeHumanID and
// Designation are denormalized snapshots of the roster entry named by
// EmployeeID; every mutation path keeps them in sync.
type Assignment struct {
	ID              string     `json:"id"`
	SN              int        `json:"sn"`
	DateAssigned    Date       `json:"dateAssigned"`
	EmployeeID      string     `json:"employeeId"`
	EmployeeName    string     `json:"employeeName"`
	EmployeeHumanID string     `json:"employeeHumanId"`
	Designation     string     `json:"designation"`
	TaskType        string     `json:"taskType"`
	Project         string     `json:"project"`
	TaskDetails     string     `json:"taskDetails"`
	Deadline        Date       `json:"deadline"`
	Priority        Priority   `json:"priority"`
	WorkStatus      WorkStatus `json:"workStatus"`
	EmployeeRemarks string     `json:"employeeRemarks"`
	LastUpdateAt    *time.Time `json:"lastUpdateAt"`
	CEOComment      string     `json:"ceoComment"`
	DoneDate        *Date      `json:"doneDate"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// SyncSnapshot re-derives the denormalized employee fields from the roster.
// A row whose employee is missing keeps its prior snapshot so historical
// records stay readable; an empty name backfills to the unknown sentinel.
func (a *Assignment) SyncSnapshot(employees []Employee) {
	for _, e := range employees {
		if e.ID == a.EmployeeID {
			a.EmployeeName = e.Name
			a.EmployeeHumanID = e.HumanID
			a.Designation = e.Designation
			return
		}
	}
	if a.EmployeeName == "" {
		a.EmployeeName = unknownEmployeeName
	}
}

// MarkEmployeeDeleted overwrites the snapshot fields with the deletion
// sentinel while leaving EmployeeID intact (deletion is non-cascading).
func (a *Assignment) MarkEmployeeDeleted() {
	a.EmployeeName = DeletedEmployeeName
	a.EmployeeHumanID = ""
	a.Designation = ""
}

// SetWorkStatus applies a status change while holding the done-date
// invariant: DoneDate is non-nil exactly when the status is DONE. For DONE the
// date resolves to the provided value, then the existing value, then today.
func (a *Assignment) SetWorkStatus(status WorkStatus, doneDate *Date, now time.Time) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	a.WorkStatus = status
	if status != StatusDone {
		a.DoneDate = nil
		return nil
	}
	switch {
	case doneDate != nil && !doneDate.IsZero():
		d := *doneDate
		a.DoneDate = &d
	case a.DoneDate != nil:
		// Keep the already recorded completion day.
	default:
		d := DateOf(now)
		a.DoneDate = &d
	}
	return nil
}

// DaysLeft returns the calendar-day distance from now to the deadline,
// negative once the deadline has passed.
func (a Assignment) DaysLeft(now time.Time) int {
	return a.Deadline.DaysFrom(now)
}

// IsOverdue reports whether the deadline has passed for an unfinished row.
// DONE rows are never overdue regardless of deadline.
func (a Assignment) IsOverdue(now time.Time) bool {
	if a.WorkStatus == StatusDone {
		return false
	}
	return a.DaysLeft(now) < 0
}

// Clone returns a deep copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := a
	if a.LastUpdateAt != nil {
		ts := *a.LastUpdateAt
		out.LastUpdateAt = &ts
	}
	if a.DoneDate != nil {
		d := *a.DoneDate
		out.DoneDate = &d
	}
	return out
}
