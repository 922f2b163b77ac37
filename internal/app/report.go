package app

import (
	"slices"
	"time"

	"github.com/phaseeng/taskdesk/internal/domain"
)

// ReportFilter defines filtering criteria for report projections. Zero-valued
// fields are inactive; active predicates combine conjunctively.
type ReportFilter struct {
	EmployeeID string
	Project    string
	TaskType   string
	Status     domain.WorkStatus
	Priority   domain.Priority
	From       domain.Date
	To         domain.Date
}

// QuickRange represents a preset date-assigned window.
type QuickRange string

// QuickDaily and related constants define the preset windows.
const (
	QuickDaily   QuickRange = "DAILY"
	QuickWeekly  QuickRange = "WEEKLY"
	QuickMonthly QuickRange = "MONTHLY"
	QuickYearly  QuickRange = "YEARLY"
)

// Bounds computes the [from, to] calendar boundaries for a preset anchored to
// now: today, Monday-start current week, first of month, first of year. To is
// always today.
func (q QuickRange) Bounds(now time.Time) (domain.Date, domain.Date, bool) {
	to := domain.DateOf(now)
	switch q {
	case QuickDaily:
		return to, to, true
	case QuickWeekly:
		back := (int(now.Weekday()) + 6) % 7
		return domain.DateOf(now.AddDate(0, 0, -back)), to, true
	case QuickMonthly:
		return domain.DateOf(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())), to, true
	case QuickYearly:
		return domain.DateOf(time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())), to, true
	default:
		return "", "", false
	}
}

// FilterAssignments applies the role-based base filter (CEO sees all, an
// employee sees only their own rows) followed by the active predicates. It is
// a pure function of the snapshot; rows come back in stored order.
func FilterAssignments(rows []domain.Assignment, session *domain.Session, f ReportFilter) []domain.Assignment {
	out := make([]domain.Assignment, 0, len(rows))
	for _, a := range rows {
		if session != nil && session.Role == domain.RoleEmployee && a.EmployeeID != session.EmployeeID {
			continue
		}
		if f.EmployeeID != "" && a.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Project != "" && a.Project != f.Project {
			continue
		}
		if f.TaskType != "" && a.TaskType != f.TaskType {
			continue
		}
		if f.Status != "" && a.WorkStatus != f.Status {
			continue
		}
		if f.Priority != "" && a.Priority != f.Priority {
			continue
		}
		// ISO date strings order lexicographically, so range checks are
		// plain string comparisons.
		if !f.From.IsZero() && a.DateAssigned < f.From {
			continue
		}
		if !f.To.IsZero() && a.DateAssigned > f.To {
			continue
		}
		out = append(out, a.Clone())
	}
	return out
}

// Summary holds the overall counts for a filtered projection.
type Summary struct {
	Total     int
	Completed int
	Pending   int
	Overdue   int
}

// Summarize computes overall counts over a filtered projection.
func Summarize(rows []domain.Assignment, now time.Time) Summary {
	sum := Summary{Total: len(rows)}
	for _, a := range rows {
		if a.WorkStatus == domain.StatusDone {
			sum.Completed++
		}
		if a.IsOverdue(now) {
			sum.Overdue++
		}
	}
	sum.Pending = sum.Total - sum.Completed
	return sum
}

// EmployeeRollup is one per-employee workload line.
type EmployeeRollup struct {
	EmployeeID string
	Name       string
	Total      int
	Done       int
	Overdue    int
}

// RollupByEmployee groups a filtered projection by employee, sorted
// descending by total (first-seen order breaks ties).
func RollupByEmployee(rows []domain.Assignment, now time.Time) []EmployeeRollup {
	index := map[string]int{}
	out := []EmployeeRollup{}
	for _, a := range rows {
		i, ok := index[a.EmployeeID]
		if !ok {
			i = len(out)
			index[a.EmployeeID] = i
			out = append(out, EmployeeRollup{EmployeeID: a.EmployeeID, Name: a.EmployeeName})
		}
		out[i].Total++
		if a.WorkStatus == domain.StatusDone {
			out[i].Done++
		}
		if a.IsOverdue(now) {
			out[i].Overdue++
		}
	}
	slices.SortStableFunc(out, func(x, y EmployeeRollup) int {
		return y.Total - x.Total
	})
	return out
}

// ProjectRollup is one per-project workload line.
type ProjectRollup struct {
	Project string
	Total   int
	Done    int
	Overdue int
}

// RollupByProject groups a filtered projection by project, sorted descending
// by total (first-seen order breaks ties).
func RollupByProject(rows []domain.Assignment, now time.Time) []ProjectRollup {
	index := map[string]int{}
	out := []ProjectRollup{}
	for _, a := range rows {
		i, ok := index[a.Project]
		if !ok {
			i = len(out)
			index[a.Project] = i
			out = append(out, ProjectRollup{Project: a.Project})
		}
		out[i].Total++
		if a.WorkStatus == domain.StatusDone {
			out[i].Done++
		}
		if a.IsOverdue(now) {
			out[i].Overdue++
		}
	}
	slices.SortStableFunc(out, func(x, y ProjectRollup) int {
		return y.Total - x.Total
	})
	return out
}
