package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/phaseeng/taskdesk/internal/domain"
)

// csvHeader is the fixed, ordered CSV column set. Reports, the CSV file, and
// the task listing all derive days-left/overdue from the same domain
// computation so the three never disagree.
var csvHeader = []string{
	"S.N.", "Date Assigned", "Employee Name", "Employee ID", "Designation",
	"Task Type", "Project", "Task Details", "Deadline", "Priority",
	"Work Status", "Employee Remarks", "Last Update Date", "CEO Comment",
	"Done Date", "Days Left", "Overdue?",
}

// AssignmentsCSV renders a filtered projection as CSV: one fixed header row,
// fields containing a comma, quote, or newline wrapped in double quotes with
// internal quotes doubled.
func AssignmentsCSV(rows []domain.Assignment, now time.Time) string {
	var b strings.Builder
	writeCSVRecord(&b, csvHeader)
	for _, a := range rows {
		lastUpdate := ""
		if a.LastUpdateAt != nil {
			lastUpdate = a.LastUpdateAt.Format(time.RFC3339)
		}
		doneDate := ""
		if a.DoneDate != nil {
			doneDate = a.DoneDate.String()
		}
		overdue := "No"
		if a.IsOverdue(now) {
			overdue = "Yes"
		}
		writeCSVRecord(&b, []string{
			strconv.Itoa(a.SN),
			a.DateAssigned.String(),
			a.EmployeeName,
			a.EmployeeHumanID,
			a.Designation,
			a.TaskType,
			a.Project,
			a.TaskDetails,
			a.Deadline.String(),
			string(a.Priority),
			string(a.WorkStatus),
			a.EmployeeRemarks,
			lastUpdate,
			a.CEOComment,
			doneDate,
			strconv.Itoa(a.DaysLeft(now)),
			overdue,
		})
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// writeCSVRecord appends one escaped record and a newline.
func writeCSVRecord(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvEscape(f))
	}
	b.WriteByte('\n')
}

// csvEscape quotes a field only when it needs quoting.
func csvEscape(v string) string {
	if !strings.ContainsAny(v, "\",\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// FilteredExportVersion tags the read-only report artifact, which is a
// different shape from a full backup and is not re-importable as one.
const FilteredExportVersion = 1

// FilteredExport is the filtered JSON report artifact.
type FilteredExport struct {
	SchemaVersion int                 `json:"schemaVersion"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	Assignments   []domain.Assignment `json:"assignments"`
}

// NewFilteredExport wraps a filtered projection for JSON export.
func NewFilteredExport(rows []domain.Assignment, now time.Time) FilteredExport {
	if rows == nil {
		rows = []domain.Assignment{}
	}
	return FilteredExport{
		SchemaVersion: FilteredExportVersion,
		UpdatedAt:     now.UTC(),
		Assignments:   rows,
	}
}
