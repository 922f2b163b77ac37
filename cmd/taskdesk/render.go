package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/phaseeng/taskdesk/internal/app"
	"github.com/phaseeng/taskdesk/internal/domain"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Faint(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// renderTaskTable writes the assignment listing, one row per assignment,
// coloring overdue and done rows.
func renderTaskTable(w io.Writer, rows []domain.Assignment, now time.Time) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no assignments")
		return
	}
	const format = "%-36s  %-20s  %-16s  %-10s  %-12s  %-11s  %5s  %s\n"
	fmt.Fprintf(w, format, headerStyle.Render("ID"), headerStyle.Render("EMPLOYEE"),
		headerStyle.Render("PROJECT"), headerStyle.Render("DEADLINE"),
		headerStyle.Render("STATUS"), headerStyle.Render("PRIORITY"),
		headerStyle.Render("DAYS"), headerStyle.Render("DETAILS"))
	for i := range rows {
		row := &rows[i]
		line := fmt.Sprintf(format, row.ID, truncate(row.EmployeeName, 20),
			truncate(row.Project, 16), row.Deadline, row.WorkStatus,
			row.Priority, fmt.Sprintf("%d", row.DaysLeft(now)),
			truncate(row.TaskDetails, 40))
		switch {
		case row.IsOverdue(now):
			fmt.Fprint(w, overdueStyle.Render(line))
		case row.WorkStatus == domain.StatusDone:
			fmt.Fprint(w, doneStyle.Render(line))
		default:
			fmt.Fprint(w, line)
		}
	}
}

// renderSummary writes the aggregate counts for a report.
func renderSummary(w io.Writer, s app.Summary) {
	fmt.Fprintln(w, titleStyle.Render("Summary"))
	fmt.Fprintf(w, "  total: %d  completed: %d  pending: %d  overdue: %d\n",
		s.Total, s.Completed, s.Pending, s.Overdue)
}

// renderEmployeeRollups writes the per-employee breakdown.
func renderEmployeeRollups(w io.Writer, rollups []app.EmployeeRollup) {
	if len(rollups) == 0 {
		return
	}
	fmt.Fprintln(w, titleStyle.Render("By employee"))
	for _, r := range rollups {
		fmt.Fprintf(w, "  %-20s  total=%d done=%d overdue=%d\n",
			truncate(r.Name, 20), r.Total, r.Done, r.Overdue)
	}
}

// renderProjectRollups writes the per-project breakdown.
func renderProjectRollups(w io.Writer, rollups []app.ProjectRollup) {
	if len(rollups) == 0 {
		return
	}
	fmt.Fprintln(w, titleStyle.Render("By project"))
	for _, r := range rollups {
		fmt.Fprintf(w, "  %-20s  total=%d done=%d overdue=%d\n",
			truncate(r.Project, 20), r.Total, r.Done, r.Overdue)
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
