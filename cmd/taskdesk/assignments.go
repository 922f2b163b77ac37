package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phaseeng/taskdesk/internal/app"
	"github.com/phaseeng/taskdesk/internal/domain"
)

// assignFlags carries the creation form fields.
type assignFlags struct {
	employeeID string
	sn         int
	date       string
	taskType   string
	project    string
	details    string
	deadline   string
	priority   string
	comment    string
}

// newAssignCmd creates an assignment (CEO only).
func newAssignCmd(flags *rootFlags) *cobra.Command {
	form := &assignFlags{}
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a task to an employee (CEO)",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			if _, err := rt.requireCEO(); err != nil {
				return err
			}
			dateAssigned, err := domain.ParseDate(form.date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}
			deadline, err := domain.ParseDate(form.deadline)
			if err != nil {
				return fmt.Errorf("--deadline: %w", err)
			}
			row, err := rt.svc.CreateAssignment(ctx, app.CreateAssignmentInput{
				SN:           form.sn,
				DateAssigned: dateAssigned,
				EmployeeID:   form.employeeID,
				TaskType:     form.taskType,
				Project:      form.project,
				TaskDetails:  form.details,
				Deadline:     deadline,
				Priority:     domain.Priority(strings.ToUpper(strings.TrimSpace(form.priority))),
				CEOComment:   form.comment,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assigned %s to %s (deadline %s)\n", row.ID, row.EmployeeName, row.Deadline)
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.employeeID, "employee", "", "internal employee id")
	cmd.Flags().IntVar(&form.sn, "sn", 0, "serial number")
	cmd.Flags().StringVar(&form.date, "date", "", "date assigned (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.taskType, "type", "", "task type")
	cmd.Flags().StringVar(&form.project, "project", "", "project")
	cmd.Flags().StringVar(&form.details, "details", "", "task details")
	cmd.Flags().StringVar(&form.deadline, "deadline", "", "deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.priority, "priority", "", "LOW|MEDIUM|HIGH|URGENT")
	cmd.Flags().StringVar(&form.comment, "comment", "", "CEO comment")
	_ = cmd.MarkFlagRequired("employee")
	return cmd
}

// newEditCmd applies a CEO-side core edit to one assignment.
func newEditCmd(flags *rootFlags) *cobra.Command {
	form := &assignFlags{}
	var designation string
	cmd := &cobra.Command{
		Use:   "edit <assignment-id>",
		Short: "Edit an assignment's core fields (CEO)",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, args []string) error {
			if _, err := rt.requireCEO(); err != nil {
				return err
			}
			patch := app.CoreUpdate{}
			set := cmd.Flags().Changed
			if set("sn") {
				patch.SN = &form.sn
			}
			if set("date") {
				d, err := domain.ParseDate(form.date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				patch.DateAssigned = &d
			}
			if set("employee") {
				patch.EmployeeID = &form.employeeID
			}
			if set("designation") {
				patch.Designation = &designation
			}
			if set("type") {
				patch.TaskType = &form.taskType
			}
			if set("project") {
				patch.Project = &form.project
			}
			if set("details") {
				patch.TaskDetails = &form.details
			}
			if set("deadline") {
				d, err := domain.ParseDate(form.deadline)
				if err != nil {
					return fmt.Errorf("--deadline: %w", err)
				}
				patch.Deadline = &d
			}
			if set("priority") {
				p := domain.Priority(strings.ToUpper(strings.TrimSpace(form.priority)))
				patch.Priority = &p
			}
			if set("comment") {
				patch.CEOComment = &form.comment
			}
			row, err := rt.svc.UpdateAssignmentCore(ctx, args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", row.ID)
			return nil
		}),
	}
	cmd.Flags().IntVar(&form.sn, "sn", 0, "serial number")
	cmd.Flags().StringVar(&form.date, "date", "", "date assigned (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.employeeID, "employee", "", "internal employee id")
	cmd.Flags().StringVar(&designation, "designation", "", "designation snapshot override")
	cmd.Flags().StringVar(&form.taskType, "type", "", "task type")
	cmd.Flags().StringVar(&form.project, "project", "", "project")
	cmd.Flags().StringVar(&form.details, "details", "", "task details")
	cmd.Flags().StringVar(&form.deadline, "deadline", "", "deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.priority, "priority", "", "LOW|MEDIUM|HIGH|URGENT")
	cmd.Flags().StringVar(&form.comment, "comment", "", "CEO comment")
	return cmd
}

// newUpdateCmd applies an employee-side progress update.
func newUpdateCmd(flags *rootFlags) *cobra.Command {
	var (
		status   string
		remarks  string
		doneDate string
	)
	cmd := &cobra.Command{
		Use:   "update <assignment-id>",
		Short: "Update status and remarks on an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, args []string) error {
			sess, err := rt.requireSession()
			if err != nil {
				return err
			}
			env, err := rt.svc.Envelope()
			if err != nil {
				return err
			}
			row, ok := env.FindAssignment(args[0])
			if !ok {
				return fmt.Errorf("assignment %q: %w", args[0], app.ErrNotFound)
			}
			if !sess.IsCEO() && row.EmployeeID != sess.EmployeeID {
				return fmt.Errorf("assignment %q is not assigned to you", args[0])
			}

			patch := app.EmployeeUpdate{}
			set := cmd.Flags().Changed
			if set("status") {
				st := domain.WorkStatus(strings.ToUpper(strings.TrimSpace(status)))
				patch.WorkStatus = &st
			}
			if set("remarks") {
				patch.EmployeeRemarks = &remarks
			}
			if set("done-date") {
				d, err := domain.ParseDate(doneDate)
				if err != nil {
					return fmt.Errorf("--done-date: %w", err)
				}
				patch.DoneDate = &d
			}
			updated, err := rt.svc.UpdateByEmployee(ctx, args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s: %s\n", updated.ID, updated.WorkStatus)
			return nil
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "NOT_STARTED|IN_PROGRESS|BLOCKED|DONE")
	cmd.Flags().StringVar(&remarks, "remarks", "", "employee remarks")
	cmd.Flags().StringVar(&doneDate, "done-date", "", "completion date (YYYY-MM-DD)")
	return cmd
}

// filterFlags carries the shared report/listing filter flags.
type filterFlags struct {
	employeeID string
	project    string
	taskType   string
	status     string
	priority   string
	from       string
	to         string
	rangeName  string
}

// register adds the filter flags to a command.
func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.employeeID, "employee", "", "filter by internal employee id")
	cmd.Flags().StringVar(&f.project, "project", "", "filter by project")
	cmd.Flags().StringVar(&f.taskType, "type", "", "filter by task type")
	cmd.Flags().StringVar(&f.status, "status", "", "filter by work status")
	cmd.Flags().StringVar(&f.priority, "priority", "", "filter by priority")
	cmd.Flags().StringVar(&f.from, "from", "", "date-assigned range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "date-assigned range end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.rangeName, "range", "", "quick range: daily|weekly|monthly|yearly")
}

// build resolves the flags into a report filter, applying quick-range
// presets anchored to now.
func (f *filterFlags) build() (app.ReportFilter, error) {
	filter := app.ReportFilter{
		EmployeeID: f.employeeID,
		Project:    f.project,
		TaskType:   f.taskType,
		Status:     domain.WorkStatus(strings.ToUpper(strings.TrimSpace(f.status))),
		Priority:   domain.Priority(strings.ToUpper(strings.TrimSpace(f.priority))),
	}
	var err error
	if filter.From, err = domain.ParseDate(f.from); err != nil {
		return app.ReportFilter{}, fmt.Errorf("--from: %w", err)
	}
	if filter.To, err = domain.ParseDate(f.to); err != nil {
		return app.ReportFilter{}, fmt.Errorf("--to: %w", err)
	}
	if f.rangeName != "" {
		quick := app.QuickRange(strings.ToUpper(strings.TrimSpace(f.rangeName)))
		from, to, ok := quick.Bounds(nowFunc())
		if !ok {
			return app.ReportFilter{}, fmt.Errorf("unknown --range %q", f.rangeName)
		}
		filter.From, filter.To = from, to
	}
	return filter, nil
}

// filteredRows resolves the session-scoped, filtered projection.
func filteredRows(rt *runtime, f *filterFlags) ([]domain.Assignment, error) {
	sess, err := rt.requireSession()
	if err != nil {
		return nil, err
	}
	filter, err := f.build()
	if err != nil {
		return nil, err
	}
	env, err := rt.svc.Envelope()
	if err != nil {
		return nil, err
	}
	return app.FilterAssignments(env.Assignments, &sess, filter), nil
}

// newTasksCmd lists the filtered assignments.
func newTasksCmd(flags *rootFlags) *cobra.Command {
	f := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List assignments visible to the current session",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			rows, err := filteredRows(rt, f)
			if err != nil {
				return err
			}
			renderTaskTable(cmd.OutOrStdout(), rows, nowFunc())
			return nil
		}),
	}
	f.register(cmd)
	return cmd
}
