package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phaseeng/taskdesk/internal/app"
	"github.com/phaseeng/taskdesk/internal/domain"
)

// newEmployeeCmd groups the roster management subcommands (CEO only).
func newEmployeeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage the employee roster (CEO)",
	}
	cmd.AddCommand(
		newEmployeeAddCmd(flags),
		newEmployeeUpdateCmd(flags),
		newEmployeeDeleteCmd(flags),
		newEmployeeListCmd(flags),
	)
	return cmd
}

func newEmployeeAddCmd(flags *rootFlags) *cobra.Command {
	var (
		name        string
		humanID     string
		designation string
		accessCode  int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			if _, err := rt.requireCEO(); err != nil {
				return err
			}
			emp, err := rt.svc.AddEmployee(ctx, app.AddEmployeeInput{
				Name:        name,
				HumanID:     humanID,
				Designation: designation,
				AccessCode:  accessCode,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", emp.Name, emp.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&humanID, "employee-id", "", "human-readable employee id")
	cmd.Flags().StringVar(&designation, "designation", "", "designation")
	cmd.Flags().IntVar(&accessCode, "access-code", 0, "numeric login code")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("access-code")
	return cmd
}

func newEmployeeUpdateCmd(flags *rootFlags) *cobra.Command {
	var (
		name        string
		humanID     string
		designation string
		accessCode  int
	)
	cmd := &cobra.Command{
		Use:   "update <employee-id>",
		Short: "Update an employee's fields",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, args []string) error {
			if _, err := rt.requireCEO(); err != nil {
				return err
			}
			patch := domain.EmployeePatch{}
			set := cmd.Flags().Changed
			if set("name") {
				patch.Name = &name
			}
			if set("employee-id") {
				patch.HumanID = &humanID
			}
			if set("designation") {
				patch.Designation = &designation
			}
			if set("access-code") {
				patch.AccessCode = &accessCode
			}
			emp, err := rt.svc.UpdateEmployee(ctx, args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", emp.Name, emp.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&humanID, "employee-id", "", "human-readable employee id")
	cmd.Flags().StringVar(&designation, "designation", "", "designation")
	cmd.Flags().IntVar(&accessCode, "access-code", 0, "numeric login code")
	return cmd
}

func newEmployeeDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <employee-id>",
		Short: "Remove an employee; their assignments stay, marked as deleted",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, args []string) error {
			if _, err := rt.requireCEO(); err != nil {
				return err
			}
			if err := rt.svc.DeleteEmployee(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		}),
	}
}

func newEmployeeListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roster",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			if _, err := rt.requireCEO(); err != nil {
				return err
			}
			env, err := rt.svc.Envelope()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(env.Employees) == 0 {
				fmt.Fprintln(out, "no employees")
				return nil
			}
			fmt.Fprintf(out, "%-36s  %-10s  %-20s  %s\n",
				headerStyle.Render("ID"), headerStyle.Render("EMP-ID"),
				headerStyle.Render("NAME"), headerStyle.Render("DESIGNATION"))
			for _, e := range env.Employees {
				fmt.Fprintf(out, "%-36s  %-10s  %-20s  %s\n", e.ID, e.HumanID, truncate(e.Name, 20), e.Designation)
			}
			return nil
		}),
	}
}
