package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phaseeng/taskdesk/internal/domain"
)

// newLoginCmd resolves an access code to a CEO or employee session.
func newLoginCmd(flags *rootFlags) *cobra.Command {
	var code int
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Enter as CEO or employee using a numeric access code",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			if code <= 0 {
				return fmt.Errorf("--code is required")
			}
			sess, err := rt.svc.Login(ctx, code)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if sess.IsCEO() {
				fmt.Fprintf(out, "logged in as CEO (%s)\n", rt.cfg.Org.Name)
				return nil
			}
			env, err := rt.svc.Envelope()
			if err != nil {
				return err
			}
			emp, _ := env.FindEmployee(sess.EmployeeID)
			fmt.Fprintf(out, "logged in as %s (%s)\n", emp.Name, emp.HumanID)
			return nil
		}),
	}
	cmd.Flags().IntVar(&code, "code", 0, "numeric access code")
	return cmd
}

// newLogoutCmd clears the persisted session.
func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the current session",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			if err := rt.svc.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		}),
	}
}

// newWhoamiCmd prints the current actor.
func newWhoamiCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			sess := rt.svc.Session()
			if sess == nil {
				fmt.Fprintln(out, "not logged in")
				return nil
			}
			if sess.IsCEO() {
				fmt.Fprintf(out, "CEO (since %s)\n", sess.EnteredAt.Format("2006-01-02 15:04"))
				return nil
			}
			env, err := rt.svc.Envelope()
			if err != nil {
				return err
			}
			name := sess.EmployeeID
			if emp, ok := env.FindEmployee(sess.EmployeeID); ok {
				name = fmt.Sprintf("%s (%s)", emp.Name, emp.HumanID)
			}
			fmt.Fprintf(out, "%s %s (since %s)\n", domain.RoleEmployee, name, sess.EnteredAt.Format("2006-01-02 15:04"))
			return nil
		}),
	}
}
