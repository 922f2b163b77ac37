package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phaseeng/taskdesk/internal/app"
)

// newReportCmd renders the filtered summary plus rollups.
func newReportCmd(flags *rootFlags) *cobra.Command {
	f := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize assignments with per-employee and per-project rollups",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			rows, err := filteredRows(rt, f)
			if err != nil {
				return err
			}
			now := nowFunc()
			out := cmd.OutOrStdout()
			renderSummary(out, app.Summarize(rows, now))
			renderEmployeeRollups(out, app.RollupByEmployee(rows, now))
			renderProjectRollups(out, app.RollupByProject(rows, now))
			return nil
		}),
	}
	f.register(cmd)
	return cmd
}

// newExportCmd writes the full data envelope as JSON.
func newExportCmd(flags *rootFlags) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full dataset as JSON (CEO)",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			if _, err := rt.requireCEO(); err != nil {
				return err
			}
			env, err := rt.svc.Export()
			if err != nil {
				return err
			}
			raw, err := json.MarshalIndent(env, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), outPath, append(raw, '\n'))
		}),
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}

// newImportCmd replaces the dataset from an exported JSON file.
func newImportCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the dataset from an exported JSON file (CEO)",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, args []string) error {
			if _, err := rt.requireCEO(); err != nil {
				return err
			}
			payload, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if err := rt.svc.ImportJSON(ctx, payload); err != nil {
				return err
			}
			env, err := rt.svc.Envelope()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d employees, %d assignments\n",
				len(env.Employees), len(env.Assignments))
			return nil
		}),
	}
	return cmd
}

// newExportCSVCmd writes the session-visible filtered rows as CSV.
func newExportCSVCmd(flags *rootFlags) *cobra.Command {
	f := &filterFlags{}
	var outPath string
	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Export filtered assignments as CSV",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			rows, err := filteredRows(rt, f)
			if err != nil {
				return err
			}
			csv := app.AssignmentsCSV(rows, nowFunc())
			return writeOutput(cmd.OutOrStdout(), outPath, []byte(csv+"\n"))
		}),
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}

// newExportFilteredCmd writes a filtered assignment-only JSON document.
func newExportFilteredCmd(flags *rootFlags) *cobra.Command {
	f := &filterFlags{}
	var outPath string
	cmd := &cobra.Command{
		Use:   "export-filtered",
		Short: "Export filtered assignments as JSON",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			rows, err := filteredRows(rt, f)
			if err != nil {
				return err
			}
			doc := app.NewFilteredExport(rows, nowFunc())
			raw, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode filtered export: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), outPath, append(raw, '\n'))
		}),
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}

// newResetCmd wipes the dataset and the session.
func newResetCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all data and start from an empty dataset (CEO)",
		RunE: withRuntime(flags, func(ctx context.Context, rt *runtime, cmd *cobra.Command, _ []string) error {
			if _, err := rt.requireCEO(); err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to erase data without --yes")
			}
			if err := rt.svc.ResetAll(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all data erased")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}

// writeOutput sends data to a file when path is set, stdout otherwise.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if strings.TrimSpace(path) == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return raw, nil
}
