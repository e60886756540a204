package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type employeeRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Active     bool   `json:"active"`
}

// NewEmployeesCommand は社員関連のサブコマンドを生成します。
func NewEmployeesCommand(rootOpts *RootOptions, bootstrap Bootstrap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Inspect employees",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List employees, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmployeesList(cmd, rootOpts, bootstrap)
		},
	})

	return cmd
}

func runEmployeesList(cmd *cobra.Command, opts *RootOptions, bootstrap Bootstrap) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	env, err := openEnv(cmd, opts, bootstrap)
	if err != nil {
		_ = formatter.Failure(err)
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	list, err := env.Services.Employees.ListEmployees(ctx)
	if err != nil {
		_ = formatter.Failure(err)
		return WrapExitError(ExitFailure, "list employees", err)
	}

	rows := make([]employeeRow, 0, len(list))
	for _, e := range list {
		rows = append(rows, employeeRow{ID: e.ID, Name: e.Name, Email: e.Email, Department: e.Department, Active: e.Active})
	}

	return formatter.Success(rows, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDEPARTMENT\tACTIVE")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", r.ID, r.Name, r.Email, r.Department, r.Active)
		}
		_ = tw.Flush()
	})
}
