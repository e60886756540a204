package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type reconcileOutput struct {
	SyncCount  int `json:"sync_count"`
	CleanCount int `json:"clean_count"`
}

// NewReconcileCommand は所属関係の一括修復コマンドを生成します。
func NewReconcileCommand(rootOpts *RootOptions, bootstrap Bootstrap) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Repair department rosters against employee records",
		Long: `Remove roster entries that point at missing, inactive or reassigned employees,
then add every active employee to the roster of the department it names.

Safe to re-run: a second run on unchanged data reports zero changes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, rootOpts, bootstrap)
		},
	}
}

func runReconcile(cmd *cobra.Command, opts *RootOptions, bootstrap Bootstrap) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	env, err := openEnv(cmd, opts, bootstrap)
	if err != nil {
		_ = formatter.Failure(err)
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	result, err := env.Services.Reconciler.Run(ctx)
	if err != nil {
		_ = formatter.Failure(err)
		return WrapExitError(ExitFailure, "reconcile", err)
	}

	out := reconcileOutput{SyncCount: result.SyncCount, CleanCount: result.CleanCount}
	return formatter.Success(out, func(w io.Writer) {
		fmt.Fprintf(w, "Removed %d orphan references, added %d missing memberships.\n", out.CleanCount, out.SyncCount)
	})
}
