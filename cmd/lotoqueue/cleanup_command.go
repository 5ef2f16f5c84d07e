package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lotoqueue/internal/artifacts"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var location string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Keep a single image per lottery and contest in the output location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := cfg.Render.OutputDir
			if location != "" {
				target = location
			}
			bucket, err := artifacts.OpenOutput(cmd.Context(), target)
			if err != nil {
				return err
			}
			defer bucket.Close()

			report, err := artifacts.NewReconciler(bucket, dryRun, ctx.commandLogger(cmd)).Reconcile(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, action := range report.Actions {
				fmt.Fprintln(out, action.String())
			}
			fmt.Fprintf(out, "Kept: %d  Renamed: %d  Deleted: %d\n", report.Kept, report.Renamed, report.Deleted)
			if report.DryRun {
				fmt.Fprintln(out, "Dry run: nothing was changed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report actions without renaming or deleting")
	cmd.Flags().StringVar(&location, "location", "", "Directory or bucket URL to reconcile (default render.output_dir)")
	return cmd
}
