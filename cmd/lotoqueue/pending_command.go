package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"lotoqueue/internal/config"
	"lotoqueue/internal/runner"
	"lotoqueue/internal/sheets"
	"lotoqueue/internal/textutil"
)

const maxPublishedWidth = 48

func newPendingCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List rows that the next run would publish",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireStores(); err != nil {
				return err
			}
			tab, err := ctx.deps.openTab(cmd.Context(), cfg, cfg.Sheet.SheetID, cfg.Sheet.Tab)
			if err != nil {
				return fmt.Errorf("open queue tab %q: %w", cfg.Sheet.Tab, err)
			}
			r := runner.New(runner.Options{
				Store:    sheets.NewAdapter(tab, ctx.commandLogger(cmd)),
				Settings: runner.SettingsFromConfig(cfg),
				Logger:   ctx.commandLogger(cmd),
			})
			if all {
				rows, err := r.Rows(cmd.Context())
				if err != nil {
					return err
				}
				writeRowStates(cmd.OutOrStdout(), rows)
				return nil
			}
			pending, err := r.Pending(cmd.Context())
			if err != nil {
				return err
			}
			writePending(cmd.OutOrStdout(), cfg, pending)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show every queued or settled row with its state")
	return cmd
}

func writePending(out io.Writer, cfg *config.Config, pending []runner.PendingRow) {
	if len(pending) == 0 {
		fmt.Fprintln(out, "No pending rows")
		return
	}
	rows := make([][]string, 0, len(pending))
	for _, p := range pending {
		rows = append(rows, []string{strconv.Itoa(p.Draw.Row), p.Draw.Name(), p.Draw.Contest, p.Draw.Date, p.Queued})
	}
	writeTable(out, []string{"Row", "Lottery", "Contest", "Date", "Queued"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft})
	next := cfg.Queue.MaxPerRun
	if next > len(pending) {
		next = len(pending)
	}
	fmt.Fprintf(out, "%d pending; next run processes %d\n", len(pending), next)
}

func writeRowStates(out io.Writer, statuses []runner.RowStatus) {
	if len(statuses) == 0 {
		fmt.Fprintln(out, "No queued rows")
		return
	}
	rows := make([][]string, 0, len(statuses))
	pending := 0
	for _, s := range statuses {
		if s.State == runner.StateEnqueued {
			pending++
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Draw.Row), s.Draw.Name(), s.Draw.Contest, string(s.State),
			s.Queued, textutil.Truncate(s.Published, maxPublishedWidth),
		})
	}
	writeTable(out, []string{"Row", "Lottery", "Contest", "State", "Queued", "Published"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft})
	fmt.Fprintf(out, "%d queued or settled; %d pending\n", len(statuses), pending)
}
