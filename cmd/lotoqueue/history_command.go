package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lotoqueue/internal/ledger"
	"lotoqueue/internal/textutil"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent channel attempts from the local ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			attempts, err := store.RecentAttempts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(attempts) == 0 {
				fmt.Fprintln(out, "No attempts recorded")
				return nil
			}
			loc := cfg.Location()
			rows := make([][]string, 0, len(attempts))
			for _, a := range attempts {
				detail := a.URL
				if detail == "" {
					detail = a.Detail
				}
				rows = append(rows, []string{
					a.CreatedAt.In(loc).Format("2006-01-02 15:04"),
					strconv.Itoa(a.Row),
					a.Lottery,
					a.Contest,
					a.Account,
					a.Outcome,
					textutil.Truncate(detail, 60),
				})
			}
			writeTable(out, []string{"When", "Row", "Lottery", "Contest", "Account", "Outcome", "Detail"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft})
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of attempts to show")
	return cmd
}
