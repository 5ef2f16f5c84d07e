package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lotoqueue/internal/publisher"
)

func newVaultCommand(ctx *commandContext) *cobra.Command {
	vaultCmd := &cobra.Command{
		Use:   "vault",
		Short: "Inspect the credentials vault",
	}
	vaultCmd.AddCommand(newVaultAccountsCommand(ctx))
	return vaultCmd
}

func newVaultAccountsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts [network]",
		Short: "List accounts that hold a refresh token (values are never printed)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			creds, err := ctx.openVault(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			networks := creds.Networks()
			if len(args) == 1 {
				networks = []string{strings.ToUpper(strings.TrimSpace(args[0]))}
			}

			out := cmd.OutOrStdout()
			var rows [][]string
			for _, network := range networks {
				for _, account := range creds.Accounts(network) {
					complete := creds.Get(network, publisher.KeyClientID, account, "") != "" &&
						creds.Get(network, publisher.KeyClientSecret, account, "") != ""
					privacy := creds.Get(network, publisher.KeyPrivacyStatus, account, "")
					rows = append(rows, []string{network, account, yesNo(complete), privacy})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No accounts with a refresh token")
				return nil
			}
			writeTable(out, []string{"Network", "Account", "Client", "Privacy"}, rows, nil)
			return nil
		},
	}
}
