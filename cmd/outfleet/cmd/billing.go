package cmd

import (
	"github.com/spf13/cobra"

	"github.com/outfleet/outfleet/internal/output"
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "List open billing accounts",
	Long:  "List the open billing accounts a new project can be linked to",
	Run:   billingRun,
	PostRun: func(cmd *cobra.Command, _ []string) {
		output.Blank()
	},
}

func init() {
	rootCmd.AddCommand(billingCmd)
}

func billingRun(cmd *cobra.Command, _ []string) {
	acct, _, closer, err := newAccount(cmd)
	if err != nil {
		output.Error("%v", err)
		return
	}
	defer closer()

	accounts, err := acct.ListOpenBillingAccounts(cmd.Context())
	if err != nil {
		output.Error("failed to list billing accounts: %v", err)
		return
	}

	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{output.Bold(a.ID), a.Name})
	}

	output.Blank()
	output.Table([]string{"ID", "Name"}, rows)
}
