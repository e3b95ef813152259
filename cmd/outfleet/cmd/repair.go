package cmd

import (
	"github.com/spf13/cobra"

	"github.com/outfleet/outfleet/internal/output"
)

var (
	repairProject string
	repairBilling string
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair a project's configuration",
	Long:  "Re-link a project's billing account and re-enable the required services",
	Run:   repairRun,
}

func init() {
	repairCmd.Flags().StringVar(&repairProject, "project", "", "Project to repair")
	repairCmd.Flags().StringVar(&repairBilling, "billing-account", "", "Billing account ID to link")
	_ = repairCmd.MarkFlagRequired("billing-account")
	rootCmd.AddCommand(repairCmd)
}

func repairRun(cmd *cobra.Command, _ []string) {
	acct, cfg, closer, err := newAccount(cmd)
	if err != nil {
		output.Error("%v", err)
		return
	}
	defer closer()

	projectID, err := resolveProject(repairProject, cfg)
	if err != nil {
		output.Error("%v", err)
		return
	}

	healthy, err := acct.IsProjectHealthy(cmd.Context(), projectID)
	if err != nil {
		output.Error("failed to check project health: %v", err)
		return
	}
	if healthy {
		output.Success("Project %s is already healthy", output.Bold(projectID))
		return
	}

	output.Info("Repairing project %s…", projectID)
	if err := acct.RepairProject(cmd.Context(), projectID, repairBilling); err != nil {
		output.Error("failed to repair project: %v", err)
		return
	}

	output.Success("Project %s repaired", output.Bold(projectID))
}
