package cmd

import (
	"github.com/spf13/cobra"

	"github.com/outfleet/outfleet/internal/output"
)

var (
	projectsCreateID      string
	projectsCreateBilling string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List managed projects",
	Long:  "List the cloud projects managed by outfleet",
	Run:   projectsRun,
	PostRun: func(cmd *cobra.Command, _ []string) {
		output.Blank()
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a managed project",
	Long:  "Create a new project, link its billing account, and enable the required services",
	Run:   projectsCreateRun,
}

func init() {
	projectsCreateCmd.Flags().StringVar(&projectsCreateID, "id", "", "Project ID to create")
	projectsCreateCmd.Flags().StringVar(&projectsCreateBilling, "billing-account", "", "Billing account ID to link")
	_ = projectsCreateCmd.MarkFlagRequired("id")
	_ = projectsCreateCmd.MarkFlagRequired("billing-account")
	projectsCmd.AddCommand(projectsCreateCmd)
	rootCmd.AddCommand(projectsCmd)
}

func projectsRun(cmd *cobra.Command, _ []string) {
	acct, _, closer, err := newAccount(cmd)
	if err != nil {
		output.Error("%v", err)
		return
	}
	defer closer()

	projects, err := acct.ListProjects(cmd.Context())
	if err != nil {
		output.Error("failed to list projects: %v", err)
		return
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{output.Bold(p.ID), p.Name, p.State})
	}

	output.Blank()
	output.Table([]string{"ID", "Name", "State"}, rows)
}

func projectsCreateRun(cmd *cobra.Command, _ []string) {
	acct, _, closer, err := newAccount(cmd)
	if err != nil {
		output.Error("%v", err)
		return
	}
	defer closer()

	output.Info("Creating project %s…", projectsCreateID)

	project, err := acct.CreateProject(cmd.Context(), projectsCreateID, projectsCreateBilling)
	if err != nil {
		output.Error("failed to create project: %v", err)
		return
	}

	output.Success("Project %s created and configured", output.Bold(project.ID))

	if store := openKeystore(); store != nil {
		if err := store.SetActiveProject(project.ID); err != nil {
			output.Warning("could not record active project: %v", err)
		} else {
			output.Info("Active project set to %s", project.ID)
		}
	}
}
