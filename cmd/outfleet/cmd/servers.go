package cmd

import (
	"github.com/spf13/cobra"

	"github.com/outfleet/outfleet/internal/output"
)

var serversProject string

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List relay servers",
	Long:  "List the managed relay servers of a project",
	Run:   serversRun,
	PostRun: func(cmd *cobra.Command, _ []string) {
		output.Blank()
	},
}

func init() {
	serversCmd.Flags().StringVar(&serversProject, "project", "", "Project to list servers of")
	rootCmd.AddCommand(serversCmd)
}

func serversRun(cmd *cobra.Command, _ []string) {
	acct, cfg, closer, err := newAccount(cmd)
	if err != nil {
		output.Error("%v", err)
		return
	}
	defer closer()

	projectID, err := resolveProject(serversProject, cfg)
	if err != nil {
		output.Error("%v", err)
		return
	}

	servers, err := acct.ListServers(cmd.Context(), projectID)
	if err != nil {
		output.Error("failed to list servers: %v", err)
		return
	}

	rows := make([][]string, 0, len(servers))
	for _, s := range servers {
		// Listing degrades to a blank IP cell when the lookup fails.
		ip := ""
		if inst, descErr := acct.DescribeServer(cmd.Context(), s.Locator); descErr == nil {
			ip = inst.ExternalIP()
		}
		rows = append(rows, []string{
			output.Bold(s.Name),
			s.ID,
			s.Locator.Zone,
			ip,
		})
	}

	output.Blank()
	output.Table([]string{"Name", "ID", "Zone", "IP"}, rows)
}
