package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/outfleet/outfleet/internal/output"
)

var locationsProject string

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List usable locations",
	Long:  "List the regions and UP zones a server can be created in",
	Run:   locationsRun,
	PostRun: func(cmd *cobra.Command, _ []string) {
		output.Blank()
	},
}

func init() {
	locationsCmd.Flags().StringVar(&locationsProject, "project", "", "Project to list locations of")
	rootCmd.AddCommand(locationsCmd)
}

func locationsRun(cmd *cobra.Command, _ []string) {
	acct, cfg, closer, err := newAccount(cmd)
	if err != nil {
		output.Error("%v", err)
		return
	}
	defer closer()

	projectID, err := resolveProject(locationsProject, cfg)
	if err != nil {
		output.Error("%v", err)
		return
	}

	locations, err := acct.ListLocations(cmd.Context(), projectID)
	if err != nil {
		output.Error("failed to list locations: %v", err)
		return
	}

	rows := make([][]string, 0, len(locations))
	for _, loc := range locations {
		zones := make([]string, 0, len(loc.Zones))
		for _, z := range loc.Zones {
			zones = append(zones, z.ID)
		}
		rows = append(rows, []string{output.Bold(loc.Region), strings.Join(zones, ", ")})
	}

	output.Blank()
	output.Table([]string{"Region", "Zones"}, rows)
}
