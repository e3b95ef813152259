package cmd

import (
	"github.com/spf13/cobra"

	"github.com/outfleet/outfleet/internal/constants"
	"github.com/outfleet/outfleet/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		output.Println(constants.ProjectName, *constants.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
