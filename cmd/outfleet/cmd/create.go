package cmd

import (
	"github.com/spf13/cobra"

	"github.com/outfleet/outfleet/internal/keystore"
	"github.com/outfleet/outfleet/internal/output"
)

var (
	createProject     string
	createZone        string
	createDescription string
	createNoWait      bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a relay server",
	Long:  "Create a relay server in the given project and zone and wait for it to become fully ready",
	Run:   createRun,
	PostRun: func(cmd *cobra.Command, _ []string) {
		output.Blank()
	},
}

func init() {
	createCmd.Flags().StringVar(&createProject, "project", "", "Project to create the server in")
	createCmd.Flags().StringVar(&createZone, "zone", "", "Zone to create the server in")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Server description")
	createCmd.Flags().BoolVar(&createNoWait, "no-wait", false, "Return as soon as the creation is accepted")
	_ = createCmd.MarkFlagRequired("zone")
	rootCmd.AddCommand(createCmd)
}

func createRun(cmd *cobra.Command, _ []string) {
	acct, cfg, closer, err := newAccount(cmd)
	if err != nil {
		output.Error("%v", err)
		return
	}
	defer closer()

	projectID, err := resolveProject(createProject, cfg)
	if err != nil {
		output.Error("%v", err)
		return
	}

	output.Info("Creating server in %s (%s)…", projectID, createZone)

	server, err := acct.CreateServer(cmd.Context(), projectID, createDescription, createZone)
	if err != nil {
		output.Error("failed to create server: %v", err)
		return
	}

	output.Success("Instance %s accepted by the provider", output.Bold(server.Name))
	output.KeyValue("ID", server.ID)
	output.KeyValue("Zone", server.Locator.Zone)

	if createNoWait {
		output.Info("Provisioning continues in the background")
		return
	}

	spinner := output.NewSpinner("Waiting for firewall and static address…")
	spinner.Start()
	if err := server.Completion.Wait(cmd.Context()); err != nil {
		spinner.Error("Provisioning failed")
		output.Error("%v", err)
		return
	}
	spinner.Success("Server " + server.Name + " is ready")

	key := keystore.ServerKey{
		ServerID:   server.ID,
		ServerName: server.Name,
		ProjectID:  server.Locator.ProjectID,
		Zone:       server.Locator.Zone,
	}
	if instance, err := acct.DescribeServer(cmd.Context(), server.Locator); err == nil {
		key.IP = instance.ExternalIP()
		output.KeyValue("IP", key.IP)
	}
	if store := openKeystore(); store != nil {
		if err := store.PutKey(key); err != nil {
			output.Warning("could not record server key: %v", err)
		}
	}
}
