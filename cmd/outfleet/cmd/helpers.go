package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/outfleet/outfleet/internal/account"
	"github.com/outfleet/outfleet/internal/config"
	"github.com/outfleet/outfleet/internal/gcp"
	"github.com/outfleet/outfleet/internal/keystore"
)

// newAccount builds the account facade from the loaded configuration. The
// returned closer releases the underlying API clients.
func newAccount(cmd *cobra.Command) (*account.Account, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	settings, err := cfg.Settings()
	if err != nil {
		return nil, nil, nil, err
	}

	client, err := gcp.NewClient(cmd.Context(), cfg.CredentialsFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create cloud client: %w", err)
	}

	acct := account.New(cfg.AccountName, client, settings, slog.Default())
	closer := func() {
		if err := client.Close(); err != nil {
			slog.Default().Debug("error closing cloud client", "error", err)
		}
	}
	return acct, cfg, closer, nil
}

// openKeystore opens the per-user keystore. Returns nil when the home
// directory cannot be resolved; callers treat a nil store as best-effort.
func openKeystore() *keystore.Store {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		slog.Default().Debug("cannot resolve home directory", "error", err)
		return nil
	}
	return keystore.NewDefault(homeDir)
}

// resolveProject returns the explicit flag value, the configured project,
// or the project remembered in the keystore, in that order.
func resolveProject(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Project != "" {
		return cfg.Project, nil
	}
	if store := openKeystore(); store != nil {
		if data, err := store.Read(); err == nil && data.ActiveProject != "" {
			return data.ActiveProject, nil
		}
	}
	return "", fmt.Errorf("no project specified: pass --project or set it in the config")
}
