package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfleet/outfleet/internal/constants"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, constants.ProjectName, cfg.AccountName)
	assert.Equal(t, constants.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, constants.DefaultOperationDeadline, cfg.OperationDeadline)
	assert.Equal(t, constants.DefaultMachineType, cfg.MachineType)
	assert.Equal(t, constants.DefaultPort, cfg.Port)
	assert.Equal(t, constants.RequiredServices, cfg.RequiredServices)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OUTFLEET_MACHINE_TYPE", "e2-small")
	t.Setenv("OUTFLEET_POLL_INTERVAL", "5s")
	t.Setenv("OUTFLEET_PROJECT", "proj-from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "e2-small", cfg.MachineType)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, "proj-from-env", cfg.Project)
}

func TestSettingsAppliesOverrides(t *testing.T) {
	cfg := &Config{
		PollInterval: 10 * time.Second,
		MachineType:  "e2-medium",
		FirewallName: "custom-fw",
	}

	settings, err := cfg.Settings()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, settings.PollInterval)
	assert.Equal(t, "e2-medium", settings.MachineType)
	assert.Equal(t, "custom-fw", settings.FirewallName)
	// Unset knobs keep their defaults.
	assert.Equal(t, constants.DefaultOperationDeadline, settings.OperationDeadline)
	assert.Equal(t, constants.DefaultBootImage, settings.BootImage)
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).GetLogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "WARN"}).GetLogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "bogus"}).GetLogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{}).GetLogLevel())
}

func TestInvalidPortFailsValidation(t *testing.T) {
	t.Setenv("OUTFLEET_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}
