// Package config manages configuration for the outfleet CLI and server.
// It uses Viper for unified configuration management from files and
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/outfleet/outfleet/internal/constants"
	"github.com/outfleet/outfleet/internal/provision"
)

// Config is the unified configuration for the CLI and the HTTP server. Every
// provisioning knob the orchestration uses is overridable here; the compiled
// constants are defaults only.
type Config struct {
	// Account / credentials
	AccountName     string `mapstructure:"account_name" yaml:"account_name"`
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file" validate:"omitempty,file"`

	// Active project remembered between CLI invocations
	Project        string `mapstructure:"project" yaml:"project"`
	BillingAccount string `mapstructure:"billing_account" yaml:"billing_account"`

	// Provisioning knobs
	PollInterval      time.Duration `mapstructure:"poll_interval" validate:"omitempty,min=100ms"`
	OperationDeadline time.Duration `mapstructure:"operation_deadline" validate:"omitempty,min=1s"`
	MachineType       string        `mapstructure:"machine_type"`
	BootImage         string        `mapstructure:"boot_image"`
	FirewallName      string        `mapstructure:"firewall_name"`
	FirewallTargetTag string        `mapstructure:"firewall_target_tag"`
	RequiredServices  []string      `mapstructure:"required_services"`
	InstallPayload    string        `mapstructure:"install_payload_file" validate:"omitempty,file"`

	// Server configuration
	Port           int           `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
}

var validate = validator.New()

// Load loads the configuration using Viper. The config file at
// ~/.outfleet/config.yaml is optional; environment variables with the
// OUTFLEET_ prefix take precedence over file values.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if err := loadConfigFile(v); err != nil {
		// Missing config file is fine; env vars and defaults carry the rest.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	v.SetEnvPrefix(strings.ToUpper(constants.ProjectName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Save writes the remembered CLI settings to ~/.outfleet/config.yaml,
// overwriting any existing file.
func Save(cfg *Config) error {
	currentUser, err := user.Current()
	if err != nil {
		return fmt.Errorf("error getting current user: %w", err)
	}

	configDir := constants.ConfigDirPath(currentUser.HomeDir)
	if err = os.MkdirAll(configDir, constants.ConfigDirPermissions); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	configFilePath := filepath.Join(configDir, constants.ConfigFileName)

	v := viper.New()
	v.Set("account_name", cfg.AccountName)
	v.Set("credentials_file", cfg.CredentialsFile)
	v.Set("project", cfg.Project)
	v.Set("billing_account", cfg.BillingAccount)

	if err = v.WriteConfigAs(configFilePath); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	if err = os.Chmod(configFilePath, constants.ConfigFilePermissions); err != nil {
		return fmt.Errorf("error setting config file permissions: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("error getting current user: %w", err)
	}
	return filepath.Join(constants.ConfigDirPath(currentUser.HomeDir), constants.ConfigFileName), nil
}

// Settings materializes the provisioning settings from the configuration,
// reading the install payload file when one is configured. Unset knobs keep
// their compiled defaults.
func (c *Config) Settings() (provision.Settings, error) {
	s := provision.DefaultSettings()

	if c.PollInterval > 0 {
		s.PollInterval = c.PollInterval
	}
	if c.OperationDeadline > 0 {
		s.OperationDeadline = c.OperationDeadline
	}
	if c.MachineType != "" {
		s.MachineType = c.MachineType
	}
	if c.BootImage != "" {
		s.BootImage = c.BootImage
	}
	if c.FirewallName != "" {
		s.FirewallName = c.FirewallName
	}
	if c.FirewallTargetTag != "" {
		s.FirewallTargetTag = c.FirewallTargetTag
	}
	if len(c.RequiredServices) > 0 {
		s.RequiredServices = c.RequiredServices
	}
	if c.InstallPayload != "" {
		payload, err := os.ReadFile(c.InstallPayload)
		if err != nil {
			return s, fmt.Errorf("error reading install payload: %w", err)
		}
		s.InstallPayload = string(payload)
	}

	return s, nil
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("account_name", constants.ProjectName)
	v.SetDefault("poll_interval", constants.DefaultPollInterval)
	v.SetDefault("operation_deadline", constants.DefaultOperationDeadline)
	v.SetDefault("machine_type", constants.DefaultMachineType)
	v.SetDefault("boot_image", constants.DefaultBootImage)
	v.SetDefault("firewall_name", constants.FirewallName)
	v.SetDefault("firewall_target_tag", constants.FirewallTargetTag)
	v.SetDefault("required_services", constants.RequiredServices)
	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("request_timeout", 0)
	v.SetDefault("log_level", "INFO")
}

func loadConfigFile(v *viper.Viper) error {
	currentUser, err := user.Current()
	if err != nil {
		return fmt.Errorf("error getting current user: %w", err)
	}

	configFile := filepath.Join(constants.ConfigDirPath(currentUser.HomeDir), constants.ConfigFileName)
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	return v.ReadInConfig()
}

func bindEnvVars(v *viper.Viper) {
	envVars := []string{
		"ACCOUNT_NAME",
		"BILLING_ACCOUNT",
		"BOOT_IMAGE",
		"CREDENTIALS_FILE",
		"FIREWALL_NAME",
		"FIREWALL_TARGET_TAG",
		"INSTALL_PAYLOAD_FILE",
		"LOG_LEVEL",
		"MACHINE_TYPE",
		"OPERATION_DEADLINE",
		"POLL_INTERVAL",
		"PORT",
		"PROJECT",
		"REQUEST_TIMEOUT",
	}

	prefix := strings.ToUpper(constants.ProjectName)
	for _, envVar := range envVars {
		_ = v.BindEnv(strings.ToLower(envVar), prefix+"_"+envVar)
	}
}
