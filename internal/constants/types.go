package constants

// Environment selects logging and output behavior.
type Environment string

const (
	// Production emits JSON logs for log aggregation.
	Production Environment = "production"
	// Development emits colored human-readable logs.
	Development Environment = "development"
	// CLI behaves like Development but is quieter by default.
	CLI Environment = "cli"
)

var version = "dev"

// GetVersion returns the build version, set at link time.
func GetVersion() *string {
	return &version
}
