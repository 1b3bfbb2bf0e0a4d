package meta

const (
	// CLIName is the name of the binary and the prefix used for configuration
	// directories and environment variables.
	CLIName = "kongadmin"
)
