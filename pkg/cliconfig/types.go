// Package cliconfig provides configuration types and loading for the
// soaptrace CLI.
package cliconfig

// CLIConfig represents the complete configuration for the soaptrace CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.soaptracerc.yaml in current directory)
// 4. Global config file ($XDG_CONFIG_HOME/soaptrace/config.yaml)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// Catalog is the manifest used to resolve actions.
	Catalog string `yaml:"catalog,omitempty" json:"catalog,omitempty"`

	// Capture settings
	Sides  string `yaml:"sides" json:"sides"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// Output settings
	JSON bool `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which keys were present in a loaded file, so an
	// explicit false can be told apart from an absent boolean.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceFlag    = "flag"
)
