package cliconfig

// DefaultLogLevel keeps diagnostics quiet unless asked for.
const DefaultLogLevel = "warn"

// DefaultLogFormat is the default log output format.
const DefaultLogFormat = "text"

// DefaultSides surfaces requests from both the caller and the handler.
const DefaultSides = "both"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sides:     DefaultSides,
		Sources:   make(map[string]string),
	}

	// Mark all as default source
	cfg.Sources["logLevel"] = SourceDefault
	cfg.Sources["logFormat"] = SourceDefault
	cfg.Sources["sides"] = SourceDefault

	return cfg
}
