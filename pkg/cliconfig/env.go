package cliconfig

import (
	"os"
	"strconv"
)

// Environment variable names.
const (
	EnvLogLevel  = "SOAPTRACE_LOG_LEVEL"
	EnvLogFormat = "SOAPTRACE_LOG_FORMAT"
	EnvLogFile   = "SOAPTRACE_LOG_FILE"
	EnvCatalog   = "SOAPTRACE_CATALOG"
	EnvSides     = "SOAPTRACE_SIDES"
	EnvFormat    = "SOAPTRACE_FORMAT"
	EnvJSON      = "SOAPTRACE_JSON"
)

// LoadEnvConfig applies SOAPTRACE_* environment variables to cfg.
// Unparseable booleans are ignored.
func LoadEnvConfig(cfg *CLIConfig) {
	env := &CLIConfig{
		LogLevel:  os.Getenv(EnvLogLevel),
		LogFormat: os.Getenv(EnvLogFormat),
		LogFile:   os.Getenv(EnvLogFile),
		Catalog:   os.Getenv(EnvCatalog),
		Sides:     os.Getenv(EnvSides),
		Format:    os.Getenv(EnvFormat),
		SetFields: make(map[string]bool),
	}
	if v, ok := os.LookupEnv(EnvJSON); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			env.JSON = b
			env.SetFields["json"] = true
		}
	}
	MergeConfig(cfg, env, SourceEnv)
}
