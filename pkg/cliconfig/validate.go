package cliconfig

import (
	"fmt"

	"github.com/getmockd/soaptrace/pkg/logging"
	"github.com/getmockd/soaptrace/pkg/trace"
)

// Validate checks that every configured value is usable.
func (c *CLIConfig) Validate() error {
	if _, ok := logging.LookupLevel(c.LogLevel); !ok {
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if _, ok := logging.LookupFormat(c.LogFormat); !ok {
		return fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat)
	}
	if _, ok := trace.ParseSide(c.Sides); !ok {
		return fmt.Errorf("sides %q is not one of caller, handler, both", c.Sides)
	}
	if c.Format != "" {
		if _, err := trace.ParseFormat(c.Format); err != nil {
			return fmt.Errorf("format: %w", err)
		}
	}
	return nil
}
