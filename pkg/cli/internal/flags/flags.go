// Package flags provides reusable flag types for CLI commands.
package flags

import (
	"strings"

	"github.com/getmockd/soaptrace/pkg/cli/internal/parse"
)

// StringSlice implements pflag.Value for repeatable string flags. Each
// occurrence may also hold a comma-separated list.
type StringSlice []string

// String returns the string representation of the flag value.
func (s *StringSlice) String() string {
	return strings.Join(*s, ",")
}

// Set appends the comma-separated values to the slice.
func (s *StringSlice) Set(value string) error {
	*s = append(*s, parse.SplitTrim(value, ",")...)
	return nil
}

// Type specifies the type label for Cobra flags.
func (s *StringSlice) Type() string {
	return "strings"
}
