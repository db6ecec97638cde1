// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"strings"
)

// KeyValue parses a "key:value" or "key=value" string.
// If delimiters are provided, uses the first one found; otherwise defaults to ':'.
// Returns the key, value, and a boolean indicating success.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{':'}
	}

	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Column is a named XPath extracted from every message.
type Column struct {
	Name  string
	XPath string
}

// Columns parses "name=xpath" args. A bare path is named after its last
// step.
func Columns(args []string) ([]Column, error) {
	cols := make([]Column, 0, len(args))
	for _, arg := range args {
		name, path, ok := KeyValue(arg, '=')
		if !ok {
			path = arg
			name = lastStep(arg)
		}
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid xpath column %q (want name=path)", arg)
		}
		cols = append(cols, Column{Name: name, XPath: path})
	}
	return cols, nil
}

func lastStep(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndexAny(path, "/@"); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.IndexByte(path, '['); i >= 0 {
		path = path[:i]
	}
	if i := strings.IndexByte(path, ':'); i >= 0 {
		path = path[i+1:]
	}
	return path
}

// SplitTrim splits a string by separator and trims each part.
// Empty parts are dropped.
func SplitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
