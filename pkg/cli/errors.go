package cli

import "errors"

// Common CLI errors
var (
	ErrNoCatalog   = errors.New("no catalog configured - pass --catalog or set SOAPTRACE_CATALOG")
	ErrNoCaptures  = errors.New("no capture files given")
	ErrUnresolved  = errors.New("some actions did not resolve")
	ErrInvalidArgs = errors.New("invalid arguments")
)
