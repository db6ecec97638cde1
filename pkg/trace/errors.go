package trace

import (
	"errors"
	"fmt"
)

// ErrInvalidSequence is returned when parser operations are called out of
// order. It is never caused by the content of a capture.
var ErrInvalidSequence = errors.New("invalid sequence of operations")

// Usage errors. Each wraps ErrInvalidSequence.
var (
	ErrAlreadyInitialized = fmt.Errorf("%w: parser already initialized", ErrInvalidSequence)
	ErrNotReady           = fmt.Errorf("%w: parser not initialized", ErrInvalidSequence)
	ErrDisposed           = fmt.Errorf("%w: parser disposed", ErrInvalidSequence)
	ErrNilSource          = fmt.Errorf("%w: nil source", ErrInvalidSequence)
)

// Operational errors for capture input.
var (
	ErrCaptureNotFound = errors.New("capture file not found")
	ErrInvalidCapture  = errors.New("invalid capture")
)

// ParseError reports malformed content in a capture. It is fatal for the
// parser that returned it and is never an end-of-stream signal.
type ParseError struct {
	// Source is the label the parser was set up with.
	Source string
	// Record is the 1-based record or block number, 0 when unknown.
	Record int
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Record > 0 {
		return fmt.Sprintf("%s: record %d: %v", e.Source, e.Record, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match ErrInvalidCapture.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidCapture }

func parseErrorf(source string, record int, format string, args ...any) error {
	return &ParseError{Source: source, Record: record, Err: fmt.Errorf(format, args...)}
}
