package trace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/getmockd/soaptrace/pkg/logging"
)

// Source is a lazy, forward-only sequence of messages. Next returns io.EOF
// once the sequence is exhausted. Close releases the underlying input.
type Source interface {
	Next() (*Message, error)
	Close() error
}

// Format selects a capture format.
type Format string

// Supported capture formats.
const (
	// FormatMessageLog is the XML message log written by service tracing.
	FormatMessageLog Format = "messagelog"
	// FormatCapture is the plain-text session export of an HTTP debugger.
	FormatCapture Format = "capture"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "messagelog", "svclog", "xml":
		return FormatMessageLog, nil
	case "capture", "text", "txt", "fiddler":
		return FormatCapture, nil
	default:
		return "", fmt.Errorf("unknown capture format %q", s)
	}
}

// formatHooks holds the format-specific steps of a Parser. The base parser
// owns the lifecycle; hooks only set up their reader and read one message.
type formatHooks interface {
	setup(p *Parser) error
	next(p *Parser) (*Message, error)
}

// Parser turns a capture into a sequence of messages.
//
// A Parser is set up exactly once with the source it reads from and then
// drained with Next. It is not safe for concurrent use.
type Parser struct {
	format    Format
	hooks     formatHooks
	state     State
	attempted bool
	failed    error

	src    io.ReadCloser
	label  string
	sides  Side
	closed bool

	records int
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for skipped-record diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates an uninitialized parser for the given format.
func New(format Format, opts ...Option) (*Parser, error) {
	switch format {
	case FormatMessageLog:
		return NewMessageLogParser(opts...), nil
	case FormatCapture:
		return NewCaptureParser(opts...), nil
	default:
		return nil, fmt.Errorf("unknown capture format %q", format)
	}
}

func newParser(format Format, hooks formatHooks, opts []Option) *Parser {
	p := &Parser{
		format: format,
		hooks:  hooks,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("format", string(format))
	return p
}

// Setup hands src to the parser and prepares it for reading. The parser
// owns src once Setup accepts it and closes it if preparation fails.
// Setup may be called once; later calls fail with ErrAlreadyInitialized and
// leave src with the caller.
func (p *Parser) Setup(src io.ReadCloser, label string, sides Side) error {
	if p.state == StateDisposed {
		return ErrDisposed
	}
	if p.attempted {
		return ErrAlreadyInitialized
	}
	if src == nil {
		return ErrNilSource
	}
	p.attempted = true

	p.src = src
	p.label = label
	p.sides = sides

	if err := p.hooks.setup(p); err != nil {
		_ = p.release()
		return err
	}

	p.state = StateReady
	p.logger.Debug("parser ready", "source", label, "sides", sides.String())
	return nil
}

// Next returns the next message, or io.EOF when the capture is exhausted.
// A *ParseError is returned for malformed content and repeats on every
// later call.
func (p *Parser) Next() (*Message, error) {
	switch p.state {
	case StateUninitialized:
		return nil, ErrNotReady
	case StateDisposed:
		return nil, ErrDisposed
	case StateExhausted:
		return nil, io.EOF
	}
	if p.failed != nil {
		return nil, p.failed
	}

	msg, err := p.hooks.next(p)
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.state = StateExhausted
			return nil, io.EOF
		}
		p.failed = err
		return nil, err
	}
	return msg, nil
}

// Close releases the source. It is safe to call more than once.
func (p *Parser) Close() error {
	p.state = StateDisposed
	return p.release()
}

func (p *Parser) release() error {
	if p.closed || p.src == nil {
		return nil
	}
	p.closed = true
	return p.src.Close()
}

// State returns the parser's lifecycle state.
func (p *Parser) State() State { return p.state }

// Format returns the capture format the parser reads.
func (p *Parser) Format() Format { return p.format }

// Label returns the label passed to Setup.
func (p *Parser) Label() string { return p.label }

// Sides returns the sides requested in Setup.
func (p *Parser) Sides() Side { return p.sides }

// Records returns how many records or blocks have been scanned so far,
// including skipped ones.
func (p *Parser) Records() int { return p.records }

func (p *Parser) newMessage(action string, side Side, payload Payload) *Message {
	return &Message{
		Action:  action,
		Side:    side,
		Source:  p.label,
		Payload: payload,
	}
}
