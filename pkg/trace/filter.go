package trace

import (
	"errors"
	"io"
	"log/slog"

	"github.com/getmockd/soaptrace/pkg/logging"
)

// Mode selects how an ActionFilter treats its action set.
type Mode int

const (
	// ModeExclude passes every action not in the set.
	ModeExclude Mode = iota
	// ModeInclude passes only actions in the set.
	ModeInclude
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeInclude {
		return "include"
	}
	return "exclude"
}

// ActionFilter decides which actions pass a Filter. The zero value excludes
// nothing.
type ActionFilter struct {
	Mode    Mode
	Actions map[string]struct{}
}

// Include returns a filter that passes only the given actions.
// With no actions it passes nothing.
func Include(actions ...string) ActionFilter {
	return ActionFilter{Mode: ModeInclude, Actions: actionSet(actions)}
}

// Exclude returns a filter that passes every action except the given ones.
// With no actions it passes everything.
func Exclude(actions ...string) ActionFilter {
	return ActionFilter{Mode: ModeExclude, Actions: actionSet(actions)}
}

func actionSet(actions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Allows reports whether action passes the filter.
func (f ActionFilter) Allows(action string) bool {
	_, listed := f.Actions[action]
	if f.Mode == ModeInclude {
		return listed
	}
	return !listed
}

// Matcher is an additional message predicate for a Filter.
type Matcher interface {
	Match(msg *Message) (bool, error)
}

// Filter wraps a Source and drops messages whose action the ActionFilter
// rejects. It owns the wrapped source.
type Filter struct {
	src     Source
	filter  ActionFilter
	where   Matcher
	logger  *slog.Logger
	skipped int
	closed  bool
	err     error
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithWhere adds a predicate that messages must also satisfy.
func WithWhere(m Matcher) FilterOption {
	return func(f *Filter) {
		f.where = m
	}
}

// WithFilterLogger sets the logger for dropped-message diagnostics.
func WithFilterLogger(logger *slog.Logger) FilterOption {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFilter creates a filter over src.
func NewFilter(src Source, filter ActionFilter, opts ...FilterOption) *Filter {
	f := &Filter{
		src:    src,
		filter: filter,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Next returns the next message that passes the filter, or io.EOF.
func (f *Filter) Next() (*Message, error) {
	if f.closed {
		return nil, ErrDisposed
	}
	if f.err != nil {
		return nil, f.err
	}

	for {
		msg, err := f.src.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				f.err = err
			}
			return nil, err
		}

		ok, err := f.passes(msg)
		if err != nil {
			f.err = err
			return nil, err
		}
		if ok {
			return msg, nil
		}
		f.skipped++
		f.logger.Debug("filtered message", "action", msg.Action, "source", msg.Source)
	}
}

func (f *Filter) passes(msg *Message) (bool, error) {
	if !f.filter.Allows(msg.Action) {
		return false, nil
	}
	if f.where == nil {
		return true, nil
	}
	return f.where.Match(msg)
}

// Skipped returns how many messages the filter has dropped.
func (f *Filter) Skipped() int { return f.skipped }

// Close closes the wrapped source once. Later calls return nil.
func (f *Filter) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.src.Close()
}

// Collect drains src into a slice. It stops at io.EOF or the first error,
// returning the messages read so far.
func Collect(src Source) ([]*Message, error) {
	var msgs []*Message
	for {
		msg, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return msgs, nil
			}
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
}
