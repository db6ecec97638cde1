package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/getmockd/soaptrace/pkg/cli/internal/flags"
	"github.com/getmockd/soaptrace/pkg/cli/internal/output"
	"github.com/getmockd/soaptrace/pkg/cli/internal/parse"
	"github.com/getmockd/soaptrace/pkg/soap"
	"github.com/getmockd/soaptrace/pkg/trace"
)

// commandFlags maps command-local flag names to the config keys they set.
var commandFlags = map[string]string{
	"sides":  "sides",
	"format": "format",
}

// formatsByExt selects a capture format from a file extension.
var formatsByExt = map[string]trace.Format{
	".svclog": trace.FormatMessageLog,
	".xml":    trace.FormatMessageLog,
	".txt":    trace.FormatCapture,
}

type parseOptions struct {
	include flags.StringSlice
	exclude flags.StringSlice
	xpaths  flags.StringSlice
	where   string
	limit   int
}

// MessageOutput is the JSON form of one parsed message.
type MessageOutput struct {
	Source    string            `json:"source"`
	Action    string            `json:"action"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
	Side      string            `json:"side"`
	MessageID string            `json:"messageId,omitempty"`
	Version   soap.Version      `json:"version"`
	Size      int               `json:"size"`
	Values    map[string]string `json:"values,omitempty"`
	Operation string            `json:"operation,omitempty"`
	Proxy     string            `json:"proxy,omitempty"`
}

// ParseOutput is the JSON result of the parse command.
type ParseOutput struct {
	Files      []string        `json:"files"`
	Messages   []MessageOutput `json:"messages"`
	Skipped    int             `json:"skipped"`
	Assemblies []string        `json:"assemblies,omitempty"`
}

func newParseCmd(a *app) *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse <capture>...",
		Short: "List the SOAP requests recorded in capture files",
		Long: `List the SOAP requests recorded in one or more capture files, in order.

Arguments may be ** glob patterns. The capture format is chosen from the
file extension (.svclog and .xml are message logs, .txt is a session
export) unless --format is given.

Examples:
  soaptrace parse traces/client.svclog
  soaptrace parse 'captures/**/*.txt' --exclude http://tempuri.org/IPing/Ping
  soaptrace parse run.svclog --where 'side == "caller" && size > 1024'
  soaptrace parse run.svclog --xpath order=//OrderId --catalog catalog.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.flagCfg.Sides, "sides", "", "Sides to report: caller, handler, both (default: both)")
	f.StringVar(&a.flagCfg.Format, "format", "", "Capture format: messagelog, capture (default: from extension)")
	f.Var(&opts.include, "include", "Only report these actions (repeatable, comma-separated)")
	f.Var(&opts.exclude, "exclude", "Skip these actions (repeatable, comma-separated)")
	f.StringVar(&opts.where, "where", "", "Only report messages matching this expression")
	f.Var(&opts.xpaths, "xpath", "Extract name=xpath from each envelope (repeatable)")
	f.IntVar(&opts.limit, "limit", 0, "Stop after this many messages (0 = no limit)")
	cmd.MarkFlagsMutuallyExclusive("include", "exclude")
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, args []string, opts *parseOptions) error {
	files, err := expandCaptures(args)
	if err != nil {
		return err
	}
	columns, err := parse.Columns(opts.xpaths)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}

	filterOpts := []trace.FilterOption{trace.WithFilterLogger(a.logger)}
	if opts.where != "" {
		where, err := trace.CompileWhere(opts.where)
		if err != nil {
			return err
		}
		filterOpts = append(filterOpts, trace.WithWhere(where))
	}

	var res *resolution
	if a.cfg.Catalog != "" {
		if res, err = openResolution(a.cfg.Catalog, a.logger); err != nil {
			return err
		}
	}

	sides, _ := trace.ParseSide(a.cfg.Sides)
	result := ParseOutput{Files: files, Messages: []MessageOutput{}}

	for _, path := range files {
		format, err := a.captureFormat(path)
		if err != nil {
			return err
		}
		parser, err := trace.OpenFile(path, format, sides, trace.WithLogger(a.logger))
		if err != nil {
			return err
		}

		filter := trace.NewFilter(parser, actionFilter(opts), filterOpts...)
		err = drain(filter, func(msg *trace.Message) bool {
			result.Messages = append(result.Messages, messageOutput(msg, columns, res))
			return opts.limit == 0 || len(result.Messages) < opts.limit
		})
		result.Skipped += filter.Skipped()
		closeErr := filter.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
		a.logger.Info("capture parsed", "path", path, "format", string(format), "records", parser.Records())

		if opts.limit > 0 && len(result.Messages) >= opts.limit {
			break
		}
	}
	if res != nil {
		result.Assemblies = res.assemblies()
	}

	if a.cfg.JSON {
		return output.JSON(cmd.OutOrStdout(), result)
	}
	printMessages(cmd.OutOrStdout(), result, columns, res != nil)
	fmt.Fprintf(cmd.ErrOrStderr(), "%d messages from %d files (%d skipped)\n", len(result.Messages), len(files), result.Skipped)
	return nil
}

// expandCaptures resolves glob patterns. Plain paths are kept as given so
// a missing file is reported by the trace reader.
func expandCaptures(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, ErrNoCaptures
	}
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			files = append(files, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q: %v", ErrInvalidArgs, arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: no capture files match %q", ErrNoCaptures, arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// captureFormat returns the configured format or infers it from path.
func (a *app) captureFormat(path string) (trace.Format, error) {
	if a.cfg.Format != "" {
		return trace.ParseFormat(a.cfg.Format)
	}
	if format, ok := formatsByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return format, nil
	}
	return "", fmt.Errorf("cannot tell the capture format of %s - pass --format", path)
}

func actionFilter(opts *parseOptions) trace.ActionFilter {
	if len(opts.include) > 0 {
		return trace.Include(opts.include...)
	}
	return trace.Exclude(opts.exclude...)
}

// drain reads src until io.EOF or until fn returns false.
func drain(src trace.Source, fn func(*trace.Message) bool) error {
	for {
		msg, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !fn(msg) {
			return nil
		}
	}
}

func messageOutput(msg *trace.Message, columns []parse.Column, res *resolution) MessageOutput {
	out := MessageOutput{
		Source:  msg.Source,
		Action:  msg.Action,
		Side:    msg.Side.String(),
		Version: msg.Payload.Version(),
		Size:    msg.Payload.Len(),
	}
	if !msg.Timestamp.IsZero() {
		ts := msg.Timestamp
		out.Timestamp = &ts
	}
	if msg.MessageID != uuid.Nil {
		out.MessageID = msg.MessageID.String()
	}

	if len(columns) > 0 {
		out.Values = make(map[string]string, len(columns))
		doc, err := msg.Payload.Document()
		for _, c := range columns {
			if err == nil {
				out.Values[c.Name] = soap.ExtractXPath(doc, soap.NormalizeXPath(c.XPath))
			}
		}
	}

	if res != nil {
		r := res.resolve(msg.Action)
		if r.Found {
			out.Operation = r.Contract + "." + r.Operation
			out.Proxy = r.Proxy
		}
	}
	return out
}

func printMessages(w io.Writer, result ParseOutput, columns []parse.Column, annotated bool) {
	tw := output.Table(w)
	header := []string{"TIME", "SIDE", "VERSION", "ACTION"}
	for _, c := range columns {
		header = append(header, strings.ToUpper(c.Name))
	}
	if annotated {
		header = append(header, "OPERATION", "PROXY")
	}
	output.Row(tw, header...)

	for _, m := range result.Messages {
		ts := time.Time{}
		if m.Timestamp != nil {
			ts = *m.Timestamp
		}
		row := []string{output.Time(ts), m.Side, string(m.Version), m.Action}
		for _, c := range columns {
			row = append(row, m.Values[c.Name])
		}
		if annotated {
			row = append(row, m.Operation, m.Proxy)
		}
		output.Row(tw, row...)
	}
	_ = tw.Flush()
}
