// Package trace reads SOAP request messages out of captured traffic.
//
// Two capture formats are supported:
//   - Message logs: XML trace files written by a service framework's
//     message logging, one MessageLogTraceRecord per logged message,
//     optionally wrapped in E2ETraceEvent elements.
//   - Plain-text captures: HTTP session exports from a debugging proxy,
//     sessions separated by a line of dashes.
//
// # Parsers
//
// A Parser is created for one format and bound to one stream:
//
//	p, err := trace.New(trace.FormatMessageLog)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	if err := p.Setup(src, "orders.svclog", trace.SideCaller); err != nil {
//	    return err
//	}
//	for {
//	    msg, err := p.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(msg.Action)
//	}
//
// Setup may be attempted only once per parser. After a successful Setup the
// parser owns the stream and closes it on Close. Next returns io.EOF once
// the stream is exhausted, and keeps returning it. A *ParseError from Next
// means the capture is malformed and is returned again on every later call.
//
// # Filtering
//
// A Filter wraps any Source and passes only messages whose action an
// ActionFilter allows. An optional expr-lang predicate (see CompileWhere)
// narrows the result further.
package trace
