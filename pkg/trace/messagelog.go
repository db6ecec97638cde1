package trace

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"time"

	"github.com/getmockd/soaptrace/pkg/soap"
)

// Message log record sources that carry requests, by logging side.
// Replies and transport-level records are not requests and are skipped.
var messageLogSides = map[string]Side{
	"ServiceLevelSendRequest":     SideCaller,
	"ServiceLevelSendDatagram":    SideCaller,
	"ServiceLevelReceiveRequest":  SideHandler,
	"ServiceLevelReceiveDatagram": SideHandler,
}

// Elements a message log may start with.
var messageLogRoots = map[string]bool{
	"E2ETraceEvent":         true,
	"MessageLogTraceRecord": true,
}

var messageLogTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// messageLog reads the XML message log format: a sequence of E2ETraceEvent
// elements, each wrapping a MessageLogTraceRecord with the logged envelope.
// The log is streamed; only the current record is buffered.
type messageLog struct {
	rec       *recordingReader
	dec       *xml.Decoder
	pending   *xml.StartElement
	eventTime time.Time
}

// NewMessageLogParser creates a parser for XML message logs. A record whose
// envelope carries no Action header and whose HTTP request headers name no
// action is skipped, as is a record with no envelope.
func NewMessageLogParser(opts ...Option) *Parser {
	return newParser(FormatMessageLog, &messageLog{}, opts)
}

func (m *messageLog) setup(p *Parser) error {
	// Transcode ahead of the recording layer so decoder offsets index the
	// recorded bytes.
	src, err := soap.NewDeclaredReader(p.src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCapture, p.label, err)
	}
	m.rec = newRecordingReader(src)
	m.dec = xml.NewDecoder(m.rec)
	m.dec.CharsetReader = soap.Transcoded

	for {
		tok, err := m.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %s: no trace records", ErrInvalidCapture, p.label)
			}
			return &ParseError{Source: p.label, Err: err}
		}

		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("%w: %s: not a message log", ErrInvalidCapture, p.label)
			}
		case xml.StartElement:
			if !messageLogRoots[t.Name.Local] {
				return fmt.Errorf("%w: %s: unexpected element %s, not a message log", ErrInvalidCapture, p.label, t.Name.Local)
			}
			m.rec.reset()
			start := t.Copy()
			m.pending = &start
			return nil
		}
	}
}

func (m *messageLog) next(p *Parser) (*Message, error) {
	for {
		se, err := m.nextStart(p)
		if err != nil {
			return nil, err
		}

		switch se.Name.Local {
		case "E2ETraceEvent":
			m.eventTime = time.Time{}
		case "TimeCreated":
			if v := attrValue(se, "SystemTime"); v != "" {
				ts, err := parseLogTime(v)
				if err != nil {
					return nil, &ParseError{Source: p.label, Record: p.records + 1, Err: err}
				}
				m.eventTime = ts
			}
		case "MessageLogTraceRecord":
			p.records++
			msg, err := m.readRecord(p, se)
			if err != nil {
				return nil, err
			}
			if msg != nil {
				return msg, nil
			}
		}
	}
}

// nextStart returns the next start element, restarting the record buffer
// right after it.
func (m *messageLog) nextStart(p *Parser) (xml.StartElement, error) {
	if m.pending != nil {
		se := *m.pending
		m.pending = nil
		return se, nil
	}

	for {
		tok, err := m.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xml.StartElement{}, io.EOF
			}
			return xml.StartElement{}, &ParseError{Source: p.label, Record: p.records, Err: err}
		}
		if se, ok := tok.(xml.StartElement); ok {
			m.rec.reset()
			return se, nil
		}
	}
}

// readRecord consumes one MessageLogTraceRecord. It returns a nil message
// for records that are skipped.
func (m *messageLog) readRecord(p *Parser, start xml.StartElement) (*Message, error) {
	source := attrValue(start, "Source")
	side, isRequest := messageLogSides[source]
	if !isRequest || !p.sides.Has(side) {
		p.logger.Debug("skipping record", "record", p.records, "recordSource", source)
		if err := m.dec.Skip(); err != nil {
			return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
		}
		return nil, nil
	}

	ts := m.eventTime
	if v := attrValue(start, "Time"); v != "" {
		parsed, err := parseLogTime(v)
		if err != nil {
			return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
		}
		ts = parsed
	}

	var (
		envelope   []byte
		httpAction string
	)
	for done := false; !done; {
		offset := m.dec.InputOffset()
		tok, err := m.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
		}

		switch t := tok.(type) {
		case xml.EndElement:
			done = true
		case xml.StartElement:
			switch t.Name.Local {
			case "Envelope":
				if err := m.dec.Skip(); err != nil {
					return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
				}
				raw, err := m.rec.slice(offset, m.dec.InputOffset())
				if err != nil {
					return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
				}
				envelope = raw
			case "HttpRequest":
				var hr httpRequestRecord
				if err := m.dec.DecodeElement(&hr, &t); err != nil {
					return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
				}
				httpAction = hr.action()
			default:
				if err := m.dec.Skip(); err != nil {
					return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
				}
			}
		}
	}

	if envelope == nil {
		p.logger.Debug("skipping record without envelope", "record", p.records)
		return nil, nil
	}

	version, err := soap.DetectVersion(envelope)
	if err != nil {
		return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
	}
	doc, err := soap.ParseEnvelope(envelope)
	if err != nil {
		return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
	}

	action := soap.Action(doc)
	if action == "" {
		action = httpAction
	}
	if action == "" {
		p.logger.Debug("skipping record without action", "record", p.records)
		return nil, nil
	}

	msg := p.newMessage(action, side, NewPayload(envelope, version))
	msg.Timestamp = ts.UTC()
	if id, ok := soap.MessageID(doc); ok {
		msg.MessageID = id
	}
	return msg, nil
}

// httpRequestRecord is the HTTP request summary logged next to an envelope.
type httpRequestRecord struct {
	Method  string `xml:"Method"`
	Headers struct {
		Items []struct {
			XMLName xml.Name
			Value   string `xml:",chardata"`
		} `xml:",any"`
	} `xml:"WebHeaders"`
}

func (r *httpRequestRecord) action() string {
	h := textproto.MIMEHeader{}
	for _, item := range r.Headers.Items {
		h.Add(item.XMLName.Local, item.Value)
	}
	return soap.ActionFromHeader(h)
}

func attrValue(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func parseLogTime(v string) (time.Time, error) {
	for _, layout := range messageLogTimeLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid record time %q", v)
}

// recordingReader feeds the XML decoder byte by byte and keeps the bytes
// read since the last reset, so raw element text can be sliced out by
// decoder offsets.
type recordingReader struct {
	r    *bufio.Reader
	buf  []byte
	n    int64
	base int64
}

func newRecordingReader(r io.Reader) *recordingReader {
	return &recordingReader{r: bufio.NewReader(r)}
}

func (rr *recordingReader) ReadByte() (byte, error) {
	b, err := rr.r.ReadByte()
	if err != nil {
		return 0, err
	}
	rr.n++
	rr.buf = append(rr.buf, b)
	return b, nil
}

func (rr *recordingReader) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	rr.n += int64(n)
	rr.buf = append(rr.buf, p[:n]...)
	return n, err
}

func (rr *recordingReader) reset() {
	rr.buf = rr.buf[:0]
	rr.base = rr.n
}

func (rr *recordingReader) slice(start, end int64) ([]byte, error) {
	if start < rr.base || end > rr.n || start > end {
		return nil, fmt.Errorf("element offsets %d-%d outside buffered range %d-%d", start, end, rr.base, rr.n)
	}
	return rr.buf[start-rr.base : end-rr.base], nil
}
