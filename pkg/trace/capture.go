package trace

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"regexp"
	"strconv"
	"strings"

	"github.com/getmockd/soaptrace/pkg/soap"
)

// CaptureDelimiter is the line separating sessions in a plain-text capture.
const CaptureDelimiter = "------------------------------------------------------------------"

var (
	requestLineRegex = regexp.MustCompile(`^[A-Z]+ \S+ HTTP/\d(\.\d)?$`)
	statusLineRegex  = regexp.MustCompile(`^HTTP/\d(\.\d)? \d{3}\b`)
)

// capture reads plain-text session exports: HTTP request and response text
// blocks separated by CaptureDelimiter lines. Only the request header
// section of a block is searched for the action.
type capture struct {
	r   *bufio.Reader
	eof bool
}

// NewCaptureParser creates a parser for plain-text captures.
func NewCaptureParser(opts ...Option) *Parser {
	return newParser(FormatCapture, &capture{}, opts)
}

func (c *capture) setup(p *Parser) error {
	c.r = bufio.NewReader(p.src)

	head, err := c.r.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return fmt.Errorf("reading %s: %w", p.label, err)
	}
	head = bytes.TrimSpace(head)
	if len(head) == 0 {
		return fmt.Errorf("%w: %s: empty capture", ErrInvalidCapture, p.label)
	}
	if head[0] == '<' {
		return fmt.Errorf("%w: %s: XML content, not a plain-text capture", ErrInvalidCapture, p.label)
	}
	return nil
}

func (c *capture) next(p *Parser) (*Message, error) {
	for {
		block, err := c.readBlock()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("reading %s: %w", p.label, err)
		}
		if len(bytes.TrimSpace(block)) == 0 {
			continue
		}

		p.records++
		msg, err := c.parseBlock(p, block)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			return msg, nil
		}
	}
}

// readBlock returns the text up to the next delimiter line or end of input.
func (c *capture) readBlock() ([]byte, error) {
	if c.eof {
		return nil, io.EOF
	}

	var block bytes.Buffer
	for {
		line, err := c.r.ReadString('\n')
		if line != "" {
			if strings.TrimRight(line, " \t\r\n") == CaptureDelimiter {
				return block.Bytes(), nil
			}
			block.WriteString(line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}
			c.eof = true
			if block.Len() == 0 {
				return nil, io.EOF
			}
			return block.Bytes(), nil
		}
	}
}

// parseBlock extracts the request of one session. It returns a nil message
// for blocks that carry no request action.
func (c *capture) parseBlock(p *Parser, block []byte) (*Message, error) {
	tp := textproto.NewReader(bufio.NewReader(bytes.NewReader(block)))

	var requestLine string
	for requestLine == "" {
		line, err := tp.ReadLine()
		if err != nil {
			return nil, nil
		}
		requestLine = strings.TrimSpace(line)
	}
	if !requestLineRegex.MatchString(requestLine) {
		p.logger.Debug("skipping block without request line", "record", p.records)
		return nil, nil
	}
	if !p.sides.Has(SideCaller) {
		return nil, nil
	}

	header, err := tp.ReadMIMEHeader()
	terminated := true
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, &ParseError{Source: p.label, Record: p.records, Err: fmt.Errorf("request headers: %w", err)}
		}
		terminated = false
	}

	action := soap.ActionFromHeader(header)
	if action == "" {
		p.logger.Debug("skipping block without action header", "record", p.records, "request", requestLine)
		return nil, nil
	}
	if !terminated {
		return nil, parseErrorf(p.label, p.records, "request for %q: headers not followed by a blank line", action)
	}

	rest, err := io.ReadAll(tp.R)
	if err != nil {
		return nil, &ParseError{Source: p.label, Record: p.records, Err: err}
	}
	body := requestBody(rest, header.Get("Content-Length"))
	if len(body) == 0 {
		return nil, parseErrorf(p.label, p.records, "request for %q has no envelope", action)
	}

	version, err := soap.DetectVersion(body)
	if err != nil {
		return nil, parseErrorf(p.label, p.records, "request for %q: %w", action, err)
	}
	doc, err := soap.ParseEnvelope(body)
	if err != nil {
		return nil, parseErrorf(p.label, p.records, "request for %q: %w", action, err)
	}

	msg := p.newMessage(action, SideCaller, NewPayload(body, version))
	if id, ok := soap.MessageID(doc); ok {
		msg.MessageID = id
	}
	return msg, nil
}

// requestBody cuts the request body out of the text following the request
// headers. Content-Length is trusted only when the response starts right
// after it; otherwise the body ends at the response status line.
func requestBody(rest []byte, contentLength string) []byte {
	if n, err := strconv.Atoi(strings.TrimSpace(contentLength)); err == nil && n >= 0 && n <= len(rest) {
		tail := bytes.TrimSpace(rest[n:])
		if len(tail) == 0 || statusLineRegex.Match(tail) {
			return bytes.TrimSpace(rest[:n])
		}
	}

	offset := 0
	for offset < len(rest) {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if statusLineRegex.Match(bytes.TrimSpace(line)) {
			return bytes.TrimSpace(rest[:offset])
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return bytes.TrimSpace(rest)
}
