package trace

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/getmockd/soaptrace/pkg/soap"
	"github.com/google/uuid"
)

// Side identifies which party logged a message. Values combine as a set.
type Side uint8

const (
	// SideCaller marks requests logged by the calling client.
	SideCaller Side = 1 << iota
	// SideHandler marks requests logged by the service that handled them.
	SideHandler

	// SideBoth requests messages from either side.
	SideBoth = SideCaller | SideHandler
)

// Has reports whether s includes every side in other.
func (s Side) Has(other Side) bool {
	return other != 0 && s&other == other
}

// String returns a readable name for the side set.
func (s Side) String() string {
	switch s {
	case SideCaller:
		return "caller"
	case SideHandler:
		return "handler"
	case SideBoth:
		return "both"
	default:
		return "none"
	}
}

// ParseSide parses "caller", "handler", "both" or "none".
func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "caller", "client":
		return SideCaller, true
	case "handler", "service":
		return SideHandler, true
	case "both", "":
		return SideBoth, true
	case "none":
		return 0, true
	default:
		return 0, false
	}
}

// Message is one normalized request read from a capture.
// Parsers create messages and never modify them afterwards.
type Message struct {
	// Action is the action identifier the request was addressed to.
	Action string

	// Timestamp is when the request was logged, in UTC. It is the zero
	// time for formats that do not record one.
	Timestamp time.Time

	// Side is the party that logged the request.
	Side Side

	// MessageID is the WS-Addressing MessageID, or uuid.Nil.
	MessageID uuid.UUID

	// Source is the label the parser was set up with.
	Source string

	// Payload is the buffered request envelope.
	Payload Payload
}

// Payload is a buffered SOAP envelope that can be read any number of times.
type Payload struct {
	data    []byte
	version soap.Version
}

// NewPayload copies data into a payload and records its SOAP version.
func NewPayload(data []byte, version soap.Version) Payload {
	return Payload{data: bytes.Clone(data), version: version}
}

// Reader returns a fresh reader positioned at the start of the envelope.
func (p Payload) Reader() io.Reader {
	return bytes.NewReader(p.data)
}

// Bytes returns a copy of the envelope bytes.
func (p Payload) Bytes() []byte {
	return bytes.Clone(p.data)
}

// String returns the envelope as text.
func (p Payload) String() string {
	return string(p.data)
}

// Len returns the envelope size in bytes.
func (p Payload) Len() int {
	return len(p.data)
}

// Version returns the SOAP version of the envelope.
func (p Payload) Version() soap.Version {
	return p.version
}

// Document parses a fresh copy of the envelope.
func (p Payload) Document() (*etree.Document, error) {
	return soap.ParseEnvelope(p.data)
}
