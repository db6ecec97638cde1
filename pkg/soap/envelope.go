package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/textproto"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// DetectVersion scans raw bytes for the root Envelope element and reports
// the SOAP version its namespace declares. Leading XML declarations,
// comments and whitespace are skipped.
func DetectVersion(data []byte) (Version, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = CharsetReader

	for {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: no root element", ErrNotEnvelope)
			}
			return "", fmt.Errorf("%w: %v", ErrNotEnvelope, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "Envelope" {
			return "", fmt.Errorf("%w: root element is %s", ErrNotEnvelope, se.Name.Local)
		}
		for _, v := range []Version{SOAP11, SOAP12} {
			if se.Name.Space == v.Namespace() {
				return v, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownVersion, se.Name.Space)
	}
}

// ParseEnvelope parses a SOAP envelope into an etree document.
func ParseEnvelope(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = CharsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("invalid XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrNotEnvelope)
	}
	if root.Tag != "Envelope" {
		return nil, fmt.Errorf("%w: root element is %s", ErrNotEnvelope, root.Tag)
	}

	return doc, nil
}

// HeaderElement returns the first child of the envelope Header with the
// given local name, or nil.
func HeaderElement(doc *etree.Document, local string) *etree.Element {
	if doc == nil {
		return nil
	}
	header := doc.FindElement("/Envelope/Header")
	if header == nil {
		return nil
	}
	for _, child := range header.ChildElements() {
		if child.Tag == local {
			return child
		}
	}
	return nil
}

// addressingHeader prefers a header in the WS-Addressing namespace and
// falls back to the first header with the local name.
func addressingHeader(doc *etree.Document, local string) *etree.Element {
	elem := HeaderElement(doc, local)
	if elem == nil || elem.NamespaceURI() == AddressingNamespace {
		return elem
	}
	for _, child := range elem.Parent().ChildElements() {
		if child.Tag == local && child.NamespaceURI() == AddressingNamespace {
			return child
		}
	}
	return elem
}

// Action returns the WS-Addressing Action header of the envelope, or an
// empty string.
func Action(doc *etree.Document) string {
	elem := addressingHeader(doc, "Action")
	if elem == nil {
		return ""
	}
	return strings.TrimSpace(elem.Text())
}

// MessageID returns the WS-Addressing MessageID header when it holds a
// UUID (bare or urn:uuid: form).
func MessageID(doc *etree.Document) (uuid.UUID, bool) {
	elem := addressingHeader(doc, "MessageID")
	if elem == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(elem.Text()))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// ActionFromHeader extracts the action from HTTP request headers.
// The SOAP 1.2 action parameter of an application/soap+xml Content-Type
// takes precedence over the SOAP 1.1 SOAPAction header.
func ActionFromHeader(h textproto.MIMEHeader) string {
	if ct := h.Get("Content-Type"); ct != "" {
		if mediaType, params, err := mime.ParseMediaType(ct); err == nil && mediaType == ContentTypeSOAP12 {
			if action := strings.TrimSpace(params["action"]); action != "" {
				return action
			}
		}
	}

	action := strings.TrimSpace(h.Get(HeaderSOAPAction))
	// Remove quotes if present
	action = strings.Trim(action, "\"")
	return strings.TrimSpace(action)
}
