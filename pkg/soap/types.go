package soap

import "errors"

// Version represents the SOAP protocol version.
type Version string

const (
	// SOAP11 represents SOAP 1.1 protocol.
	SOAP11 Version = "1.1"
	// SOAP12 represents SOAP 1.2 protocol.
	SOAP12 Version = "1.2"
)

// SOAP namespace URIs
const (
	SOAP11Namespace = "http://schemas.xmlsoap.org/soap/envelope/"
	SOAP12Namespace = "http://www.w3.org/2003/05/soap-envelope"
)

// AddressingNamespace is the WS-Addressing 1.0 namespace used by the
// Action and MessageID headers.
const AddressingNamespace = "http://www.w3.org/2005/08/addressing"

// HeaderSOAPAction is the SOAP 1.1 action header name.
const HeaderSOAPAction = "SOAPAction"

// ContentTypeSOAP12 is the media type that carries the action parameter
// in SOAP 1.2.
const ContentTypeSOAP12 = "application/soap+xml"

// Envelope detection errors.
var (
	ErrNotEnvelope    = errors.New("not a SOAP envelope")
	ErrUnknownVersion = errors.New("unknown SOAP envelope namespace")
)

// Namespace returns the envelope namespace URI for the version.
func (v Version) Namespace() string {
	switch v {
	case SOAP11:
		return SOAP11Namespace
	case SOAP12:
		return SOAP12Namespace
	default:
		return ""
	}
}
