// Package soap provides SOAP envelope inspection for captured traffic.
//
// The helpers in this package work on raw envelope bytes as they appear in
// trace files and capture exports. They never build responses; they only
// answer questions about a message that was already sent.
//
// # SOAP Versions
//
// The version is detected from the namespace of the root Envelope element:
//   - SOAP 1.1: http://schemas.xmlsoap.org/soap/envelope/
//   - SOAP 1.2: http://www.w3.org/2003/05/soap-envelope
//
// An envelope in neither namespace is rejected with ErrUnknownVersion, and
// a document whose root is not an Envelope with ErrNotEnvelope.
//
// # Actions
//
// The action of a message can be carried in three places:
//
//	<a:Action s:mustUnderstand="1">http://tempuri.org/IOrders/Submit</a:Action>   // WS-Addressing header
//	SOAPAction: "http://tempuri.org/IOrders/Submit"                              // SOAP 1.1 HTTP header
//	Content-Type: application/soap+xml; action="http://tempuri.org/IOrders/Submit" // SOAP 1.2
//
// Action reads the first form from a parsed envelope and ActionFromHeader
// reads the other two from HTTP request headers.
//
// # XPath
//
// ExtractXPath evaluates etree path expressions against an envelope, for
// example:
//
//	id := soap.ExtractXPath(doc, "//Submit/orderId")
package soap
