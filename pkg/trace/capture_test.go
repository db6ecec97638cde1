package trace

import (
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/soaptrace/pkg/soap"
)

func soap11Body(op string) string {
	return `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body><` + op + ` xmlns="http://tempuri.org/"/></s:Body></s:Envelope>`
}

func session(action, requestBody, response string) string {
	var b strings.Builder
	b.WriteString("POST http://localhost:8080/Orders.svc HTTP/1.1\r\n")
	b.WriteString("Content-Type: text/xml; charset=utf-8\r\n")
	if action != "" {
		b.WriteString("SOAPAction: \"" + action + "\"\r\n")
	}
	b.WriteString("Host: localhost:8080\r\n")
	b.WriteString("\r\n")
	b.WriteString(requestBody + "\r\n")
	if response != "" {
		b.WriteString(response)
	}
	return b.String()
}

func okResponse(body string) string {
	return "HTTP/1.1 200 OK\r\nContent-Type: text/xml; charset=utf-8\r\n\r\n" + body + "\r\n"
}

func captureOf(sessions ...string) string {
	return strings.Join(sessions, "\r\n"+CaptureDelimiter+"\r\n\r\n")
}

func setupCapture(t *testing.T, text string, sides Side) *Parser {
	t.Helper()
	p := NewCaptureParser()
	require.NoError(t, p.Setup(io.NopCloser(strings.NewReader(text)), "session.txt", sides))
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestCapture_DecoyInResponseIsIgnored(t *testing.T) {
	decoyResponse := "HTTP/1.1 200 OK\r\n" +
		"Content-Type: text/xml; charset=utf-8\r\n" +
		"SOAPAction: \"http://tempuri.org/IOrders/Decoy\"\r\n" +
		"\r\n" +
		"SOAPAction: \"http://tempuri.org/IOrders/DecoyBody\"\r\n" +
		soap11Body("SubmitResponse") + "\r\n"

	text := captureOf(
		session("http://tempuri.org/IOrders/Submit", soap11Body("Submit"), decoyResponse),
		session("http://tempuri.org/IOrders/Cancel", soap11Body("Cancel"), okResponse(soap11Body("CancelResponse"))),
	)

	msgs, err := Collect(setupCapture(t, text, SideBoth))
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "http://tempuri.org/IOrders/Submit", msgs[0].Action)
	assert.Equal(t, "http://tempuri.org/IOrders/Cancel", msgs[1].Action)
	assert.Equal(t, soap11Body("Submit"), msgs[0].Payload.String())
}

func TestCapture_ResponseOnlyActionIsSkipped(t *testing.T) {
	decoyResponse := "HTTP/1.1 200 OK\r\n" +
		"SOAPAction: \"http://tempuri.org/IOrders/Decoy\"\r\n" +
		"\r\n" + soap11Body("PingResponse") + "\r\n"

	text := captureOf(
		session("", soap11Body("Ping"), decoyResponse),
		session("http://tempuri.org/IOrders/Submit", soap11Body("Submit"), ""),
	)

	p := setupCapture(t, text, SideBoth)
	msgs, err := Collect(p)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "http://tempuri.org/IOrders/Submit", msgs[0].Action)
	assert.Equal(t, 2, p.Records())
}

func TestCapture_SimilarHeaderNamesAreIgnored(t *testing.T) {
	block := "POST http://localhost/svc HTTP/1.1\n" +
		"X-SOAPAction: \"urn:Decoy\"\n" +
		"Referer: http://localhost/?SOAPAction: urn:Decoy\n" +
		"\n" + soap11Body("Op") + "\n"

	msgs, err := Collect(setupCapture(t, block, SideBoth))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestCapture_FieldsAndTimestamp(t *testing.T) {
	envelope := soap12Request("urn:Orders/Submit", "<Submit/>")
	block := "POST http://localhost/svc HTTP/1.1\n" +
		"Content-Type: application/soap+xml; charset=utf-8; action=\"urn:Orders/Submit\"\n" +
		"\n" + envelope + "\n"

	msg, err := setupCapture(t, block, SideBoth).Next()
	require.NoError(t, err)
	assert.Equal(t, "urn:Orders/Submit", msg.Action)
	assert.True(t, msg.Timestamp.IsZero())
	assert.Equal(t, time.Time{}, msg.Timestamp)
	assert.Equal(t, SideCaller, msg.Side)
	assert.Equal(t, soap.SOAP12, msg.Payload.Version())
	assert.Equal(t, testMessageID, msg.MessageID.String())
	assert.Equal(t, "session.txt", msg.Source)
}

func TestCapture_ContentLength(t *testing.T) {
	envelope := soap11Body("Submit")
	block := "POST http://localhost/svc HTTP/1.1\r\n" +
		"SOAPAction: urn:Submit\r\n" +
		"Content-Length: " + strconv.Itoa(len(envelope)) + "\r\n" +
		"\r\n" + envelope + "\r\n" + okResponse(soap11Body("SubmitResponse"))

	msg, err := setupCapture(t, block, SideBoth).Next()
	require.NoError(t, err)
	assert.Equal(t, envelope, msg.Payload.String())
}

func TestCapture_WrongContentLengthFallsBackToStatusLine(t *testing.T) {
	envelope := soap11Body("Submit")
	block := "POST http://localhost/svc HTTP/1.1\r\n" +
		"SOAPAction: urn:Submit\r\n" +
		"Content-Length: 12\r\n" +
		"\r\n" + envelope + "\r\n" + okResponse(soap11Body("SubmitResponse"))

	msg, err := setupCapture(t, block, SideBoth).Next()
	require.NoError(t, err)
	assert.Equal(t, envelope, msg.Payload.String())
}

func TestCapture_ExhaustionIsIdempotent(t *testing.T) {
	p := setupCapture(t, session("urn:A", soap11Body("A"), ""), SideBoth)

	_, err := p.Next()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = p.Next()
		require.ErrorIs(t, err, io.EOF)
	}
	assert.Equal(t, StateExhausted, p.State())
}

func TestCapture_HandlerSideOnlyYieldsNothing(t *testing.T) {
	msgs, err := Collect(setupCapture(t, session("urn:A", soap11Body("A"), ""), SideHandler))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestCapture_NonRequestBlocksAreSkipped(t *testing.T) {
	text := captureOf(
		"Session exported 2024-03-01\r\n",
		session("urn:A", soap11Body("A"), ""),
		"   \r\n",
	)

	msgs, err := Collect(setupCapture(t, text, SideBoth))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "urn:A", msgs[0].Action)
}

func TestCapture_MalformedBlocks(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{
			name:  "headers run into response",
			block: "POST http://localhost/svc HTTP/1.1\nSOAPAction: urn:A\nHTTP/1.1 200 OK\n\n<x/>\n",
			want:  "request headers",
		},
		{
			name:  "no blank line after headers",
			block: "POST http://localhost/svc HTTP/1.1\nSOAPAction: urn:A\n",
			want:  "not followed by a blank line",
		},
		{
			name:  "empty body",
			block: "POST http://localhost/svc HTTP/1.1\nSOAPAction: urn:A\n\nHTTP/1.1 200 OK\n\n",
			want:  "has no envelope",
		},
		{
			name:  "body is not an envelope",
			block: "POST http://localhost/svc HTTP/1.1\nSOAPAction: urn:A\n\n<Order/>\n",
			want:  "not a SOAP envelope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := setupCapture(t, tt.block, SideBoth)
			_, err := p.Next()
			require.Error(t, err)
			assert.NotErrorIs(t, err, io.EOF)
			assert.ErrorAs(t, err, new(*ParseError))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCapture_SetupRejectsNonCaptures(t *testing.T) {
	for name, input := range map[string]string{
		"xml":   "<?xml version=\"1.0\"?><E2ETraceEvent/>",
		"blank": "  \r\n\r\n",
	} {
		t.Run(name, func(t *testing.T) {
			p := NewCaptureParser()
			src := newTrackingSource(input)
			require.ErrorIs(t, p.Setup(src, name, SideBoth), ErrInvalidCapture)
			assert.Equal(t, 1, src.closes)
		})
	}
}
