package soap

import (
	"io"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const soap12Envelope = `<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope" xmlns:a="http://www.w3.org/2005/08/addressing">
  <s:Header>
    <a:Action s:mustUnderstand="1">http://tempuri.org/IOrders/Submit</a:Action>
    <a:MessageID>urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8</a:MessageID>
  </s:Header>
  <s:Body><Submit xmlns="http://tempuri.org/"><orderId>42</orderId></Submit></s:Body>
</s:Envelope>`

const soap11Envelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body><GetUser><id>7</id></GetUser></soap:Body>
</soap:Envelope>`

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{name: "soap 1.2", input: soap12Envelope, want: SOAP12},
		{name: "soap 1.1 with declaration", input: soap11Envelope, want: SOAP11},
		{name: "default namespace", input: `<Envelope xmlns="http://schemas.xmlsoap.org/soap/envelope/"><Body/></Envelope>`, want: SOAP11},
		{name: "unknown namespace", input: `<e:Envelope xmlns:e="urn:other"/>`, wantErr: ErrUnknownVersion},
		{name: "wrong root", input: `<root/>`, wantErr: ErrNotEnvelope},
		{name: "empty", input: ``, wantErr: ErrNotEnvelope},
		{name: "not xml", input: `<<<`, wantErr: ErrNotEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectVersion([]byte(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEnvelope(t *testing.T) {
	doc, err := ParseEnvelope([]byte(soap12Envelope))
	require.NoError(t, err)

	assert.Equal(t, "http://tempuri.org/IOrders/Submit", Action(doc))

	id, ok := MessageID(doc)
	require.True(t, ok)
	assert.Equal(t, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), id)

	assert.Equal(t, "42", ExtractXPath(doc, "//Submit/orderId"))
}

func TestParseEnvelope_Errors(t *testing.T) {
	_, err := ParseEnvelope([]byte(`<root/>`))
	require.ErrorIs(t, err, ErrNotEnvelope)

	_, err = ParseEnvelope([]byte(`<<not xml`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid XML")
}

func TestAction_NoHeader(t *testing.T) {
	doc, err := ParseEnvelope([]byte(soap11Envelope))
	require.NoError(t, err)

	assert.Empty(t, Action(doc))
	_, ok := MessageID(doc)
	assert.False(t, ok)
}

func TestAction_PrefersAddressingNamespace(t *testing.T) {
	doc, err := ParseEnvelope([]byte(`<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope" xmlns:a="http://www.w3.org/2005/08/addressing">
  <s:Header>
    <Action xmlns="urn:routing">route-42</Action>
    <a:Action>http://tempuri.org/IOrders/Submit</a:Action>
  </s:Header>
  <s:Body/>
</s:Envelope>`))
	require.NoError(t, err)
	assert.Equal(t, "http://tempuri.org/IOrders/Submit", Action(doc))

	doc, err = ParseEnvelope([]byte(`<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope">
  <s:Header><Action>urn:legacy/Submit</Action></s:Header>
  <s:Body/>
</s:Envelope>`))
	require.NoError(t, err)
	assert.Equal(t, "urn:legacy/Submit", Action(doc))
}

func TestVersion_Namespace(t *testing.T) {
	assert.Equal(t, SOAP11Namespace, SOAP11.Namespace())
	assert.Equal(t, SOAP12Namespace, SOAP12.Namespace())
	assert.Empty(t, Version("2.0").Namespace())
}

func TestActionFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "quoted soapaction",
			headers: map[string]string{"Soapaction": `"http://tempuri.org/IOrders/Submit"`},
			want:    "http://tempuri.org/IOrders/Submit",
		},
		{
			name:    "unquoted soapaction",
			headers: map[string]string{"Soapaction": "urn:Orders/Cancel"},
			want:    "urn:Orders/Cancel",
		},
		{
			name:    "soap 1.2 content type",
			headers: map[string]string{"Content-Type": `application/soap+xml; charset=utf-8; action="urn:Orders/Cancel"`},
			want:    "urn:Orders/Cancel",
		},
		{
			name:    "action param on other media type is ignored",
			headers: map[string]string{"Content-Type": `text/xml; action="urn:Decoy"`},
			want:    "",
		},
		{
			name:    "similar header name is ignored",
			headers: map[string]string{"X-Soapaction": `"urn:Decoy"`},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := textproto.MIMEHeader{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, ActionFromHeader(h))
		})
	}
}

func TestExtractXPath_Attribute(t *testing.T) {
	doc, err := ParseEnvelope([]byte(`<Envelope xmlns="http://schemas.xmlsoap.org/soap/envelope/"><Body><Op id="9"/></Body></Envelope>`))
	require.NoError(t, err)

	assert.Equal(t, "9", ExtractXPath(doc, "//Op/@id"))
	assert.Empty(t, ExtractXPath(doc, "//Missing/@id"))
	assert.Empty(t, ExtractXPath(nil, "//Op"))
}

func TestNormalizeXPath(t *testing.T) {
	assert.Equal(t, "/Envelope/Body", NormalizeXPath(" Envelope//Body "))
	assert.Equal(t, "//Body/Op", NormalizeXPath("//Body//Op"))
	assert.Equal(t, "./Op", NormalizeXPath("./Op"))
	assert.Empty(t, NormalizeXPath(""))
}

func TestCharsetReader(t *testing.T) {
	r, err := CharsetReader("windows-1252", nil)
	require.NoError(t, err)
	assert.NotNil(t, r)

	_, err = CharsetReader("no-such-charset", nil)
	assert.Error(t, err)
}

func TestDeclaredEncoding(t *testing.T) {
	tests := []struct {
		head string
		want string
	}{
		{`<?xml version="1.0" encoding="windows-1252"?><a/>`, "windows-1252"},
		{"\n  <?xml version='1.0' encoding='ISO-8859-1' standalone='yes'?>", "ISO-8859-1"},
		{`<?xml version="1.0"?><a encoding="utf-16"/>`, ""},
		{`<a/>`, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeclaredEncoding([]byte(tt.head)), tt.head)
	}
}

func TestNewDeclaredReader(t *testing.T) {
	r, err := NewDeclaredReader(strings.NewReader("<?xml version=\"1.0\" encoding=\"windows-1252\"?><a>Caf\xe9</a>"))
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="windows-1252"?><a>Café</a>`, string(data))

	r, err = NewDeclaredReader(strings.NewReader(`<a>plain</a>`))
	require.NoError(t, err)
	data, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, `<a>plain</a>`, string(data))

	_, err = NewDeclaredReader(strings.NewReader(`<?xml version="1.0" encoding="no-such-charset"?><a/>`))
	assert.Error(t, err)
}
