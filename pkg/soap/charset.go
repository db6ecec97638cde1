package soap

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// declarationPeek bounds how far NewDeclaredReader looks for the XML
// declaration.
const declarationPeek = 512

var encodingDecl = regexp.MustCompile(`^\s*<\?xml[^>]*?\sencoding\s*=\s*["']([^"']+)["']`)

// CharsetReader is an XML CharsetReader for envelopes and trace files.
//
// Trace files are transcoded to UTF-8 before parsing, so a declared UTF-16
// encoding describes the original file rather than the bytes being read and
// is passed through. Other legacy encodings are decoded by label.
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	if isUnicode(label) {
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

// Transcoded is an XML CharsetReader for input that NewDeclaredReader has
// already converted to UTF-8. Every label is accepted as is.
func Transcoded(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}

// DeclaredEncoding returns the encoding named by the XML declaration at the
// start of head, or "".
func DeclaredEncoding(head []byte) string {
	if m := encodingDecl.FindSubmatch(head); m != nil {
		return string(m[1])
	}
	return ""
}

// NewDeclaredReader returns r decoded to UTF-8 according to the encoding
// named in its XML declaration. Byte offsets taken by a decoder reading the
// result refer to the UTF-8 stream, so pair it with Transcoded.
func NewDeclaredReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, declarationPeek)
	head, _ := br.Peek(declarationPeek)
	label := DeclaredEncoding(head)
	if isUnicode(label) {
		return br, nil
	}
	return charset.NewReaderLabel(label, br)
}

func isUnicode(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8", "us-ascii", "ascii",
		"utf-16", "utf-16le", "utf-16be", "unicode":
		return true
	}
	return false
}
