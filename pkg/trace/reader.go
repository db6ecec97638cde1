package trace

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Open opens a capture file read-only. The returned stream strips a UTF-8
// byte-order mark and transcodes UTF-16 input (detected by its byte-order
// mark) to UTF-8.
func Open(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCaptureNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat capture: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is a directory, not a file: %s", ErrInvalidCapture, path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: capture file is empty: %s", ErrInvalidCapture, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	return NewDecodingReader(file), nil
}

// NewDecodingReader wraps rc with byte-order-mark aware decoding to UTF-8.
// Closing the result closes rc.
func NewDecodingReader(rc io.ReadCloser) io.ReadCloser {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return &decodingReader{
		Reader: transform.NewReader(rc, decoder),
		closer: rc,
	}
}

type decodingReader struct {
	io.Reader
	closer io.Closer
}

func (d *decodingReader) Close() error {
	return d.closer.Close()
}

// OpenFile opens path and returns a parser of the given format that has
// been set up to read it. The label is the path.
func OpenFile(path string, format Format, sides Side, opts ...Option) (*Parser, error) {
	p, err := New(format, opts...)
	if err != nil {
		return nil, err
	}

	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := p.Setup(src, path, sides); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}
