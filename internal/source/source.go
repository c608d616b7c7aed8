// Package source reads program text and decodes it to UTF-8.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "UTF-8"

// Lookup resolves an IANA encoding name such as "UTF-8", "UTF-16LE",
// "Shift_JIS" or "ISO-8859-1". An empty name means DefaultEncoding.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// Decode converts data from the named encoding to a UTF-8 string. For UTF-8
// input a leading byte order mark is stripped, and a UTF-16 mark switches the
// decoder to UTF-16.
func Decode(data []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}

	var decoder transform.Transformer = enc.NewDecoder()
	if enc == unicode.UTF8 {
		decoder = unicode.BOMOverride(enc.NewDecoder())
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", name, err)
	}
	return string(out), nil
}

// Read loads the file at path and decodes it with the named encoding.
func Read(path, name string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	text, err := Decode(data, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}
