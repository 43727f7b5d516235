package core

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// sniffLen is how much of a file is read to guess its encoding.
const sniffLen = 64 * 1024

// LookupCharset resolves an IANA character-set name or alias.
// It returns ErrInvalidCharset for names the registry does not know.
func LookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w {%s}", ErrInvalidCharset, name)
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w {%s}: %v", ErrInvalidCharset, name, err)
	}
	return enc, nil
}

// CanonicalCharsetName returns the preferred MIME name for a charset alias,
// or the IANA registry name when the charset has no MIME name.
func CanonicalCharsetName(name string) (string, error) {
	enc, err := LookupCharset(name)
	if err != nil {
		return "", err
	}
	if enc == nil {
		// Known to the registry but without a decoder.
		return strings.TrimSpace(name), nil
	}
	if mime, err := ianaindex.MIME.Name(enc); err == nil && mime != "" {
		return mime, nil
	}
	return ianaindex.IANA.Name(enc)
}

// CharsetGuess is the result of DetectCharset.
type CharsetGuess struct {
	Name    string
	Certain bool
}

// DetectCharset guesses the character set of the content read from r.
// Byte-order marks are decisive; otherwise the guess is heuristic.
func DetectCharset(r io.Reader) (*CharsetGuess, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	_, name, certain := charset.DetermineEncoding(buf[:n], "text/plain")
	return &CharsetGuess{Name: name, Certain: certain}, nil
}
