// Package document turns raw uploaded bytes into text for the extractor.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrEmptyDocument is returned when there is no content to read.
	ErrEmptyDocument = errors.New("empty document")
	// ErrUnsupportedEncoding is returned when the reader cannot decode the bytes.
	ErrUnsupportedEncoding = errors.New("unsupported document encoding")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader extracts text from a raw document. PDF readers live outside this module.
type Reader interface {
	Read(ctx context.Context, raw []byte) (string, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(ctx context.Context, raw []byte) (string, error)

// Read calls f.
func (f ReaderFunc) Read(ctx context.Context, raw []byte) (string, error) {
	return f(ctx, raw)
}

// PlainText reads UTF-8 text, dropping a leading byte order mark.
type PlainText struct{}

// Read validates raw as UTF-8 and returns it as a string.
func (PlainText) Read(ctx context.Context, raw []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(raw) == 0 {
		return "", ErrEmptyDocument
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("plain text: %w", ErrUnsupportedEncoding)
	}
	return string(raw), nil
}
