// Package barcode defines the capability that turns a photographed product
// code into its digits. Decoding is done by the client or an external
// service; the server only needs a Reader it can swap.
package barcode

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable is returned by readers that cannot decode images.
var ErrUnavailable = errors.New("barcode reader unavailable")

// ErrNotFound is returned when an image contains no readable code.
var ErrNotFound = errors.New("no barcode found in image")

// Reader decodes a barcode from an image.
type Reader interface {
	Read(ctx context.Context, image []byte) (string, error)
}

// Stub is the default Reader. It decodes nothing.
type Stub struct{}

// NewStub creates a reader that always reports ErrUnavailable.
func NewStub() *Stub { return &Stub{} }

// Read always fails with ErrUnavailable.
func (s *Stub) Read(ctx context.Context, image []byte) (string, error) {
	return "", ErrUnavailable
}

// Static returns a fixed code for any non-empty image.
type Static struct {
	Code string
}

// Read returns the configured code, or ErrNotFound for an empty image or code.
func (s Static) Read(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(image) == 0 || s.Code == "" {
		return "", ErrNotFound
	}
	return s.Code, nil
}

// Normalize strips whitespace and dashes from a typed or scanned code and
// reports whether the result is a plausible product code: 8 to 14 digits
// (EAN-8, UPC-A, EAN-13, GTIN-14).
func Normalize(code string) (string, bool) {
	var b strings.Builder
	for _, r := range code {
		switch {
		case r == ' ' || r == '-' || r == '\t':
			continue
		case r < '0' || r > '9':
			return "", false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) < 8 || len(out) > 14 {
		return "", false
	}
	return out, true
}
