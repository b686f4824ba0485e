package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrEncodingExhausted indicates no candidate encoding decoded the
	// file content. It carries the last underlying decode error when
	// wrapped at the call site.
	ErrEncodingExhausted = errors.New("no supported encoding decoded the content")

	// ErrMalformedDocument indicates the content failed the XML
	// well-formedness check.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrUnsupportedFormat indicates the requested output format is not
	// one of the recognised values. Checked eagerly, before any
	// processing starts.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrInvalidConfig indicates a missing or invalid configuration
	// file, or an out-of-range option value. Raised before any file is
	// touched and aborts the whole run.
	ErrInvalidConfig = errors.New("invalid configuration")
)
