package multipart

import (
	"errors"

	"github.com/zostay/go-multipart-stream/internal/scanner"
)

// Errors returned by Reader and Writer. Errors originating in the header
// package (ErrHeadersTooLarge, ErrMissingFieldName, and so on) are
// returned unwrapped from NextPart so callers can match on them with
// errors.Is without an import of this package's internals.
var (
	// ErrNoBoundary is returned by TryFromRequest when the request's
	// Content-Type has no boundary parameter.
	ErrNoBoundary = errors.New("multipart: no boundary parameter in Content-Type")

	// ErrNotMultipart reports that a request is not multipart/form-data.
	// TryFromRequest does not return it: it reports such a request with
	// ok == false and a nil error.
	ErrNotMultipart = errors.New("multipart: request is not multipart")

	// ErrMalformedBoundary is returned by NextPart and Part's readers when
	// the body ends before the next boundary delimiter has been found and
	// confirmed.
	ErrMalformedBoundary = scanner.ErrMalformedBoundary

	// ErrUnexpectedBoundarySuffix is returned by NextPart when the two bytes
	// after a boundary delimiter are neither "\r\n" nor "--".
	ErrUnexpectedBoundarySuffix = scanner.ErrUnexpectedBoundarySuffix

	// ErrNonUTF8FieldData is returned by Part.Text when a field's body is
	// not valid UTF-8.
	ErrNonUTF8FieldData = errors.New("multipart: field data is not valid UTF-8")

	// ErrPartTooLarge is returned when a field's body exceeds a
	// configured maximum length.
	ErrPartTooLarge = errors.New("multipart: field exceeds the maximum part size")

	// ErrWriterClosed is returned by Writer methods called after Close.
	ErrWriterClosed = errors.New("multipart: writer is closed")

	// ErrOpenPart is returned by Writer.SetBoundary once a part has
	// already been written.
	ErrOpenPart = errors.New("multipart: boundary cannot be changed after writing has started")

	// ErrMalformedBoundaryValue is returned by Writer.SetBoundary when
	// given a boundary RFC 2046 does not permit.
	ErrMalformedBoundaryValue = errors.New("multipart: invalid boundary value")
)
