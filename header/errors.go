package header

import (
	"errors"
	"fmt"
)

// Sentinel errors returned while reading and parsing a field's headers.
var (
	// ErrHeadersTooLarge is returned when a field's header block exceeds
	// the configured maximum before a terminating blank line is found.
	ErrHeadersTooLarge = errors.New("multipart: header block exceeds maximum size")

	// ErrHeadersIncomplete is returned when the part ends (the next
	// boundary is found) before a blank line terminates the header block.
	ErrHeadersIncomplete = errors.New("multipart: part ended before headers were terminated")

	// ErrNonUTF8Header is returned when a header block is not valid UTF-8.
	ErrNonUTF8Header = errors.New("multipart: header block is not valid UTF-8")

	// ErrMalformedHeader is returned when a header line has no colon and
	// is not a continuation of a previous line.
	ErrMalformedHeader = errors.New("multipart: malformed header line")

	// ErrMissingFieldName is returned when a field's Content-Disposition
	// header is absent or has no "name" parameter.
	ErrMissingFieldName = errors.New("multipart: field is missing a name")
)

// DuplicateHeaderError is returned when a field carries more than one
// Content-Disposition or Content-Type header.
type DuplicateHeaderError struct {
	Kind string // "Content-Disposition" or "Content-Type"
}

func (e *DuplicateHeaderError) Error() string {
	return fmt.Sprintf("multipart: duplicate %s header", e.Kind)
}
