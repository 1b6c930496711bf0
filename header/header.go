// Package header models a single multipart field's headers: the parsed
// Content-Disposition and Content-Type that every field carries, plus any
// further header lines verbatim. Only the handful of fields the wire format
// actually uses are promoted to struct fields; everything else rides along
// in Ext so a caller that needs a field this package doesn't know about
// isn't blocked.
package header

import (
	"fmt"
	"time"

	"github.com/intuitivelabs/bytescase"
)

// ExtField is a header line this package does not give a dedicated
// accessor to, preserved verbatim in declaration order.
type ExtField struct {
	Name  string
	Value string
}

// FieldHeader is the parsed header block of one multipart field.
type FieldHeader struct {
	// Name is the Content-Disposition "name" parameter: the form field's
	// name. It is required by this package's Parse; ErrMissingFieldName is
	// returned if it is absent.
	Name string

	// Filename is the Content-Disposition "filename" parameter, if the
	// field carries one (typically a file upload).
	Filename string

	// ContentType is the MIME type from the Content-Type header, lowercased.
	// It defaults to "text/plain" when the header is absent, matching the
	// RFC 7578 default for fields with no filename and "application/
	// octet-stream" is NOT assumed; a caller that needs that default for
	// file fields should check Filename itself.
	ContentType string

	// ContentTypeParams holds the Content-Type header's parameters other
	// than the ones promoted above, keyed by lowercased parameter name.
	ContentTypeParams map[string]string

	// CreationDate, ModificationDate and ReadDate are the RFC 2183
	// Content-Disposition extension parameters of the same names, parsed
	// leniently. They are nil when absent or unparseable.
	CreationDate     *time.Time
	ModificationDate *time.Time
	ReadDate         *time.Time

	// Ext holds every header line that is neither Content-Disposition nor
	// Content-Type, in the order it appeared on the wire.
	Ext []ExtField
}

// Get returns the value of the first extension header matching name,
// compared case-insensitively, and whether it was found.
func (h *FieldHeader) Get(name string) (string, bool) {
	for _, f := range h.Ext {
		if bytescase.CmpEq([]byte(f.Name), []byte(name)) {
			return f.Value, true
		}
	}
	return "", false
}

func (h *FieldHeader) String() string {
	return fmt.Sprintf("field %q (filename=%q, content-type=%q)", h.Name, h.Filename, h.ContentType)
}
