package header

import (
	"bytes"
	"io"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/intuitivelabs/bytescase"

	"github.com/zostay/go-multipart-stream/chunk"
)

// ReadRaw accumulates chunks from next until a blank line ("\r\n\r\n")
// terminates a header block, or the underlying chunk source reaches the
// next boundary first. It returns the header block's bytes, not including
// the terminating blank line. If the header block ends with extra bytes
// past the blank line (the start of the field's body), those bytes are
// handed back to push so the caller doesn't lose them.
//
// This mirrors, at a higher level, message/parse.go's incremental search
// for the blank line that splits a header block from its body: rather than
// buffering the whole part before splitting, it grows a small buffer one
// source chunk at a time and only keeps searching the newly arrived tail.
func ReadRaw(next func() (chunk.Chunk, error), push func(chunk.Chunk), maxBytes int) ([]byte, error) {
	var buf bytes.Buffer
	searchFrom := 0

	for {
		if maxBytes > 0 && buf.Len() > maxBytes {
			return nil, ErrHeadersTooLarge
		}

		// Search only from a little before the end of the previously
		// buffered data, since the blank line can't start any earlier
		// than 3 bytes before the most recent write.
		hay := buf.Bytes()
		from := searchFrom - 3
		if from < 0 {
			from = 0
		}
		if idx := bytes.Index(hay[from:], []byte("\r\n\r\n")); idx >= 0 {
			split := from + idx
			raw := make([]byte, split)
			copy(raw, hay[:split])

			rest := hay[split+4:]
			if len(rest) > 0 {
				push(chunk.NewOwned(rest))
			}
			return raw, nil
		}
		if maxBytes > 0 && buf.Len() > maxBytes {
			return nil, ErrHeadersTooLarge
		}
		searchFrom = buf.Len()

		c, err := next()
		if err != nil {
			if err == io.EOF {
				return nil, ErrHeadersIncomplete
			}
			return nil, err
		}
		buf.Write(c.Bytes())
	}
}

// Parse parses a raw header block (as returned by ReadRaw) into a
// FieldHeader.
func Parse(raw []byte) (*FieldHeader, error) {
	if !utf8.Valid(raw) {
		return nil, ErrNonUTF8Header
	}

	lines, err := splitLines(raw)
	if err != nil {
		return nil, err
	}

	h := &FieldHeader{
		ContentType:       "text/plain",
		ContentTypeParams: map[string]string{},
	}

	var sawDisposition, sawContentType bool

	for _, line := range lines {
		name, value, ok := splitHeaderLine(line)
		if !ok {
			return nil, ErrMalformedHeader
		}

		switch {
		case bytescase.CmpEq([]byte(name), []byte("Content-Disposition")):
			if sawDisposition {
				return nil, &DuplicateHeaderError{Kind: "Content-Disposition"}
			}
			sawDisposition = true
			if err := applyDisposition(h, value); err != nil {
				return nil, err
			}

		case bytescase.CmpEq([]byte(name), []byte("Content-Type")):
			if sawContentType {
				return nil, &DuplicateHeaderError{Kind: "Content-Type"}
			}
			sawContentType = true
			if err := applyContentType(h, value); err != nil {
				return nil, err
			}

		default:
			h.Ext = append(h.Ext, ExtField{Name: name, Value: value})
		}
	}

	if h.Name == "" {
		return nil, ErrMissingFieldName
	}

	return h, nil
}

// splitLines folds continuation lines (lines starting with a space or tab)
// into the header line they continue, following the same liberal-input
// rule as the teacher's line parser: only reject outright when a
// continuation line appears before any real header line has been seen.
func splitLines(raw []byte) ([]string, error) {
	var lines []string
	for _, line := range bytes.Split(raw, []byte("\r\n")) {
		if len(line) == 0 {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if len(lines) == 0 {
				return nil, ErrMalformedHeader
			}
			lines[len(lines)-1] += " " + string(bytes.TrimSpace(line))
			continue
		}
		lines = append(lines, string(line))
	}
	return lines, nil
}

func splitHeaderLine(line string) (name, value string, ok bool) {
	ix := strings.IndexByte(line, ':')
	if ix < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:ix]), strings.TrimSpace(line[ix+1:]), true
}

func applyDisposition(h *FieldHeader, value string) error {
	disposition, params, err := mime.ParseMediaType(value)
	if err != nil {
		return ErrMalformedHeader
	}
	if !bytescase.CmpEq([]byte(disposition), []byte("form-data")) {
		return ErrMalformedHeader
	}
	h.Name = params["name"]
	h.Filename = params["filename"]
	h.CreationDate = parseLenientDate(params["creation-date"])
	h.ModificationDate = parseLenientDate(params["modification-date"])
	h.ReadDate = parseLenientDate(params["read-date"])
	return nil
}

func applyContentType(h *FieldHeader, value string) error {
	mediaType, params, err := mime.ParseMediaType(value)
	if err != nil {
		return ErrMalformedHeader
	}
	h.ContentType = mediaType
	if h.ContentTypeParams == nil {
		h.ContentTypeParams = map[string]string{}
	}
	for k, v := range params {
		h.ContentTypeParams[k] = v
	}
	return nil
}

// parseLenientDate parses an RFC 2183 date parameter. These parameters are
// rare in the wild and their exact format varies by producer, so a
// malformed value is ignored rather than failing the whole parse.
func parseLenientDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}
	return &t
}
