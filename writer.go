package multipart

import (
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/bytebufferpool"

	"github.com/zostay/go-multipart-stream/header"
)

// Writer produces a multipart/form-data body one field at a time. Each
// part's heading (the boundary line, Content-Disposition, and any other
// headers) is written as soon as the part is created; the body is written
// through the returned io.Writer. Unlike a Reader's parts, a Writer's
// parts need not be explicitly finished: creating the next part, or
// calling Close, finalizes whichever part was open.
type Writer struct {
	w        io.Writer
	boundary string
	started  bool
	closed   bool

	// pendingFlush is set when the previous part's writer needs a final
	// flush (currently only CreateFormFileGzip's gzip trailer) before the
	// next boundary line can be written.
	pendingFlush io.Closer
}

// WriterOption configures a Writer at construction time.
type WriterOption func(*Writer)

// WithBoundary overrides the randomly generated boundary a Writer uses to
// separate parts. It is equivalent to calling SetBoundary immediately
// after NewWriter, except that a malformed boundary is silently ignored
// here in favor of the generated one; callers who need to observe the
// validation error should call SetBoundary directly instead.
func WithBoundary(boundary string) WriterOption {
	return func(w *Writer) {
		_ = w.SetBoundary(boundary)
	}
}

// NewWriter returns a Writer that writes a multipart body to w using a
// randomly generated boundary, or the one given via WithBoundary.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	w2 := &Writer{w: w, boundary: GenerateBoundary()}
	for _, opt := range opts {
		opt(w2)
	}
	return w2
}

// Boundary returns the boundary string this Writer separates parts with.
func (w *Writer) Boundary() string {
	return w.boundary
}

// SetBoundary overrides the randomly generated boundary. It must be
// called before the first part is created and must consist only of
// characters RFC 2046 permits in a boundary.
func (w *Writer) SetBoundary(boundary string) error {
	if w.started {
		return ErrOpenPart
	}
	if len(boundary) < 1 || len(boundary) > 70 {
		return ErrMalformedBoundaryValue
	}
	for _, c := range boundary {
		if !strings.ContainsRune(boundaryChars, c) {
			return ErrMalformedBoundaryValue
		}
	}
	w.boundary = boundary
	return nil
}

const boundaryChars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ'()+_,-./:=? "

// CreatePart writes h as the next part's heading and returns an io.Writer
// for its body.
func (w *Writer) CreatePart(h header.FieldHeader) (io.Writer, error) {
	if w.closed {
		return nil, ErrWriterClosed
	}
	if err := w.finishPending(); err != nil {
		return nil, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if w.started {
		buf.WriteString("\r\n--")
	} else {
		buf.WriteString("--")
		w.started = true
	}
	buf.WriteString(w.boundary)
	buf.WriteString("\r\n")
	writeFieldHeading(buf, h)
	buf.WriteString("\r\n")

	if _, err := w.w.Write(buf.B); err != nil {
		return nil, err
	}

	return partWriter{w.w}, nil
}

// CreateFormField returns an io.Writer for a plain form field named name.
func (w *Writer) CreateFormField(name string) (io.Writer, error) {
	return w.CreatePart(header.FieldHeader{Name: name, ContentType: "text/plain"})
}

// CreateFormFile returns an io.Writer for a file upload field. The
// content type is set to application/octet-stream, matching the
// convention used when the caller has not sniffed the actual type.
func (w *Writer) CreateFormFile(fieldname, filename string) (io.Writer, error) {
	return w.CreatePart(header.FieldHeader{
		Name:        fieldname,
		Filename:    filename,
		ContentType: "application/octet-stream",
	})
}

// CreateFormFileGzip returns an io.Writer for a file upload field whose
// body is transparently gzip-compressed as it is written. This is not
// part of RFC 7578: the part is marked Content-Transfer-Encoding: binary
// plus a private X-Content-Encoding: gzip header so a cooperating reader
// knows to decompress it, which a generic multipart/form-data consumer
// will not do on its own.
func (w *Writer) CreateFormFileGzip(fieldname, filename string) (io.Writer, error) {
	pw, err := w.CreatePart(header.FieldHeader{
		Name:        fieldname,
		Filename:    filename,
		ContentType: "application/octet-stream",
		Ext: []header.ExtField{
			{Name: "Content-Transfer-Encoding", Value: "binary"},
			{Name: "X-Content-Encoding", Value: "gzip"},
		},
	})
	if err != nil {
		return nil, err
	}

	gz := gzip.NewWriter(pw)
	w.pendingFlush = gz
	return gz, nil
}

// WriteField writes a complete plain form field in one call.
func (w *Writer) WriteField(name, value string) error {
	pw, err := w.CreateFormField(name)
	if err != nil {
		return err
	}
	_, err = pw.Write([]byte(value))
	return err
}

// Close finishes the body by writing the closing boundary. It must be
// called exactly once, after every part has been written.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	if err := w.finishPending(); err != nil {
		return err
	}
	w.closed = true

	prefix := "--"
	if w.started {
		prefix = "\r\n--"
	}
	_, err := io.WriteString(w.w, prefix+w.boundary+"--")
	return err
}

func (w *Writer) finishPending() error {
	if w.pendingFlush == nil {
		return nil
	}
	err := w.pendingFlush.Close()
	w.pendingFlush = nil
	return err
}

// partWriter narrows the Writer's underlying io.Writer down to just
// Write, so a caller holding a part's writer can't accidentally reach
// methods (like io.Closer) that belong to the body stream, not the part.
type partWriter struct{ w io.Writer }

func (p partWriter) Write(b []byte) (int, error) { return p.w.Write(b) }

func writeFieldHeading(buf *bytebufferpool.ByteBuffer, h header.FieldHeader) {
	buf.WriteString(`Content-Disposition: form-data; name="`)
	buf.WriteString(escapeQuotes(h.Name))
	buf.WriteByte('"')
	if h.Filename != "" {
		buf.WriteString(`; filename="`)
		buf.WriteString(escapeQuotes(h.Filename))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")

	if h.ContentType != "" && h.ContentType != "text/plain" {
		buf.WriteString("Content-Type: ")
		buf.WriteString(h.ContentType)
		for k, v := range h.ContentTypeParams {
			buf.WriteString("; ")
			buf.WriteString(k)
			buf.WriteString(`="`)
			buf.WriteString(escapeQuotes(v))
			buf.WriteByte('"')
		}
		buf.WriteString("\r\n")
	}

	for _, ext := range h.Ext {
		buf.WriteString(ext.Name)
		buf.WriteString(": ")
		buf.WriteString(ext.Value)
		buf.WriteString("\r\n")
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
