// Package multipart implements streaming reading and writing of
// multipart/form-data bodies (RFC 7578), the format web browsers use to
// submit HTML forms containing file uploads.
//
// Reader parses a body a part at a time without buffering the whole thing
// in memory; Writer produces one by the same token. Both are built around
// small, bounded internal buffers so the cost of handling a body is
// proportional to how much of it a caller actually reads or writes, not to
// its total size.
package multipart

import (
	"errors"
	"io"

	"github.com/zostay/go-multipart-stream/header"
	"github.com/zostay/go-multipart-stream/internal/scanner"
)

// Constants related to Reader options.
const (
	// DefaultBufferSize is the default number of bytes the scanner reads
	// from the underlying io.Reader per fill.
	DefaultBufferSize = scanner.DefaultFillSize

	// DefaultMaxHeaderBytes is the default maximum size of a single
	// field's header block.
	DefaultMaxHeaderBytes = 1024

	// DefaultMaxPartBytes is the default maximum size of a single field's
	// body. Zero means unlimited.
	DefaultMaxPartBytes = 0
)

type readerOptions struct {
	bufferSize     int
	maxHeaderBytes int
	maxPartBytes   int
}

// ReaderOption configures a Reader returned by NewReader.
type ReaderOption func(*readerOptions)

// WithBufferSize sets how many bytes the Reader requests from the
// underlying io.Reader per fill. The default is DefaultBufferSize.
func WithBufferSize(n int) ReaderOption {
	return func(o *readerOptions) { o.bufferSize = n }
}

// WithMaxHeaderBytes sets the maximum size of a single field's header
// block before NextPart fails with header.ErrHeadersTooLarge. Zero or
// negative disables the limit. The default is DefaultMaxHeaderBytes.
func WithMaxHeaderBytes(n int) ReaderOption {
	return func(o *readerOptions) { o.maxHeaderBytes = n }
}

// WithMaxPartBytes sets the maximum size of a single field's body before
// Part.Read and Part.Text fail with ErrPartTooLarge. Zero disables the
// limit, which is the default.
func WithMaxPartBytes(n int) ReaderOption {
	return func(o *readerOptions) { o.maxPartBytes = n }
}

// Reader reads a multipart/form-data body one field at a time.
type Reader struct {
	boundary *scanner.Boundary
	pb       *scanner.Pushback
	opts     readerOptions
	done     bool
	cur      *Part // the Part most recently returned by NextPart
}

// NewReader returns a Reader that parses r as a multipart body delimited
// by boundary (without the leading "--").
func NewReader(r io.Reader, boundary string, opts ...ReaderOption) *Reader {
	o := readerOptions{
		bufferSize:     DefaultBufferSize,
		maxHeaderBytes: DefaultMaxHeaderBytes,
		maxPartBytes:   DefaultMaxPartBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := scanner.New(r, boundary, o.bufferSize)
	return &Reader{
		boundary: b,
		pb:       scanner.NewPushback(b.NextChunk),
		opts:     o,
	}
}

// NextPart advances past any unread bytes of the previous part (or, on the
// first call, the body's preamble) and returns the next field. It returns
// io.EOF once the closing boundary has been consumed.
func (r *Reader) NextPart() (*Part, error) {
	if r.cur != nil {
		// The previous Part is no longer readable; its reads return io.EOF.
		r.cur.eof = true
		r.cur = nil
	}
	if r.done {
		return nil, io.EOF
	}

	for {
		_, err := r.pb.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.done = true
			return nil, err
		}
	}

	hasNext, err := r.boundary.ConsumeBoundary()
	if err != nil {
		r.done = true
		return nil, err
	}
	if !hasNext {
		r.done = true
		return nil, io.EOF
	}

	raw, err := header.ReadRaw(r.pb.Next, r.pb.Push, r.opts.maxHeaderBytes)
	if err != nil {
		r.done = true
		return nil, err
	}

	fh, err := header.Parse(raw)
	if err != nil {
		r.done = true
		return nil, err
	}

	r.cur = &Part{Header: *fh, r: r}
	return r.cur, nil
}
