// Package scanner implements the boundary-delimited byte scanner the
// multipart reader is built on. It is the Go-idiom descendant of
// message/parse.go's custom bufio.SplitFunc: instead of buffering a whole
// part into memory before splitting it, it keeps a small refillable buffer
// and hands payload back to the caller a fill at a time, holding only as
// many trailing bytes as are needed to disambiguate a boundary match that
// straddles two reads.
package scanner

import (
	"bytes"
	"errors"
	"io"

	"github.com/zostay/go-multipart-stream/chunk"
)

// Errors returned while scanning for a boundary.
var (
	// ErrMalformedBoundary is returned when the underlying reader reaches
	// EOF before the next delimiter and its two-byte suffix have been
	// found, including while a boundary match is incomplete or unconfirmed.
	ErrMalformedBoundary = errors.New("multipart: malformed boundary")

	// ErrUnexpectedBoundarySuffix is returned when the two bytes following
	// a confirmed boundary are neither "\r\n" nor "--".
	ErrUnexpectedBoundarySuffix = errors.New("multipart: unexpected bytes after boundary")
)

// DefaultFillSize is the number of bytes requested from the underlying
// io.Reader per fill when the internal buffer runs low.
const DefaultFillSize = 8192

// state names the scanner's current disposition, recorded in a named field
// rather than hidden in a call stack so a Boundary can be driven by any
// number of separate Read calls on its underlying reader.
type state int

const (
	stateWatching state = iota
	stateBoundaryPending
	stateEnd
)

// Boundary scans an io.Reader for a delimiter, yielding the payload bytes
// that precede each occurrence.
type Boundary struct {
	r    io.Reader
	wire []byte // "--" + boundary
	crlf []byte // "\r\n--" + boundary

	buf []byte
	pos int // buf[pos:] is unconsumed
	eof bool

	st           state
	suffix       [2]byte
	everSawByte  bool
	fillSize     int
}

// New returns a Boundary that scans r for the wire delimiter
// "--"+boundary. fillSize, if non-positive, defaults to DefaultFillSize.
func New(r io.Reader, boundary string, fillSize int) *Boundary {
	if fillSize <= 0 {
		fillSize = DefaultFillSize
	}
	wire := append([]byte("--"), boundary...)
	crlf := append([]byte("\r\n"), wire...)
	return &Boundary{
		r:        r,
		wire:     wire,
		crlf:     crlf,
		fillSize: fillSize,
	}
}

// fill reads more bytes from the underlying reader into buf, compacting
// already-consumed bytes out of the front first.
func (b *Boundary) fill() error {
	if b.eof {
		return io.EOF
	}

	if b.pos > 0 {
		n := copy(b.buf, b.buf[b.pos:])
		b.buf = b.buf[:n]
		b.pos = 0
	}

	start := len(b.buf)
	if cap(b.buf)-start < b.fillSize {
		nb := make([]byte, start, start+b.fillSize)
		copy(nb, b.buf)
		b.buf = nb
	}
	b.buf = b.buf[:start+b.fillSize]

	for {
		n, err := b.r.Read(b.buf[start:])
		b.buf = b.buf[:start+n]
		if n > 0 {
			b.everSawByte = true
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				b.eof = true
				if n > 0 {
					return nil
				}
				return io.EOF
			}
			return err
		}
		if n > 0 {
			return nil
		}
		// Read returned (0, nil); per the io.Reader contract this may
		// happen occasionally and callers should retry.
	}
}

// longestSuffixPrefix returns the length of the longest suffix of data
// that is also a prefix of target.
func longestSuffixPrefix(data, target []byte) int {
	max := len(data)
	if len(target) < max {
		max = len(target)
	}
	for l := max; l > 0; l-- {
		if bytes.Equal(data[len(data)-l:], target[:l]) {
			return l
		}
	}
	return 0
}

// NextChunk returns the next payload chunk preceding the delimiter, or
// io.EOF once the delimiter has been found (the caller must then call
// ConsumeBoundary before calling NextChunk again).
func (b *Boundary) NextChunk() (chunk.Chunk, error) {
	if b.st != stateWatching {
		return nil, io.EOF
	}

	for {
		data := b.buf[b.pos:]

		if idx := bytes.Index(data, b.wire); idx >= 0 {
			abs := b.pos + idx
			inclCRLF := false
			if abs >= 2 && b.buf[abs-2] == '\r' && b.buf[abs-1] == '\n' {
				inclCRLF = true
				abs -= 2
			}
			total := len(b.wire) + 2
			if inclCRLF {
				total += 2
			}
			if len(b.buf) >= abs+total {
				payload := b.buf[b.pos:abs]
				suffixStart := abs + total - 2
				b.suffix[0] = b.buf[suffixStart]
				b.suffix[1] = b.buf[suffixStart+1]
				b.pos = abs + total
				b.st = stateBoundaryPending
				if len(payload) == 0 {
					return nil, io.EOF
				}
				return chunk.NewBorrowed(payload), nil
			}
			if err := b.fillOrFail(); err != nil {
				return nil, err
			}
			continue
		}

		cand := longestSuffixPrefix(data, b.wire)
		if c2 := longestSuffixPrefix(data, b.crlf); c2 > cand {
			cand = c2
		}
		if cand > 0 {
			if len(data) > cand {
				payload := data[:len(data)-cand]
				b.pos += len(payload)
				return chunk.NewBorrowed(payload), nil
			}
			if err := b.fillOrFail(); err != nil {
				return nil, err
			}
			continue
		}

		// No match and no candidate tail: everything except a small guard
		// region (long enough to hold the start of a future match) is
		// safe to emit as payload.
		guard := len(b.crlf) - 1
		if len(data) > guard {
			payload := data[:len(data)-guard]
			b.pos += len(payload)
			return chunk.NewBorrowed(payload), nil
		}
		if err := b.fillOrFail(); err != nil {
			// At end of input, trailing bytes that cannot start a delimiter
			// are still payload; they are handed out first and the error is
			// reported by the next call.
			if rest := b.buf[b.pos:]; errors.Is(err, ErrMalformedBoundary) && len(rest) > 0 {
				b.pos += len(rest)
				return chunk.NewBorrowed(rest), nil
			}
			return nil, err
		}
	}
}

// fillOrFail calls fill and translates a clean EOF into either
// ErrMalformedBoundary, or io.EOF if the underlying reader never produced
// a single byte (an empty body is not malformed, it simply has no parts).
func (b *Boundary) fillOrFail() error {
	err := b.fill()
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		if !b.everSawByte {
			b.st = stateEnd
			return io.EOF
		}
		return ErrMalformedBoundary
	}
	return err
}

// ConsumeBoundary validates and consumes the two-byte suffix following a
// boundary located by NextChunk. It reports true if another part follows
// (the suffix was CRLF) or false if the body is finished (the suffix was
// "--").
func (b *Boundary) ConsumeBoundary() (hasNext bool, err error) {
	if b.st == stateEnd {
		return false, nil
	}
	if b.st != stateBoundaryPending {
		// The caller skipped draining the current part; drain it now so
		// the boundary can be confirmed.
		for {
			_, err := b.NextChunk()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return false, err
			}
		}
		if b.st == stateEnd {
			return false, nil
		}
	}

	switch {
	case b.suffix[0] == '\r' && b.suffix[1] == '\n':
		b.st = stateWatching
		return true, nil
	case b.suffix[0] == '-' && b.suffix[1] == '-':
		b.st = stateEnd
		return false, nil
	default:
		return false, ErrUnexpectedBoundarySuffix
	}
}

// Done reports whether the closing boundary has already been observed.
func (b *Boundary) Done() bool {
	return b.st == stateEnd
}
