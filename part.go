package multipart

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/zostay/go-multipart-stream/header"
)

// Part is a single field of a multipart body. Its Header describes the
// field; its body is read through the io.Reader interface, exactly once,
// in order.
type Part struct {
	Header header.FieldHeader

	r    *Reader
	eof  bool
	read int64
}

// Read implements io.Reader, returning the field's body bytes. It returns
// io.EOF once the field's body is exhausted (the next boundary has been
// reached), and ErrPartTooLarge if a maximum part size was configured and
// exceeded.
func (p *Part) Read(b []byte) (int, error) {
	if p.eof {
		return 0, io.EOF
	}

	c, err := p.r.pb.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.eof = true
			return 0, io.EOF
		}
		return 0, err
	}

	n := copy(b, c.Bytes())
	if n < c.Len() {
		_, rest := c.Split(n)
		p.r.pb.Push(rest)
	}

	p.read += int64(n)
	if max := p.r.opts.maxPartBytes; max > 0 && p.read > int64(max) {
		return n, ErrPartTooLarge
	}

	return n, nil
}

// WriteTo implements io.WriterTo, copying the field's remaining body to w
// a chunk at a time rather than through Read's fixed-size buffer.
func (p *Part) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for {
		if p.eof {
			return total, nil
		}

		c, err := p.r.pb.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.eof = true
				return total, nil
			}
			return total, err
		}

		n, werr := w.Write(c.Bytes())
		total += int64(n)
		p.read += int64(n)
		if werr != nil {
			return total, werr
		}
		if max := p.r.opts.maxPartBytes; max > 0 && p.read > int64(max) {
			return total, ErrPartTooLarge
		}
	}
}

// Text reads the field's entire remaining body and returns it as a
// string, validating that it is UTF-8 as it streams in. A multi-byte
// sequence split across two internal chunks is stitched back together
// before validation, so the split point itself never produces a false
// ErrNonUTF8FieldData.
func (p *Part) Text() (string, error) {
	var buf bytes.Buffer
	var carry []byte

	for {
		if p.eof {
			break
		}

		c, err := p.r.pb.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.eof = true
				break
			}
			return "", err
		}

		p.read += int64(c.Len())
		if max := p.r.opts.maxPartBytes; max > 0 && p.read > int64(max) {
			return "", ErrPartTooLarge
		}

		data := c.Bytes()
		if len(carry) > 0 {
			data = append(carry, data...)
			carry = nil
		}

		for len(data) > 0 {
			if utf8.FullRune(data) {
				r, size := utf8.DecodeRune(data)
				if r == utf8.RuneError && size <= 1 {
					return "", ErrNonUTF8FieldData
				}
				buf.Write(data[:size])
				data = data[size:]
				continue
			}
			if len(data) >= utf8.UTFMax {
				return "", ErrNonUTF8FieldData
			}
			carry = append([]byte(nil), data...)
			break
		}
	}

	if len(carry) > 0 {
		return "", ErrNonUTF8FieldData
	}

	return buf.String(), nil
}
