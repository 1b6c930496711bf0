package scanner

import (
	"github.com/zostay/go-multipart-stream/chunk"
)

// Pushback wraps a chunk source with a single-slot lookahead buffer, so a
// caller that peeked at a chunk to make a decision (is this whitespace
// before a header line, or the start of the body?) can put it back for the
// next real read without copying it into a growable buffer.
type Pushback struct {
	held chunk.Chunk
	src  func() (chunk.Chunk, error)
}

// NewPushback wraps src, a function that returns the next available
// chunk (typically (*Boundary).NextChunk).
func NewPushback(src func() (chunk.Chunk, error)) *Pushback {
	return &Pushback{src: src}
}

// Push returns c to the front of the stream. Push may only be called once
// between calls to Next, and c must not be empty; it panics otherwise.
func (p *Pushback) Push(c chunk.Chunk) {
	if p.held != nil {
		panic("scanner: Pushback.Push called while a chunk is already held")
	}
	if c == nil || c.IsEmpty() {
		panic("scanner: Pushback.Push called with an empty chunk")
	}
	p.held = c
}

// Next returns the held chunk if one was pushed back, otherwise pulls the
// next chunk from the underlying source.
func (p *Pushback) Next() (chunk.Chunk, error) {
	if p.held != nil {
		c := p.held
		p.held = nil
		return c, nil
	}
	return p.src()
}

// Peek returns the next chunk without consuming it: it pulls from the
// source if nothing is held, then immediately pushes the result back.
func (p *Pushback) Peek() (chunk.Chunk, error) {
	c, err := p.Next()
	if err != nil {
		return nil, err
	}
	p.Push(c)
	return c, nil
}
