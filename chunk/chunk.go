// Package chunk provides the byte-segment abstraction the boundary scanner
// and the header reader build on: a small value type that can be cheaply split
// at an index without forcing every caller to agree on how the underlying
// bytes are owned.
//
// Two shapes are provided. Borrowed wraps a slice the caller still owns
// and must not mutate after handing it to a Chunk. Owned copies into a
// private backing array, for the rare case where the scanner must hold
// bytes past the buffer fill that produced them.
package chunk

// Chunk is a contiguous byte range that can be split without copying in
// the common case.
type Chunk interface {
	// Len returns the number of bytes in the chunk.
	Len() int

	// IsEmpty reports whether the chunk holds zero bytes.
	IsEmpty() bool

	// Bytes borrows the chunk's bytes. The returned slice is only valid
	// for as long as the Chunk is; callers that need the bytes to outlive
	// the Chunk must copy them.
	Bytes() []byte

	// Split divides the chunk at i, returning the bytes before and after.
	// i must be in [0, Len()]. The concatenation of the two halves'
	// bytes equals the original chunk's bytes.
	Split(i int) (Chunk, Chunk)
}

// Borrowed is a Chunk backed by a slice the Chunk does not own. Splitting
// a Borrowed chunk never copies.
type Borrowed []byte

// NewBorrowed wraps b as a Chunk without copying it.
func NewBorrowed(b []byte) Borrowed { return Borrowed(b) }

func (b Borrowed) Len() int     { return len(b) }
func (b Borrowed) IsEmpty() bool { return len(b) == 0 }
func (b Borrowed) Bytes() []byte { return []byte(b) }

func (b Borrowed) Split(i int) (Chunk, Chunk) {
	return Borrowed(b[:i:i]), Borrowed(b[i:])
}

// Owned is a Chunk backed by a private copy of its bytes. Use it when the
// scanner must retain bytes past the refill that produced them, so a later
// reuse of the caller's buffer can't corrupt what was already handed out.
type Owned []byte

// NewOwned copies b into a new Owned chunk.
func NewOwned(b []byte) Owned {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Owned(cp)
}

func (o Owned) Len() int      { return len(o) }
func (o Owned) IsEmpty() bool { return len(o) == 0 }
func (o Owned) Bytes() []byte { return []byte(o) }

func (o Owned) Split(i int) (Chunk, Chunk) {
	left := make([]byte, i)
	copy(left, o[:i])
	right := make([]byte, len(o)-i)
	copy(right, o[i:])
	return Owned(left), Owned(right)
}
