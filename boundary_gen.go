package multipart

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateBoundary returns a random boundary string suitable for
// separating parts in a multipart body. It is not guaranteed to be absent
// from any particular body's contents; use GenerateSafeBoundary when the
// full set of part contents is already known.
func GenerateBoundary() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand.Read on every supported platform only fails if the
		// system's entropy source is unavailable, which a form-encoding
		// library has no way to recover from.
		panic(fmt.Sprintf("multipart: failed to generate boundary: %v", err))
	}
	return hex.EncodeToString(buf[:])
}

// GenerateSafeBoundary returns a random boundary guaranteed not to appear
// in contents.
func GenerateSafeBoundary(contents string) string {
	for {
		boundary := GenerateBoundary()
		if !strings.Contains(contents, boundary) {
			return boundary
		}
	}
}
