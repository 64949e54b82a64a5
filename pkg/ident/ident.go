// Package ident generates and encodes item identifiers. Identifiers are
// 128-bit random values stored as 16 raw bytes; the canonical string form is
// the hyphenated textual encoding, used uniformly on every response path.
package ident

import (
	"fmt"

	"github.com/google/uuid"
)

// Size is the binary encoding width in bytes.
const Size = 16

// Generate returns a new random identifier in both representations. Entropy
// makes collisions negligible, so there is no retry on conflict.
func Generate() (string, []byte) {
	u := uuid.New()
	bin := make([]byte, Size)
	copy(bin, u[:])
	return u.String(), bin
}

// ToString decodes a stored binary identifier into canonical string form.
func ToString(bin []byte) (string, error) {
	u, err := uuid.FromBytes(bin)
	if err != nil {
		return "", fmt.Errorf("decode identifier: %w", err)
	}
	return u.String(), nil
}
