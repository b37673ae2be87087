// Package random provides seed helpers for the sampling engine.
//
// Fixed seeds make runs reproducible; a zero seed asks for a fresh one
// drawn from crypto/rand.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random non-zero seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	for {
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if seed := int64(binary.LittleEndian.Uint64(b[:])); seed != 0 {
			return seed, nil
		}
	}
}

// ResolveSeed returns seed unchanged when it is non-zero, otherwise a new random seed.
func ResolveSeed(seed int64) (int64, error) {
	if seed != 0 {
		return seed, nil
	}
	return NewSeed()
}
