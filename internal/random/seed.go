// Package random provides seeds for the dice sources.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Seed returns override when one is given, otherwise a fresh seed.
func Seed(override *int64) (int64, error) {
	if override != nil {
		return *override, nil
	}
	return NewSeed()
}
