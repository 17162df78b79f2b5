// Package identity rebuilds player UUIDs from the int-array form used in
// item NBT.
package identity

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMalformedIdentifier is returned when the int array does not hold exactly
// four elements.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// FromInts joins four signed 32-bit integers, most significant byte first,
// into a UUID. Version and variant bits are taken as-is.
func FromInts(ints []int32) (uuid.UUID, error) {
	var id uuid.UUID
	if len(ints) != 4 {
		return id, fmt.Errorf("%w: want 4 ints, got %d", ErrMalformedIdentifier, len(ints))
	}
	for i, v := range ints {
		binary.BigEndian.PutUint32(id[i*4:], uint32(v))
	}
	return id, nil
}

// ToInts splits a UUID back into its four int-array elements.
func ToInts(id uuid.UUID) [4]int32 {
	var out [4]int32
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(id[i*4:]))
	}
	return out
}
