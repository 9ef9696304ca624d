package types

import (
	"encoding/hex"

	"github.com/spacemeshos/go-scale"

	"github.com/veilchain/go-veilchain/hash"
)

const (
	// Hash32Length is 32, the expected length of the hash.
	Hash32Length = hash.Size
)

// Hash32 represents the 32-byte blake3 hash of arbitrary data.
type Hash32 [Hash32Length]byte

// EmptyHash32 is the zero value of Hash32.
var EmptyHash32 = Hash32{}

// CalcHash32 returns the 32-byte blake3 hash of the byte slice.
func CalcHash32(data []byte) Hash32 {
	return hash.Sum(data)
}

// Bytes gets the byte representation of the underlying hash.
func (h Hash32) Bytes() []byte { return h[:] }

// Hex converts a hash to a hex string.
func (h Hash32) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements the stringer interface and is used also by the logger when
// doing full logging into a file.
func (h Hash32) String() string {
	return h.Hex()
}

// ShortString returns the first 5 characters of the hash, for logging purposes.
func (h Hash32) ShortString() string {
	return h.Hex()[2:7]
}

// IsEmpty returns true if the hash is the zero value.
func (h Hash32) IsEmpty() bool {
	return h == EmptyHash32
}

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash32) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-Hash32Length:]
	}
	copy(h[Hash32Length-len(b):], b)
}

// EncodeScale implements scale codec interface.
func (h *Hash32) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, h[:])
}

// DecodeScale implements scale codec interface.
func (h *Hash32) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, h[:])
}
