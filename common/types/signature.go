package types

import (
	"encoding/hex"

	"github.com/spacemeshos/go-scale"
)

const (
	// PublicKeySize is the size of an ed25519 public key in bytes.
	PublicKeySize = 32
	// EdSignatureSize is the size of an ed25519 signature in bytes.
	EdSignatureSize = 64
)

// PublicKey is an ed25519 public key declared by a transaction submitter.
type PublicKey [PublicKeySize]byte

// Bytes returns the public key as a byte slice.
func (p PublicKey) Bytes() []byte { return p[:] }

// String returns a hexadecimal representation of the public key.
func (p PublicKey) String() string { return hex.EncodeToString(p[:]) }

// EncodeScale implements scale codec interface.
func (p *PublicKey) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, p[:])
}

// DecodeScale implements scale codec interface.
func (p *PublicKey) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, p[:])
}

// BytesToPublicKey copies b into a PublicKey.
func BytesToPublicKey(b []byte) (key PublicKey) {
	copy(key[:], b)
	return key
}

// EdSignature is an ed25519 signature.
type EdSignature [EdSignatureSize]byte

// EmptyEdSignature is the zero value of EdSignature.
var EmptyEdSignature = EdSignature{}

// Bytes returns the signature as a byte slice.
func (s EdSignature) Bytes() []byte { return s[:] }

// String returns a hexadecimal representation of the signature.
func (s EdSignature) String() string { return hex.EncodeToString(s[:]) }

// EncodeScale implements scale codec interface.
func (s *EdSignature) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, s[:])
}

// DecodeScale implements scale codec interface.
func (s *EdSignature) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, s[:])
}
