// Package encryption implements the default ciphertext oracles consulted
// during proposal validation. The threshold-encryption primitives themselves
// are run by the decryption committee outside this node; what validators can
// and must check deterministically are the hash commitments binding a
// wrapper to its ciphertext and to the plaintext revealed one block later.
package encryption

import (
	"github.com/veilchain/go-veilchain/common/types"
)

const (
	// NonceSize is the size of the ciphertext nonce prefix.
	NonceSize = 24
	// TagSize is the size of the authentication tag suffix.
	TagSize = 16
	// Overhead is the minimum size of a well-formed ciphertext.
	Overhead = NonceSize + TagSize
)

// Verifier checks ciphertext structure and decryption-correctness claims.
type Verifier struct{}

// NewVerifier returns the default verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// ValidateCiphertext checks the structural integrity of a wrapper's
// ciphertext: the section must be present, long enough to carry the nonce
// and tag framing, and match the commitment in the wrapper header.
func (v *Verifier) ValidateCiphertext(tx *types.Tx) bool {
	w := tx.Header.Wrapper()
	if w == nil {
		return false
	}
	sec := tx.CiphertextSection()
	if sec == nil || len(sec.Data) < Overhead {
		return false
	}
	return types.CalcHash32(sec.Data) == w.CiphertextHash
}

// decryptable reports whether the queue entry's wrapper commitment opens to
// the inner transaction revealed by the decryption round: the wrapper must
// commit to the revealed header, and the revealed sections must match the
// header's own section commitments.
func (v *Verifier) decryptable(entry *types.TxInQueue) bool {
	inner := &entry.InnerTx
	if entry.Wrapper.InnerTxHash != inner.HeaderHash() {
		return false
	}
	code := inner.CodeSection()
	if code == nil || types.CalcHash32(code.Data) != inner.Header.CodeHash {
		return false
	}
	data := inner.DataSection()
	if data == nil || types.CalcHash32(data.Data) != inner.Header.DataHash {
		return false
	}
	return true
}

// VerifyDecryptedCorrectly checks that the submitted decrypted-variant
// transaction tells the truth about the queue entry it claims to reveal:
// a Decrypted tag must match a payload that genuinely opened, an
// Undecryptable tag must match one that genuinely did not.
func (v *Verifier) VerifyDecryptedCorrectly(claim types.DecryptedKind, entry *types.TxInQueue) bool {
	opened := v.decryptable(entry)
	if claim.Undecryptable() {
		return !opened
	}
	if !opened {
		return false
	}
	dec, ok := claim.(*types.DecryptedVariant)
	if !ok {
		return false
	}
	inner := &entry.InnerTx
	return dec.HeaderHash == inner.HeaderHash() &&
		dec.CodeHash == inner.Header.CodeHash &&
		dec.DataHash == inner.Header.DataHash
}
