package proposals

import (
	"github.com/veilchain/go-veilchain/common/types"
)

//go:generate mockgen -package=proposals -destination=./mocks.go -source=./interface.go

// decryptionVerifier answers the two questions proposal validation asks
// about encrypted payloads: is a wrapper's ciphertext structurally valid,
// and does a decrypted-variant transaction tell the truth about the queue
// entry it claims to reveal.
type decryptionVerifier interface {
	ValidateCiphertext(*types.Tx) bool
	VerifyDecryptedCorrectly(types.DecryptedKind, *types.TxInQueue) bool
}

// powVerifier checks the proof-of-work fee bypass of a wrapper transaction.
// Consulted only on non-mainnet networks.
type powVerifier interface {
	HasValidPow(*types.WrapperVariant, uint8) bool
}
