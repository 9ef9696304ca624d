package types

import (
	"fmt"

	"github.com/veilchain/go-veilchain/codec"
)

// BytesToTx deserializes a transaction from its wire form. This is the only
// entry point for untrusted transaction bytes; failure is terminal for that
// transaction.
func BytesToTx(raw []byte) (*Tx, error) {
	tx := &Tx{}
	if err := codec.Decode(raw, tx); err != nil {
		return nil, fmt.Errorf("parse tx: %w", err)
	}
	return tx, nil
}

// Bytes returns the wire form of the transaction.
func (t *Tx) Bytes() []byte {
	return codec.MustEncode(t)
}

func headerHash(h *TxHeader) Hash32 {
	return CalcHash32(codec.MustEncode(h))
}
