package types

import (
	"github.com/spacemeshos/go-scale"
)

// TxInQueue is one entry of the decryption-order queue: the commitment made
// by the previous block that a wrapped transaction will be revealed at this
// position. Entries are read-only input to proposal validation and are
// consumed by a single forward cursor, each at most once per cycle.
type TxInQueue struct {
	// Wrapper is the admitted wrapper header.
	Wrapper WrapperVariant
	// InnerTx is the plaintext transaction produced by the decryption round.
	InnerTx Tx
	// HasValidPow records whether the wrapper was admitted via the
	// proof-of-work fee bypass. Only meaningful on non-mainnet networks.
	HasValidPow bool
}

// EncodeScale implements scale codec interface.
func (q *TxInQueue) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := q.Wrapper.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := q.InnerTx.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeBool(enc, q.HasValidPow)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (q *TxInQueue) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := q.Wrapper.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := q.InnerTx.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeBool(dec)
		if err != nil {
			return total, err
		}
		total += n
		q.HasValidPow = field
	}
	return total, nil
}
