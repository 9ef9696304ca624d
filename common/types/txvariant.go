package types

import (
	"fmt"

	"github.com/spacemeshos/go-scale"
)

// TxType tags the header variant of a transaction on the wire.
type TxType uint8

const (
	// TxRaw is an unencrypted, standalone transaction. Never independently
	// admissible into a block.
	TxRaw TxType = iota
	// TxProtocol is reserved for validator-internal protocol transactions.
	TxProtocol
	// TxWrapper is an encrypted payload plus the fee metadata needed to
	// admit it into a block one epoch before its content is revealed.
	TxWrapper
	// TxDecrypted is the revealed form of a previously wrapped transaction.
	TxDecrypted
	// TxUndecryptable marks a wrapped transaction whose payload failed to
	// open during the decryption round.
	TxUndecryptable
)

// String implements human readable representation of the variant tag.
func (t TxType) String() string {
	switch t {
	case TxRaw:
		return "raw"
	case TxProtocol:
		return "protocol"
	case TxWrapper:
		return "wrapper"
	case TxDecrypted:
		return "decrypted"
	case TxUndecryptable:
		return "undecryptable"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// TxVariant is the closed set of header variants. Adding a variant is a
// compile-time obligation to handle it wherever transactions are classified.
type TxVariant interface {
	Type() TxType
	txVariant()
}

// DecryptedKind is implemented by the variants that consume an entry of the
// decryption-order queue: Decrypted and Undecryptable.
type DecryptedKind interface {
	TxVariant
	// HashCommitment is the header hash of the inner transaction this
	// variant claims to reveal. Matched positionally against the queue.
	HashCommitment() Hash32
	// Undecryptable reports whether the variant explicitly marks the
	// payload as having failed to open.
	Undecryptable() bool
}

// Fee is the amount of a token a wrapper transaction offers for block space.
type Fee struct {
	Amount uint64
	Token  Address
}

// EncodeScale implements scale codec interface.
func (f *Fee) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeCompact64(enc, f.Amount)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := f.Token.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (f *Fee) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		f.Amount = field
	}
	{
		n, err := f.Token.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// PowSolution is a proof-of-work solution a wrapper transaction may carry on
// non-mainnet networks to skip fee payment.
type PowSolution struct {
	Nonce uint64
}

// EncodeScale implements scale codec interface.
func (p *PowSolution) EncodeScale(enc *scale.Encoder) (total int, err error) {
	return scale.EncodeCompact64(enc, p.Nonce)
}

// DecodeScale implements scale codec interface.
func (p *PowSolution) DecodeScale(dec *scale.Decoder) (total int, err error) {
	field, n, err := scale.DecodeCompact64(dec)
	if err != nil {
		return n, err
	}
	p.Nonce = field
	return n, nil
}

// RawVariant is the header of an unencrypted, standalone transaction.
type RawVariant struct{}

// Type implements TxVariant.
func (*RawVariant) Type() TxType { return TxRaw }

func (*RawVariant) txVariant() {}

// ProtocolVariant is the header of a validator-internal protocol transaction.
type ProtocolVariant struct{}

// Type implements TxVariant.
func (*ProtocolVariant) Type() TxType { return TxProtocol }

func (*ProtocolVariant) txVariant() {}

// WrapperVariant is the header of an encrypted transaction. It commits to
// both the ciphertext carried in the sections and the plaintext transaction
// to be revealed in the next decryption round.
type WrapperVariant struct {
	Fee      Fee
	PK       PublicKey
	Epoch    uint64
	GasLimit uint64
	// InnerTxHash commits to the header hash of the plaintext inner tx.
	InnerTxHash Hash32
	// CiphertextHash commits to the ciphertext section payload.
	CiphertextHash Hash32
	// PowSolution is only honored on non-mainnet networks.
	PowSolution *PowSolution
}

// Type implements TxVariant.
func (*WrapperVariant) Type() TxType { return TxWrapper }

func (*WrapperVariant) txVariant() {}

// FeePayer derives the account paying the wrapper fee from the declared
// public key. Sentinel-key substitution is applied elsewhere, see
// ResolveFeePayer.
func (w *WrapperVariant) FeePayer() Address {
	return GenerateAddress(w.PK.Bytes())
}

// EncodeScale implements scale codec interface.
func (w *WrapperVariant) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := w.Fee.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := w.PK.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, w.Epoch)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, w.GasLimit)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := w.InnerTxHash.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := w.CiphertextHash.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeBool(enc, w.PowSolution != nil)
		if err != nil {
			return total, err
		}
		total += n
	}
	if w.PowSolution != nil {
		n, err := w.PowSolution.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (w *WrapperVariant) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := w.Fee.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := w.PK.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		w.Epoch = field
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		w.GasLimit = field
	}
	{
		n, err := w.InnerTxHash.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := w.CiphertextHash.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		present, n, err := scale.DecodeBool(dec)
		if err != nil {
			return total, err
		}
		total += n
		if present {
			w.PowSolution = &PowSolution{}
			n, err := w.PowSolution.DecodeScale(dec)
			if err != nil {
				return total, err
			}
			total += n
		} else {
			w.PowSolution = nil
		}
	}
	return total, nil
}

// DecryptedVariant is the header of a successfully revealed transaction. It
// carries the hash commitments of the revealed inner transaction.
type DecryptedVariant struct {
	HeaderHash Hash32
	CodeHash   Hash32
	DataHash   Hash32
	// HasValidPow echoes the admission decision made for the wrapper on
	// non-mainnet networks.
	HasValidPow bool
}

// Type implements TxVariant.
func (*DecryptedVariant) Type() TxType { return TxDecrypted }

func (*DecryptedVariant) txVariant() {}

// HashCommitment implements DecryptedKind.
func (d *DecryptedVariant) HashCommitment() Hash32 { return d.HeaderHash }

// Undecryptable implements DecryptedKind.
func (*DecryptedVariant) Undecryptable() bool { return false }

// EncodeScale implements scale codec interface.
func (d *DecryptedVariant) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := d.HeaderHash.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := d.CodeHash.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := d.DataHash.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeBool(enc, d.HasValidPow)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (d *DecryptedVariant) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := d.HeaderHash.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := d.CodeHash.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := d.DataHash.DecodeScale(dec)
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
		d.HasValidPow = field
	}
	return total, nil
}

// UndecryptableVariant is the header of a wrapped transaction explicitly
// marked as having failed to open. It carries the originating wrapper so the
// claim stays matchable against the decryption-order queue.
type UndecryptableVariant struct {
	Wrapper WrapperVariant
}

// Type implements TxVariant.
func (*UndecryptableVariant) Type() TxType { return TxUndecryptable }

func (*UndecryptableVariant) txVariant() {}

// HashCommitment implements DecryptedKind.
func (u *UndecryptableVariant) HashCommitment() Hash32 { return u.Wrapper.InnerTxHash }

// Undecryptable implements DecryptedKind.
func (*UndecryptableVariant) Undecryptable() bool { return true }

// EncodeScale implements scale codec interface.
func (u *UndecryptableVariant) EncodeScale(enc *scale.Encoder) (total int, err error) {
	return u.Wrapper.EncodeScale(enc)
}

// DecodeScale implements scale codec interface.
func (u *UndecryptableVariant) DecodeScale(dec *scale.Decoder) (total int, err error) {
	return u.Wrapper.DecodeScale(dec)
}
