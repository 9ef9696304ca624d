package types

import (
	"fmt"

	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

// ErrorCode is the ordinal per-transaction validation outcome shared with
// the execution layer. The ordinal doubles as severity: codes above
// CodeWasmRuntimeError reject the whole proposal.
type ErrorCode uint32

const (
	// CodeOk accepts the transaction.
	CodeOk ErrorCode = iota
	// CodeInvalidTx rejects a transaction that is malformed, unsupported,
	// mislabelled, or unable to cover its fee.
	CodeInvalidTx
	// CodeInvalidSig rejects a transaction whose header integrity check failed.
	CodeInvalidSig
	// CodeWasmRuntimeError is reserved for the execution layer. Proposal
	// validation never produces it.
	CodeWasmRuntimeError
	// CodeInvalidOrder rejects a decrypted transaction submitted out of the
	// order fixed by the previous block.
	CodeInvalidOrder
	// CodeExtraTxs rejects a decrypted transaction in excess of the
	// decryption-order queue.
	CodeExtraTxs
)

// String implements human readable representation of the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeOk:
		return "ok"
	case CodeInvalidTx:
		return "invalid_tx"
	case CodeInvalidSig:
		return "invalid_sig"
	case CodeWasmRuntimeError:
		return "wasm_runtime_error"
	case CodeInvalidOrder:
		return "invalid_order"
	case CodeExtraTxs:
		return "extra_txs"
	}
	return fmt.Sprintf("unknown(%d)", uint32(c))
}

// RejectsProposal reports whether the code alone makes a proposal
// unacceptable. Order violations and queue overruns mean the proposer
// deviated from a binding commitment; lower codes are a per-transaction
// concern only.
func (c ErrorCode) RejectsProposal() bool {
	return c > CodeWasmRuntimeError
}

// maxInfoSize limits the diagnostic string on the wire.
const maxInfoSize = 1024

// TxResult is the validation outcome for a single submitted transaction.
// Results preserve a 1:1, order-preserving correspondence with the input
// transaction list. Info is diagnostic text for operators, not meant for
// programmatic branching beyond the code.
type TxResult struct {
	Code ErrorCode
	Info string `scale:"max=1024"`
}

// EncodeScale implements scale codec interface.
func (r *TxResult) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeCompact32(enc, uint32(r.Code))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeStringWithLimit(enc, r.Info, maxInfoSize)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (r *TxResult) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeCompact32(dec)
		if err != nil {
			return total, err
		}
		total += n
		r.Code = ErrorCode(field)
	}
	{
		field, n, err := scale.DecodeStringWithLimit(dec, maxInfoSize)
		if err != nil {
			return total, err
		}
		total += n
		r.Info = field
	}
	return total, nil
}

// MarshalLogObject implements logging encoder for the result.
func (r *TxResult) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("code", r.Code.String())
	if r.Code != CodeOk {
		encoder.AddString("info", r.Info)
	}
	return nil
}

// ProposalStatus is the block-level verdict derived from all per-transaction
// results.
type ProposalStatus uint8

const (
	// ProposalAccepted votes to accept the proposed block.
	ProposalAccepted ProposalStatus = iota
	// ProposalRejected votes to reject the proposed block.
	ProposalRejected
)

// String implements human readable representation of the status.
func (s ProposalStatus) String() string {
	switch s {
	case ProposalAccepted:
		return "accepted"
	case ProposalRejected:
		return "rejected"
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}
