package types

import (
	"fmt"

	"github.com/spacemeshos/go-scale"
)

const (
	// MaxSectionSize limits a single section payload on the wire.
	MaxSectionSize = 1 << 20
	// MaxSections limits the number of sections a transaction may carry.
	MaxSections = 8
	// maxChainIDSize limits the chain identifier on the wire.
	maxChainIDSize = 64
)

// SectionType tags a transaction content section.
type SectionType uint8

const (
	// SectionCode holds the payload code of a transaction.
	SectionCode SectionType = iota
	// SectionData holds the payload data of a transaction.
	SectionData
	// SectionSignature holds a signature over the header hash.
	SectionSignature
	// SectionCiphertext holds the encrypted inner transaction of a wrapper.
	SectionCiphertext
)

// Section is a content section of a transaction. The header commits to the
// code and data sections by hash, so tampering with a section is detectable
// without re-parsing the payload.
type Section struct {
	Kind SectionType
	Data []byte `scale:"max=1048576"`
	// PubKey and Signature are only set for signature sections.
	PubKey    PublicKey
	Signature EdSignature
}

// EncodeScale implements scale codec interface.
func (s *Section) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeCompact8(enc, uint8(s.Kind))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteSliceWithLimit(enc, s.Data, MaxSectionSize)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := s.PubKey.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := s.Signature.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (s *Section) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeCompact8(dec)
		if err != nil {
			return total, err
		}
		total += n
		s.Kind = SectionType(field)
	}
	{
		field, n, err := scale.DecodeByteSliceWithLimit(dec, MaxSectionSize)
		if err != nil {
			return total, err
		}
		total += n
		s.Data = field
	}
	{
		n, err := s.PubKey.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := s.Signature.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// TxHeader is the envelope header of a transaction. It carries the variant
// union and the hash commitments to the code and data sections.
type TxHeader struct {
	ChainID string `scale:"max=64"`
	// Expiration is the epoch after which the transaction is stale.
	// Zero means the transaction does not expire.
	Expiration uint64
	CodeHash   Hash32
	DataHash   Hash32
	Variant    TxVariant
}

// Type returns the variant tag of the header.
func (h *TxHeader) Type() TxType {
	return h.Variant.Type()
}

// Wrapper returns the wrapper variant, or nil if the header is not a wrapper.
func (h *TxHeader) Wrapper() *WrapperVariant {
	if w, ok := h.Variant.(*WrapperVariant); ok {
		return w
	}
	return nil
}

// EncodeScale implements scale codec interface.
func (h *TxHeader) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeStringWithLimit(enc, h.ChainID, maxChainIDSize)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, h.Expiration)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := h.CodeHash.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := h.DataHash.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	if h.Variant == nil {
		return total, fmt.Errorf("encode header: nil variant")
	}
	{
		n, err := scale.EncodeCompact8(enc, uint8(h.Variant.Type()))
		if err != nil {
			return total, err
		}
		total += n
	}
	switch v := h.Variant.(type) {
	case *RawVariant, *ProtocolVariant:
		// tag only, no body
	case *WrapperVariant:
		n, err := v.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	case *DecryptedVariant:
		n, err := v.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	case *UndecryptableVariant:
		n, err := v.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (h *TxHeader) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeStringWithLimit(dec, maxChainIDSize)
		if err != nil {
			return total, err
		}
		total += n
		h.ChainID = field
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		h.Expiration = field
	}
	{
		n, err := h.CodeHash.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := h.DataHash.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	tag, n, err := scale.DecodeCompact8(dec)
	if err != nil {
		return total, err
	}
	total += n
	switch TxType(tag) {
	case TxRaw:
		h.Variant = &RawVariant{}
	case TxProtocol:
		h.Variant = &ProtocolVariant{}
	case TxWrapper:
		v := &WrapperVariant{}
		n, err := v.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
		h.Variant = v
	case TxDecrypted:
		v := &DecryptedVariant{}
		n, err := v.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
		h.Variant = v
	case TxUndecryptable:
		v := &UndecryptableVariant{}
		n, err := v.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
		h.Variant = v
	default:
		return total, fmt.Errorf("decode header: unknown variant tag %d", tag)
	}
	return total, nil
}

// Tx is the transaction envelope: a header variant plus content sections.
type Tx struct {
	Header   TxHeader
	Sections []Section `scale:"max=8"`
}

// NewTx returns an envelope with the given header variant and no sections.
func NewTx(variant TxVariant) *Tx {
	return &Tx{Header: TxHeader{Variant: variant}}
}

// EncodeScale implements scale codec interface.
func (t *Tx) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := t.Header.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeStructSliceWithLimit(enc, t.Sections, MaxSections)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (t *Tx) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := t.Header.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeStructSliceWithLimit[Section](dec, MaxSections)
		if err != nil {
			return total, err
		}
		total += n
		t.Sections = field
	}
	return total, nil
}

// section returns the first section of the given kind, or nil.
func (t *Tx) section(kind SectionType) *Section {
	for i := range t.Sections {
		if t.Sections[i].Kind == kind {
			return &t.Sections[i]
		}
	}
	return nil
}

// CodeSection returns the code section, or nil.
func (t *Tx) CodeSection() *Section { return t.section(SectionCode) }

// DataSection returns the data section, or nil.
func (t *Tx) DataSection() *Section { return t.section(SectionData) }

// CiphertextSection returns the ciphertext section, or nil.
func (t *Tx) CiphertextSection() *Section { return t.section(SectionCiphertext) }

// SignatureSection returns the signature section, or nil.
func (t *Tx) SignatureSection() *Section { return t.section(SectionSignature) }

// setSection replaces the first section of the given kind, or appends it.
func (t *Tx) setSection(s Section) {
	if existing := t.section(s.Kind); existing != nil {
		*existing = s
		return
	}
	t.Sections = append(t.Sections, s)
}

// SetCode attaches the code section and updates the header commitment.
func (t *Tx) SetCode(code []byte) {
	t.setSection(Section{Kind: SectionCode, Data: code})
	t.Header.CodeHash = CalcHash32(code)
}

// SetData attaches the data section and updates the header commitment.
func (t *Tx) SetData(data []byte) {
	t.setSection(Section{Kind: SectionData, Data: data})
	t.Header.DataHash = CalcHash32(data)
}

// SetCiphertext attaches the ciphertext section. If the header is a wrapper,
// its ciphertext commitment is updated to match.
func (t *Tx) SetCiphertext(ciphertext []byte) {
	t.setSection(Section{Kind: SectionCiphertext, Data: ciphertext})
	if w := t.Header.Wrapper(); w != nil {
		w.CiphertextHash = CalcHash32(ciphertext)
	}
}

// AppendSignature attaches a signature section over the header hash.
func (t *Tx) AppendSignature(pub PublicKey, sig EdSignature) {
	t.setSection(Section{Kind: SectionSignature, PubKey: pub, Signature: sig})
}

// HeaderHash is the blake3 hash of the scale-encoded header. Signature
// sections sign this hash, and the decryption-order queue matches decrypted
// transactions against it.
func (t *Tx) HeaderHash() Hash32 {
	return headerHash(&t.Header)
}
