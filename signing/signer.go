// Package signing implements the domain-separated ed25519 scheme used for
// transaction header signatures.
package signing

import (
	"errors"
	"fmt"
	"io"

	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"

	"github.com/veilchain/go-veilchain/common/types"
)

// PrivateKey is an ed25519 private key.
type PrivateKey = ed25519.PrivateKey

// PrivateKeySize is the size of an ed25519 private key in bytes.
const PrivateKeySize = ed25519.PrivateKeySize

// Domain separates signatures of different message kinds so a signature can
// never be replayed across kinds.
type Domain byte

const (
	// TX is the domain of transaction header signatures.
	TX Domain = 0
)

// String returns the string representation of a domain.
func (d Domain) String() string {
	switch d {
	case TX:
		return "TX"
	default:
		return "UNKNOWN"
	}
}

type edSignerOption struct {
	priv   PrivateKey
	prefix []byte
}

// EdSignerOptionFunc modifies EdSigner.
type EdSignerOptionFunc func(*edSignerOption) error

// WithPrefix sets the prefix used by EdSigner. This usually is the chain ID.
func WithPrefix(prefix []byte) EdSignerOptionFunc {
	return func(opt *edSignerOption) error {
		opt.prefix = prefix
		return nil
	}
}

// WithPrivateKey sets the private key used by EdSigner.
func WithPrivateKey(priv PrivateKey) EdSignerOptionFunc {
	return func(opt *edSignerOption) error {
		if opt.priv != nil {
			return errors.New("invalid option WithPrivateKey: private key already set")
		}
		if len(priv) != ed25519.PrivateKeySize {
			return errors.New("could not create EdSigner: invalid key length")
		}
		opt.priv = priv
		return nil
	}
}

// WithKeyFromRand sets the private key used by EdSigner using a predictable
// randomness source.
func WithKeyFromRand(rand io.Reader) EdSignerOptionFunc {
	return func(opt *edSignerOption) error {
		_, priv, err := ed25519.GenerateKey(rand)
		if err != nil {
			return fmt.Errorf("could not generate key pair: %w", err)
		}
		opt.priv = priv
		return nil
	}
}

// EdSigner represents an ED25519 signer.
type EdSigner struct {
	priv   PrivateKey
	prefix []byte
}

// NewEdSigner returns an auto-generated ed signer.
func NewEdSigner(opts ...EdSignerOptionFunc) (*EdSigner, error) {
	cfg := &edSignerOption{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.priv == nil {
		_, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			return nil, fmt.Errorf("could not generate key pair: %w", err)
		}
		cfg.priv = priv
	}
	return &EdSigner{priv: cfg.priv, prefix: cfg.prefix}, nil
}

// ShieldedPoolSigner returns a signer for the well-known shielded-pool
// sentinel key. Wrappers that pay fees from the shielded pool are signed
// with it.
func ShieldedPoolSigner(opts ...EdSignerOptionFunc) (*EdSigner, error) {
	priv := ed25519.NewKeyFromSeed(types.ShieldedSentinelSeed.Bytes())
	return NewEdSigner(append(opts, WithPrivateKey(priv))...)
}

// Sign signs the provided message under the given domain.
func (es *EdSigner) Sign(d Domain, m []byte) types.EdSignature {
	msg := make([]byte, 0, len(es.prefix)+1+len(m))
	msg = append(msg, es.prefix...)
	msg = append(msg, byte(d))
	msg = append(msg, m...)

	return *(*[types.EdSignatureSize]byte)(ed25519.Sign(es.priv, msg))
}

// PublicKey returns the public key of the signer.
func (es *EdSigner) PublicKey() types.PublicKey {
	return types.BytesToPublicKey(es.priv.Public().(ed25519.PublicKey))
}

// PrivateKey returns the private key of the signer.
func (es *EdSigner) PrivateKey() PrivateKey {
	return es.priv
}
