// Package proposals implements the deterministic validation a validator
// runs on a proposed block before voting on it. Every validator must reach
// the same verdict and the same per-transaction results for the same
// proposal, or the network forks.
package proposals

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/veilchain/go-veilchain/common/types"
	"github.com/veilchain/go-veilchain/encryption"
	"github.com/veilchain/go-veilchain/hash"
	"github.com/veilchain/go-veilchain/pow"
	"github.com/veilchain/go-veilchain/signing"
	"github.com/veilchain/go-veilchain/sql"
	"github.com/veilchain/go-veilchain/sql/accounts"
	"github.com/veilchain/go-veilchain/sql/params"
	"github.com/veilchain/go-veilchain/sql/txqueue"
)

// sigCacheSize bounds the memoized header signature checks.
const sigCacheSize = 1 << 13

// Config is the proposal validation configuration.
type Config struct {
	// ChainID prefixes every header signature.
	ChainID string `mapstructure:"chain-id"`
	// Mainnet disables the proof-of-work fee bypass.
	Mainnet bool `mapstructure:"mainnet"`
}

// DefaultConfig returns the mainnet configuration.
func DefaultConfig() Config {
	return Config{
		ChainID: "veilchain-1",
		Mainnet: true,
	}
}

// DefaultTestConfig returns a testnet configuration with the proof-of-work
// fee bypass enabled.
func DefaultTestConfig() Config {
	return Config{
		ChainID: "veilchain-test",
		Mainnet: false,
	}
}

// Request is a proposed block as handed over by the consensus engine.
type Request struct {
	// Height of the proposed block.
	Height uint64
	// Txs are the raw transactions in proposal order.
	Txs [][]byte
}

// Response is the validator's verdict on a proposal: the block-level status
// and one result per submitted transaction, in input order.
type Response struct {
	Status  types.ProposalStatus
	Results []types.TxResult
}

// Handler validates block proposals against committed state. Calls are
// synchronous and single-threaded per proposal: the decryption-order cursor
// forces classification in input order.
type Handler struct {
	logger *zap.Logger
	cfg    Config

	db         sql.Executor
	verifier   *signing.EdVerifier
	decryption decryptionVerifier
	pows       powVerifier

	// sigCache memoizes header signature checks. Purely an optimization:
	// entries are keyed by (header hash, key, signature) so a hit can
	// never change an outcome.
	sigCache *lru.Cache[types.Hash32, bool]
}

// Opt for configuring Handler.
type Opt func(*Handler)

// WithLogger defines logger for Handler.
func WithLogger(logger *zap.Logger) Opt {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithDecryptionVerifier overrides the default decryption-correctness oracle.
func WithDecryptionVerifier(v decryptionVerifier) Opt {
	return func(h *Handler) {
		h.decryption = v
	}
}

// WithPowVerifier overrides the default proof-of-work oracle.
func WithPowVerifier(v powVerifier) Opt {
	return func(h *Handler) {
		h.pows = v
	}
}

// NewHandler creates a Handler reading committed state from db.
func NewHandler(db sql.Executor, cfg Config, opts ...Opt) (*Handler, error) {
	verifier, err := signing.NewEdVerifier(signing.WithVerifierPrefix([]byte(cfg.ChainID)))
	if err != nil {
		return nil, fmt.Errorf("create verifier: %w", err)
	}
	cache, err := lru.New[types.Hash32, bool](sigCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create signature cache: %w", err)
	}
	h := &Handler{
		logger:     zap.NewNop(),
		cfg:        cfg,
		db:         db,
		verifier:   verifier,
		decryption: encryption.NewVerifier(),
		pows:       powChecker{},
		sigCache:   cache,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// VerifyHeader is the stateless pre-check stage invoked before full proposal
// processing. It performs no rejection and exists as an extension point.
//
// INVARIANT: this method must not read or mutate node state.
func (h *Handler) VerifyHeader(context.Context) error {
	return nil
}

// ProcessProposal checks all the txs in a proposed block. Some txs may be
// incorrect, but the block is only rejected if the order of the included
// txs violates the order decided upon in the previous block.
//
// The returned error is reserved for internal faults (storage or oracle
// failure); there is no safe partial result to return in that case and the
// host engine must treat the whole call as failed.
func (h *Handler) ProcessProposal(ctx context.Context, req Request) (Response, error) {
	queue, err := txqueue.All(h.db)
	if err != nil {
		return Response{}, fmt.Errorf("process proposal at height %d: %w", req.Height, err)
	}
	cursor := newQueueCursor(queue)

	results := make([]types.TxResult, 0, len(req.Txs))
	for _, raw := range req.Txs {
		result, err := h.processTx(raw, cursor)
		if err != nil {
			return Response{}, fmt.Errorf("process proposal at height %d: %w", req.Height, err)
		}
		processedTxs.WithLabelValues(result.Code.String()).Inc()
		results = append(results, result)
	}

	status := types.ProposalAccepted
	for i := range results {
		if results[i].Code.RejectsProposal() {
			status = types.ProposalRejected
			break
		}
	}
	processedProposals.WithLabelValues(status.String()).Inc()
	h.logger.Debug("processed proposal",
		zap.Uint64("height", req.Height),
		zap.Int("txs", len(req.Txs)),
		zap.Int("unrevealed", cursor.remaining()),
		zap.Stringer("status", status),
	)
	return Response{Status: status, Results: results}, nil
}

// RevertProposal is invoked when a proposal is ultimately rejected by the
// consensus protocol. Validation itself stages no observable state changes,
// so there is nothing to roll back here; any mutation performed by outer
// layers must be overwritten by the next accepted block.
func (h *Handler) RevertProposal(context.Context) error {
	return nil
}

// processTx classifies a single transaction, advancing the queue cursor for
// decrypted-variant transactions only.
func (h *Handler) processTx(raw []byte, cursor *queueCursor) (types.TxResult, error) {
	tx, err := types.BytesToTx(raw)
	if err != nil {
		return types.TxResult{
			Code: types.CodeInvalidTx,
			Info: "the submitted transaction was not deserializable",
		}, nil
	}

	if err := h.validateTxHeader(tx); err != nil {
		return types.TxResult{
			Code: types.CodeInvalidSig,
			Info: err.Error(),
		}, nil
	}

	switch v := tx.Header.Variant.(type) {
	case *types.RawVariant:
		return types.TxResult{
			Code: types.CodeInvalidTx,
			Info: "transaction rejected: non-encrypted transactions are not supported",
		}, nil
	case *types.ProtocolVariant:
		return types.TxResult{
			Code: types.CodeInvalidTx,
			Info: "protocol transactions are not supported yet",
		}, nil
	case *types.DecryptedVariant:
		return h.processDecrypted(v, cursor)
	case *types.UndecryptableVariant:
		return h.processDecrypted(v, cursor)
	case *types.WrapperVariant:
		return h.processWrapper(raw, tx, v)
	}
	return types.TxResult{}, fmt.Errorf("unhandled header variant %s", tx.Header.Type())
}

// processDecrypted matches a decrypted-variant transaction against the next
// unconsumed entry of the decryption-order queue. Positional matching, not
// content matching alone, is what makes reordering detectable.
func (h *Handler) processDecrypted(claim types.DecryptedKind, cursor *queueCursor) (types.TxResult, error) {
	entry, ok := cursor.next()
	if !ok {
		return types.TxResult{
			Code: types.CodeExtraTxs,
			Info: "received more decrypted txs than expected",
		}, nil
	}
	if entry.InnerTx.HeaderHash() != claim.HashCommitment() {
		return types.TxResult{
			Code: types.CodeInvalidOrder,
			Info: "process proposal rejected a decrypted transaction that violated the tx order determined in the previous block",
		}, nil
	}
	if !h.decryption.VerifyDecryptedCorrectly(claim, entry) {
		return types.TxResult{
			Code: types.CodeInvalidTx,
			Info: "the encrypted payload of tx was incorrectly marked as un-decryptable",
		}, nil
	}
	return types.TxResult{
		Code: types.CodeOk,
		Info: "process proposal accepted this transaction",
	}, nil
}

// processWrapper checks ciphertext structure and fee admission of a wrapper
// transaction.
func (h *Handler) processWrapper(raw []byte, tx *types.Tx, w *types.WrapperVariant) (types.TxResult, error) {
	if !h.decryption.ValidateCiphertext(tx) {
		return types.TxResult{
			Code: types.CodeInvalidTx,
			Info: fmt.Sprintf("the ciphertext of the wrapped tx %s is invalid", types.CalcHash32(raw)),
		}, nil
	}

	chain, err := params.Get(h.db)
	if err != nil {
		return types.TxResult{}, fmt.Errorf("read protocol params: %w", err)
	}
	payer := ResolveFeePayer(w)
	balance, err := accounts.Balance(h.db, w.Fee.Token, payer)
	if err != nil {
		return types.TxResult{}, fmt.Errorf("read payer balance: %w", err)
	}

	// On testnets a tx is allowed to skip fees if it carries a valid PoW.
	hasValidPow := false
	if !h.cfg.Mainnet {
		hasValidPow = h.pows.HasValidPow(w, chain.PowDifficulty)
	}

	if hasValidPow || chain.WrapperFee <= balance {
		return types.TxResult{
			Code: types.CodeOk,
			Info: "process proposal accepted this transaction",
		}, nil
	}
	return types.TxResult{
		Code: types.CodeInvalidTx,
		Info: "the address given does not have sufficient balance to pay fee",
	}, nil
}

// validateTxHeader verifies header-level integrity independent of any block
// context: present sections must match the header's hash commitments, and
// signature-carrying variants must be validly signed over the header hash.
// Pure with respect to node state, so it is also safe for lighter
// pre-checks.
func (h *Handler) validateTxHeader(tx *types.Tx) error {
	if code := tx.CodeSection(); code != nil && types.CalcHash32(code.Data) != tx.Header.CodeHash {
		return fmt.Errorf("code section does not match the header commitment")
	}
	if data := tx.DataSection(); data != nil && types.CalcHash32(data.Data) != tx.Header.DataHash {
		return fmt.Errorf("data section does not match the header commitment")
	}

	var signer types.PublicKey
	switch v := tx.Header.Variant.(type) {
	case *types.WrapperVariant:
		signer = v.PK
	case *types.ProtocolVariant:
		sec := tx.SignatureSection()
		if sec == nil {
			return fmt.Errorf("header signature verification failed: transaction does not carry a signature section")
		}
		signer = sec.PubKey
	default:
		// raw and decrypted headers carry no signature obligation
		return nil
	}

	sec := tx.SignatureSection()
	if sec == nil {
		return fmt.Errorf("header signature verification failed: transaction does not carry a signature section")
	}
	if !h.verifySig(signer, tx.HeaderHash(), sec.Signature) {
		return fmt.Errorf("header signature verification failed: invalid signature")
	}
	return nil
}

func (h *Handler) verifySig(pub types.PublicKey, headerHash types.Hash32, sig types.EdSignature) bool {
	key := types.Hash32(hash.Sum(headerHash.Bytes(), pub.Bytes(), sig.Bytes()))
	if valid, ok := h.sigCache.Get(key); ok {
		return valid
	}
	valid := h.verifier.Verify(signing.TX, pub, headerHash.Bytes(), sig)
	h.sigCache.Add(key, valid)
	return valid
}

// ResolveFeePayer resolves the account charged for a wrapper's fee. If the
// declared public key is the reserved shielded-pool sentinel key, the payer
// is the fixed shielded-pool address, so shielded transactions are not
// forced to reveal a payer identity merely to pay fees. Otherwise the payer
// is derived from the declared key.
func ResolveFeePayer(w *types.WrapperVariant) types.Address {
	if w.PK == types.ShieldedSentinelKey {
		return types.ShieldedPoolAddress
	}
	return w.FeePayer()
}

// powChecker is the default proof-of-work oracle. The solution is computed
// over the wrapper's ciphertext commitment, which is stable under attaching
// the solution itself.
type powChecker struct{}

func (powChecker) HasValidPow(w *types.WrapperVariant, difficulty uint8) bool {
	return w.PowSolution != nil && pow.Verify(w.CiphertextHash, w.PowSolution.Nonce, difficulty)
}
