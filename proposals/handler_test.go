package proposals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/veilchain/go-veilchain/common/types"
	"github.com/veilchain/go-veilchain/pow"
	"github.com/veilchain/go-veilchain/signing"
	"github.com/veilchain/go-veilchain/sql"
	"github.com/veilchain/go-veilchain/sql/accounts"
	"github.com/veilchain/go-veilchain/sql/params"
	"github.com/veilchain/go-veilchain/sql/txqueue"
)

const (
	testWrapperFee    = 100
	testPowDifficulty = 8
)

var testToken = types.GenerateAddress([]byte("native-token"))

type testHandler struct {
	*Handler
	db     *sql.Database
	signer *signing.EdSigner
}

func createTestHandler(t *testing.T, cfg Config, opts ...Opt) *testHandler {
	t.Helper()
	db := sql.InMemory()
	t.Cleanup(func() { db.Close() })
	require.NoError(t, params.Set(db, params.Params{
		NativeToken:   testToken,
		WrapperFee:    testWrapperFee,
		PowDifficulty: testPowDifficulty,
	}))

	signer, err := signing.NewEdSigner(signing.WithPrefix([]byte(cfg.ChainID)))
	require.NoError(t, err)

	handler, err := NewHandler(db, cfg, append(opts, WithLogger(zaptest.NewLogger(t)))...)
	require.NoError(t, err)
	return &testHandler{Handler: handler, db: db, signer: signer}
}

// newInnerTx builds the plaintext transaction a wrapper commits to reveal.
func newInnerTx(cfg Config, data []byte) *types.Tx {
	inner := types.NewTx(&types.RawVariant{})
	inner.Header.ChainID = cfg.ChainID
	inner.SetCode([]byte("wasm_code"))
	inner.SetData(data)
	return inner
}

// newWrapperTx builds a signed wrapper over inner. The ciphertext stands in
// for the threshold-encrypted payload; only its commitment matters here.
func newWrapperTx(t *testing.T, cfg Config, signer *signing.EdSigner, feeAmount uint64, inner *types.Tx) (*types.Tx, *types.WrapperVariant) {
	t.Helper()
	w := &types.WrapperVariant{
		Fee:         types.Fee{Amount: feeAmount, Token: testToken},
		PK:          signer.PublicKey(),
		Epoch:       0,
		GasLimit:    0,
		InnerTxHash: inner.HeaderHash(),
	}
	tx := types.NewTx(w)
	tx.Header.ChainID = cfg.ChainID
	tx.SetCiphertext(inner.Bytes())
	signTx(signer, tx)
	return tx, w
}

func signTx(signer *signing.EdSigner, tx *types.Tx) {
	sig := signer.Sign(signing.TX, tx.HeaderHash().Bytes())
	tx.AppendSignature(signer.PublicKey(), sig)
}

// newDecryptedTx builds the revealed form of inner as submitted in the block
// following the wrapper's admission.
func newDecryptedTx(cfg Config, inner *types.Tx) *types.Tx {
	dec := types.NewTx(&types.DecryptedVariant{
		HeaderHash: inner.HeaderHash(),
		CodeHash:   inner.Header.CodeHash,
		DataHash:   inner.Header.DataHash,
	})
	dec.Header.ChainID = cfg.ChainID
	if code := inner.CodeSection(); code != nil {
		dec.SetCode(code.Data)
	}
	if data := inner.DataSection(); data != nil {
		dec.SetData(data.Data)
	}
	return dec
}

func enqueueTx(t *testing.T, db sql.Executor, w *types.WrapperVariant, inner *types.Tx) {
	t.Helper()
	require.NoError(t, txqueue.Add(db, &types.TxInQueue{Wrapper: *w, InnerTx: *inner}))
}

func processOne(t *testing.T, th *testHandler, tx *types.Tx) types.TxResult {
	t.Helper()
	resp, err := th.ProcessProposal(context.Background(), Request{Height: 1, Txs: [][]byte{tx.Bytes()}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	return resp.Results[0]
}

func TestProcessProposal_UndeserializableTx(t *testing.T) {
	th := createTestHandler(t, DefaultConfig())
	resp, err := th.ProcessProposal(context.Background(), Request{Height: 1, Txs: [][]byte{[]byte("garbage data")}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, types.CodeInvalidTx, resp.Results[0].Code)
	assert.Equal(t, "the submitted transaction was not deserializable", resp.Results[0].Info)
	assert.Equal(t, types.ProposalAccepted, resp.Status)
}

func TestProcessProposal_RawTxRejected(t *testing.T) {
	th := createTestHandler(t, DefaultConfig())
	tx := types.NewTx(&types.RawVariant{})
	tx.SetCode([]byte("wasm_code"))
	tx.SetData([]byte("transaction data"))

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidTx, result.Code)
	assert.Equal(t, "transaction rejected: non-encrypted transactions are not supported", result.Info)
}

func TestProcessProposal_ProtocolTxRejected(t *testing.T) {
	th := createTestHandler(t, DefaultConfig())
	tx := types.NewTx(&types.ProtocolVariant{})
	tx.SetData([]byte("protocol payload"))
	signTx(th.signer, tx)

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidTx, result.Code)
	assert.Equal(t, "protocol transactions are not supported yet", result.Info)
}

func TestProcessProposal_UnsignedWrapperRejected(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	tx, _ := newWrapperTx(t, cfg, th.signer, 0, inner)
	// drop the signature section
	tx.Sections = tx.Sections[:len(tx.Sections)-1]

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidSig, result.Code)
	assert.Equal(t, "header signature verification failed: transaction does not carry a signature section", result.Info)
}

func TestProcessProposal_WrapperBadSignatureRejected(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	tx, w := newWrapperTx(t, cfg, th.signer, 100, inner)
	// mount a malleability attack to try and remove the fee
	w.Fee.Amount = 0

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidSig, result.Code)
	assert.Equal(t, "header signature verification failed: invalid signature", result.Info)
}

func TestProcessProposal_SectionCommitmentMismatch(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	dec := newDecryptedTx(cfg, inner)
	// tamper with the code section without touching the header
	dec.CodeSection().Data = []byte("other code")

	result := processOne(t, th, dec)
	assert.Equal(t, types.CodeInvalidSig, result.Code)
	assert.Equal(t, "code section does not match the header commitment", result.Info)
}

func TestProcessProposal_WrapperInvalidCiphertext(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	tx, w := newWrapperTx(t, cfg, th.signer, 0, inner)
	// break the commitment after signing would trip the signature check
	// instead, so rebuild with a mismatched ciphertext section
	tx = types.NewTx(w)
	tx.Header.ChainID = cfg.ChainID
	tx.Sections = append(tx.Sections, types.Section{Kind: types.SectionCiphertext, Data: []byte("mismatched ciphertext bytes")})
	signTx(th.signer, tx)

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidTx, result.Code)
	assert.Contains(t, result.Info, "the ciphertext of the wrapped tx")
}

func TestProcessProposal_WrapperInsufficientBalance(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	tx, w := newWrapperTx(t, cfg, th.signer, testWrapperFee, inner)
	require.NoError(t, accounts.Update(th.db, testToken, ResolveFeePayer(w), testWrapperFee-1))

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidTx, result.Code)
	assert.Equal(t, "the address given does not have sufficient balance to pay fee", result.Info)

	// raising the balance to the required fee flips the result
	require.NoError(t, accounts.Update(th.db, testToken, ResolveFeePayer(w), testWrapperFee))
	result = processOne(t, th, tx)
	assert.Equal(t, types.CodeOk, result.Code)
}

func TestProcessProposal_WrapperUnknownAddress(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	tx, _ := newWrapperTx(t, cfg, th.signer, 1, inner)

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidTx, result.Code)
	assert.Equal(t, "the address given does not have sufficient balance to pay fee", result.Info)
}

func TestProcessProposal_ShieldedPoolFeePayer(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	signer, err := signing.ShieldedPoolSigner(signing.WithPrefix([]byte(cfg.ChainID)))
	require.NoError(t, err)
	require.Equal(t, types.ShieldedSentinelKey, signer.PublicKey())

	inner := newInnerTx(cfg, []byte("shielded transaction data"))
	tx, w := newWrapperTx(t, cfg, signer, testWrapperFee, inner)
	require.Equal(t, types.ShieldedPoolAddress, ResolveFeePayer(w))

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidTx, result.Code)

	// fees are drawn from the pool, not from the sentinel-derived address
	require.NoError(t, accounts.Update(th.db, testToken, types.ShieldedPoolAddress, testWrapperFee))
	result = processOne(t, th, tx)
	assert.Equal(t, types.CodeOk, result.Code)
}

func TestProcessProposal_PowBypassOnTestnet(t *testing.T) {
	cfg := DefaultTestConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))

	w := &types.WrapperVariant{
		Fee:         types.Fee{Amount: testWrapperFee, Token: testToken},
		PK:          th.signer.PublicKey(),
		InnerTxHash: inner.HeaderHash(),
	}
	tx := types.NewTx(w)
	tx.Header.ChainID = cfg.ChainID
	tx.SetCiphertext(inner.Bytes())
	nonce, err := pow.Find(w.CiphertextHash, testPowDifficulty, 1<<24)
	require.NoError(t, err)
	w.PowSolution = &types.PowSolution{Nonce: nonce}
	signTx(th.signer, tx)

	// no balance at all, the solution alone admits the wrapper
	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeOk, result.Code)
}

func TestProcessProposal_PowIgnoredOnMainnet(t *testing.T) {
	cfg := DefaultConfig()
	ctrl := gomock.NewController(t)
	pows := NewMockpowVerifier(ctrl)
	// no EXPECT: the oracle must not be consulted on mainnet
	th := createTestHandler(t, cfg, WithPowVerifier(pows))
	inner := newInnerTx(cfg, []byte("transaction data"))
	tx, w := newWrapperTx(t, cfg, th.signer, testWrapperFee, inner)
	w.PowSolution = &types.PowSolution{Nonce: 7}
	// re-sign with the solution attached
	tx.Sections = tx.Sections[:len(tx.Sections)-1]
	signTx(th.signer, tx)

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidTx, result.Code)
}

func TestProcessProposal_DecryptedTxAccepted(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	_, w := newWrapperTx(t, cfg, th.signer, 0, inner)
	enqueueTx(t, th.db, w, inner)

	result := processOne(t, th, newDecryptedTx(cfg, inner))
	assert.Equal(t, types.CodeOk, result.Code)
	assert.Equal(t, "process proposal accepted this transaction", result.Info)
}

func TestProcessProposal_DecryptedTxsOutOfOrder(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	var decrypted []*types.Tx
	for _, data := range []string{"transaction data: A", "transaction data: B", "transaction data: C"} {
		inner := newInnerTx(cfg, []byte(data))
		_, w := newWrapperTx(t, cfg, th.signer, 0, inner)
		enqueueTx(t, th.db, w, inner)
		decrypted = append(decrypted, newDecryptedTx(cfg, inner))
	}

	// in order, the first entry is accepted
	result := processOne(t, th, decrypted[0])
	assert.Equal(t, types.CodeOk, result.Code)

	// skipping ahead violates the order fixed by the previous block
	result = processOne(t, th, decrypted[2])
	assert.Equal(t, types.CodeInvalidOrder, result.Code)
	assert.Equal(t,
		"process proposal rejected a decrypted transaction that violated the tx order determined in the previous block",
		result.Info)
}

func TestProcessProposal_CursorAdvancesOnMismatch(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	var decrypted []*types.Tx
	for _, data := range []string{"transaction data: A", "transaction data: B"} {
		inner := newInnerTx(cfg, []byte(data))
		_, w := newWrapperTx(t, cfg, th.signer, 0, inner)
		enqueueTx(t, th.db, w, inner)
		decrypted = append(decrypted, newDecryptedTx(cfg, inner))
	}

	// B against A mismatches and still consumes A's entry, so the
	// following A claim is matched against B's entry
	resp, err := th.ProcessProposal(context.Background(), Request{
		Height: 1,
		Txs:    [][]byte{decrypted[1].Bytes(), decrypted[0].Bytes()},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, types.CodeInvalidOrder, resp.Results[0].Code)
	assert.Equal(t, types.CodeInvalidOrder, resp.Results[1].Code)
	assert.Equal(t, types.ProposalRejected, resp.Status)
}

func TestProcessProposal_TooManyDecryptedTxs(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))

	resp, err := th.ProcessProposal(context.Background(), Request{
		Height: 1,
		Txs:    [][]byte{newDecryptedTx(cfg, inner).Bytes()},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, types.CodeExtraTxs, resp.Results[0].Code)
	assert.Equal(t, "received more decrypted txs than expected", resp.Results[0].Info)
	assert.Equal(t, types.ProposalRejected, resp.Status)
}

func TestProcessProposal_IncorrectlyLabelledUndecryptable(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	_, w := newWrapperTx(t, cfg, th.signer, 0, inner)
	enqueueTx(t, th.db, w, inner)

	tx := types.NewTx(&types.UndecryptableVariant{Wrapper: *w})
	tx.Header.ChainID = cfg.ChainID

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeInvalidTx, result.Code)
	assert.Equal(t, "the encrypted payload of tx was incorrectly marked as un-decryptable", result.Info)
}

func TestProcessProposal_InvalidHashCommitmentUndecryptable(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	// an inner tx whose header commitments do not match its sections can
	// never open; marking it undecryptable is the truth
	inner := newInnerTx(cfg, []byte("transaction data"))
	inner.Header.CodeHash = types.Hash32{}
	inner.Header.DataHash = types.Hash32{}
	_, w := newWrapperTx(t, cfg, th.signer, 0, inner)
	enqueueTx(t, th.db, w, inner)

	tx := types.NewTx(&types.UndecryptableVariant{Wrapper: *w})
	tx.Header.ChainID = cfg.ChainID

	result := processOne(t, th, tx)
	assert.Equal(t, types.CodeOk, result.Code)
}

func TestProcessProposal_DecryptionOracleDisagrees(t *testing.T) {
	cfg := DefaultConfig()
	ctrl := gomock.NewController(t)
	decryption := NewMockdecryptionVerifier(ctrl)
	th := createTestHandler(t, cfg, WithDecryptionVerifier(decryption))
	inner := newInnerTx(cfg, []byte("transaction data"))
	_, w := newWrapperTx(t, cfg, th.signer, 0, inner)
	enqueueTx(t, th.db, w, inner)

	decryption.EXPECT().VerifyDecryptedCorrectly(gomock.Any(), gomock.Any()).Return(false)
	result := processOne(t, th, newDecryptedTx(cfg, inner))
	assert.Equal(t, types.CodeInvalidTx, result.Code)
}

func TestProcessProposal_ResultsPreserveInputOrder(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	_, w := newWrapperTx(t, cfg, th.signer, 0, inner)
	enqueueTx(t, th.db, w, inner)

	raw := types.NewTx(&types.RawVariant{})
	raw.SetData([]byte("raw data"))

	funded, fw := newWrapperTx(t, cfg, th.signer, testWrapperFee, newInnerTx(cfg, []byte("other data")))
	require.NoError(t, accounts.Update(th.db, testToken, ResolveFeePayer(fw), testWrapperFee))

	txs := [][]byte{
		raw.Bytes(),
		funded.Bytes(),
		newDecryptedTx(cfg, inner).Bytes(),
		[]byte("garbage data"),
	}
	resp, err := th.ProcessProposal(context.Background(), Request{Height: 7, Txs: txs})
	require.NoError(t, err)
	require.Len(t, resp.Results, len(txs))
	assert.Equal(t, types.CodeInvalidTx, resp.Results[0].Code)
	assert.Equal(t, types.CodeOk, resp.Results[1].Code)
	assert.Equal(t, types.CodeOk, resp.Results[2].Code)
	assert.Equal(t, types.CodeInvalidTx, resp.Results[3].Code)
	// low-severity failures alone never reject the block
	assert.Equal(t, types.ProposalAccepted, resp.Status)
}

func TestProcessProposal_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	th := createTestHandler(t, cfg)
	inner := newInnerTx(cfg, []byte("transaction data"))
	_, w := newWrapperTx(t, cfg, th.signer, 0, inner)
	enqueueTx(t, th.db, w, inner)

	req := Request{Height: 3, Txs: [][]byte{
		newDecryptedTx(cfg, inner).Bytes(),
		types.NewTx(&types.RawVariant{}).Bytes(),
	}}
	first, err := th.ProcessProposal(context.Background(), req)
	require.NoError(t, err)
	second, err := th.ProcessProposal(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProcessProposal_InternalFaultAborts(t *testing.T) {
	cfg := DefaultConfig()
	db := sql.InMemory()
	t.Cleanup(func() { db.Close() })
	// protocol params never initialized
	handler, err := NewHandler(db, cfg, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	signer, err := signing.NewEdSigner(signing.WithPrefix([]byte(cfg.ChainID)))
	require.NoError(t, err)

	inner := newInnerTx(cfg, []byte("transaction data"))
	tx, _ := newWrapperTx(t, cfg, signer, 0, inner)

	_, err = handler.ProcessProposal(context.Background(), Request{Height: 1, Txs: [][]byte{tx.Bytes()}})
	require.Error(t, err)
	require.True(t, errors.Is(err, sql.ErrNotFound))
}

func TestVerifyHeaderAndRevertAreStateless(t *testing.T) {
	th := createTestHandler(t, DefaultConfig())
	require.NoError(t, th.VerifyHeader(context.Background()))
	require.NoError(t, th.RevertProposal(context.Background()))
}

func TestResolveFeePayer(t *testing.T) {
	signer, err := signing.NewEdSigner()
	require.NoError(t, err)
	w := &types.WrapperVariant{PK: signer.PublicKey()}
	assert.Equal(t, types.GenerateAddress(signer.PublicKey().Bytes()), ResolveFeePayer(w))

	w.PK = types.ShieldedSentinelKey
	assert.Equal(t, types.ShieldedPoolAddress, ResolveFeePayer(w))
}
