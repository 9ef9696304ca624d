package txqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilchain/go-veilchain/common/types"
	"github.com/veilchain/go-veilchain/sql"
)

func newEntry(data []byte) *types.TxInQueue {
	inner := types.NewTx(&types.RawVariant{})
	inner.SetCode([]byte("wasm_code"))
	inner.SetData(data)
	return &types.TxInQueue{
		Wrapper: types.WrapperVariant{InnerTxHash: inner.HeaderHash()},
		InnerTx: *inner,
	}
}

func TestQueue_Order(t *testing.T) {
	db := sql.InMemory()
	defer db.Close()

	entries, err := All(db)
	require.NoError(t, err)
	require.Empty(t, entries)

	want := []*types.TxInQueue{
		newEntry([]byte("transaction data: A")),
		newEntry([]byte("transaction data: B")),
		newEntry([]byte("transaction data: C")),
	}
	for _, entry := range want {
		require.NoError(t, Add(db, entry))
	}

	entries, err = All(db)
	require.NoError(t, err)
	require.Len(t, entries, len(want))
	for i := range want {
		assert.Equal(t, *want[i], entries[i])
	}

	count, err := Count(db)
	require.NoError(t, err)
	assert.Equal(t, len(want), count)
}

func TestQueue_Clear(t *testing.T) {
	db := sql.InMemory()
	defer db.Close()

	require.NoError(t, Add(db, newEntry([]byte("transaction data"))))
	require.NoError(t, Clear(db))

	count, err := Count(db)
	require.NoError(t, err)
	assert.Zero(t, count)

	// regeneration restarts ordering from scratch
	want := newEntry([]byte("other data"))
	require.NoError(t, Add(db, want))
	entries, err := All(db)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, *want, entries[0])
}
