// Package txqueue persists the decryption-order queue: the ordered
// commitment, fixed by the previous block, of which wrapped transactions
// will be revealed and in what sequence.
//
// Block production appends entries in decryption order when a block is
// committed; the next proposal cycle reads them back FIFO and matches
// decrypted transactions against them position by position. The queue is
// regenerated wholesale on every commit.
package txqueue

import (
	"fmt"

	"github.com/veilchain/go-veilchain/codec"
	"github.com/veilchain/go-veilchain/common/types"
	"github.com/veilchain/go-veilchain/sql"
)

// Add appends an entry at the tail of the queue.
func Add(db sql.Executor, entry *types.TxInQueue) error {
	buf, err := codec.Encode(entry)
	if err != nil {
		return fmt.Errorf("encode queue entry: %w", err)
	}
	if _, err := db.Exec("insert into tx_queue (entry) values (?1);",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, buf)
		}, nil,
	); err != nil {
		return fmt.Errorf("add queue entry: %w", err)
	}
	return nil
}

// All returns the queue entries in commitment order.
func All(db sql.Executor) ([]types.TxInQueue, error) {
	var (
		entries []types.TxInQueue
		decErr  error
	)
	_, err := db.Exec("select entry from tx_queue order by position asc;",
		nil,
		func(stmt *sql.Statement) bool {
			buf := make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, buf)
			var entry types.TxInQueue
			if decErr = codec.Decode(buf, &entry); decErr != nil {
				return false
			}
			entries = append(entries, entry)
			return true
		},
	)
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	if decErr != nil {
		return nil, fmt.Errorf("decode queue entry: %w", decErr)
	}
	return entries, nil
}

// Clear removes all entries. Called when the queue is regenerated on block
// commit.
func Clear(db sql.Executor) error {
	if _, err := db.Exec("delete from tx_queue;", nil, nil); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

// Count returns the number of unconsumed entries.
func Count(db sql.Executor) (int, error) {
	var count int
	_, err := db.Exec("select count(*) from tx_queue;",
		nil,
		func(stmt *sql.Statement) bool {
			count = int(stmt.ColumnInt64(0))
			return false
		},
	)
	if err != nil {
		return 0, fmt.Errorf("count queue: %w", err)
	}
	return count, nil
}
