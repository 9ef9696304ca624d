package proposals

import (
	"github.com/veilchain/go-veilchain/common/types"
)

// queueCursor is the single forward-only cursor over the decryption-order
// queue fixed by the previous block. One cursor is threaded through the
// whole classification sequence of a proposal; it advances only when a
// decrypted-variant transaction consumes an entry, and no entry is matched
// twice.
type queueCursor struct {
	entries []types.TxInQueue
	pos     int
}

func newQueueCursor(entries []types.TxInQueue) *queueCursor {
	return &queueCursor{entries: entries}
}

// next consumes and returns the next unconsumed entry.
func (c *queueCursor) next() (*types.TxInQueue, bool) {
	if c.pos >= len(c.entries) {
		return nil, false
	}
	entry := &c.entries[c.pos]
	c.pos++
	return entry, true
}

// remaining returns the number of unconsumed entries.
func (c *queueCursor) remaining() int {
	return len(c.entries) - c.pos
}
