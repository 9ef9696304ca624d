package proposals

import (
	"github.com/veilchain/go-veilchain/metrics"
)

const subsystem = "proposals"

var (
	// processedTxs counts classified transactions by result code.
	processedTxs = metrics.NewCounter(
		"txs",
		subsystem,
		"number of transactions classified during proposal validation",
		[]string{"code"},
	)

	// processedProposals counts validated proposals by verdict.
	processedProposals = metrics.NewCounter(
		"proposals",
		subsystem,
		"number of block proposals validated",
		[]string{"status"},
	)
)
