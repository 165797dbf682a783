package testapi

import (
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/dagconfig"
	"github.com/prometheus/client_golang/prometheus"
)

// TestConsensus wraps the Consensus interface with some methods that are needed by tests only
type TestConsensus interface {
	externalapi.Consensus

	DAGParams() *dagconfig.Params
	DatabaseContext() model.DBManager

	// ProcessAndFlush queues blocks as live blocks and waits until the
	// processor handled all of them
	ProcessAndFlush(blocks ...externalapi.DomainBlock) error

	// StatsCounter returns the counter of the given ledger events
	StatsCounter(statType model.StatType, detail string, dir model.StatDir) prometheus.Counter

	BlockStore() model.BlockStore
	AccountStore() model.AccountStore
	PendingStore() model.PendingStore
	ConfirmationHeightStore() model.ConfirmationHeightStore
	UncheckedStore() model.UncheckedStore

	BlockValidator() model.BlockValidator
	BlockProcessor() model.BlockProcessor
	ConfirmationHeightProcessor() model.ConfirmationHeightProcessor
	LedgerRollback() model.LedgerRollback
	LedgerWriter() model.LedgerWriter
	WorkOracle() model.WorkOracle
}
