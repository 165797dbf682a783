package consensus

import (
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/dagconfig"
	"github.com/latticenet/latticed/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type testConsensus struct {
	*consensus
	statsSink *metrics.StatsSink
}

func (tc *testConsensus) DAGParams() *dagconfig.Params {
	return tc.params
}

func (tc *testConsensus) DatabaseContext() model.DBManager {
	return tc.databaseContext
}

func (tc *testConsensus) ProcessAndFlush(blocks ...externalapi.DomainBlock) error {
	for _, block := range blocks {
		err := tc.ProcessBlock(block, externalapi.BlockSourceLive)
		if err != nil {
			return err
		}
	}
	tc.Flush()
	return nil
}

func (tc *testConsensus) StatsCounter(statType model.StatType, detail string, dir model.StatDir) prometheus.Counter {
	return tc.statsSink.Counter(statType, detail, dir)
}

func (tc *testConsensus) BlockStore() model.BlockStore {
	return tc.blockStore
}

func (tc *testConsensus) AccountStore() model.AccountStore {
	return tc.accountStore
}

func (tc *testConsensus) PendingStore() model.PendingStore {
	return tc.pendingStore
}

func (tc *testConsensus) ConfirmationHeightStore() model.ConfirmationHeightStore {
	return tc.confirmationHeightStore
}

func (tc *testConsensus) UncheckedStore() model.UncheckedStore {
	return tc.uncheckedStore
}

func (tc *testConsensus) BlockValidator() model.BlockValidator {
	return tc.blockValidator
}

func (tc *testConsensus) BlockProcessor() model.BlockProcessor {
	return tc.blockProcessor
}

func (tc *testConsensus) ConfirmationHeightProcessor() model.ConfirmationHeightProcessor {
	return tc.confirmationHeightProcessor
}

func (tc *testConsensus) LedgerRollback() model.LedgerRollback {
	return tc.ledgerRollback
}

func (tc *testConsensus) LedgerWriter() model.LedgerWriter {
	return tc.ledgerWriter
}

func (tc *testConsensus) WorkOracle() model.WorkOracle {
	return tc.workOracle
}
