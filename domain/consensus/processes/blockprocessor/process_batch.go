package blockprocessor

import (
	"time"

	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/processes/ledgerrollback"
	"github.com/latticenet/latticed/domain/consensus/ruleerrors"
	"github.com/latticenet/latticed/domain/consensus/utils/writequeue"
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/pkg/errors"
)

// batchResult collects what observers and the queues need to hear
// about once a batch is committed
type batchResult struct {
	accepted   int
	live       []*model.BlockDelta
	rolledBack []*model.RolledBackBlock
	requeue    []*queuedBlock
}

// processBatch writes queued blocks to the ledger in a single
// transaction, until the batch is full, BatchMaxTime passed, or the
// queues are empty
func (bp *blockProcessor) processBatch() error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "processBatch")
	defer onEnd()

	guard := bp.writeQueue.Acquire(writequeue.WriterProcessor)
	defer guard.Release()

	dbTx, err := bp.databaseContext.Begin()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	result := &batchResult{}
	deadline := time.Now().Add(bp.config.BatchMaxTime)
	processed := 0
	for processed < bp.config.BatchSize && (processed == 0 || time.Now().Before(deadline)) {
		item := bp.popNext()
		if item == nil {
			break
		}
		processed++

		err := bp.processBlock(dbTx, item, result)
		if err != nil {
			return errors.Wrapf(err, "failed processing block %s", item.blockHash)
		}
	}

	err = dbTx.Commit()
	if err != nil {
		return err
	}
	guard.Release()

	log.Debugf("Processed %d blocks, %d accepted, %d rolled back", processed, result.accepted, len(result.rolledBack))

	bp.notifyObservers(result)
	for _, item := range result.requeue {
		bp.enqueue(item)
	}
	return nil
}

func (bp *blockProcessor) processBlock(dbTx model.DBTransaction, item *queuedBlock, result *batchResult) error {
	if item.source == externalapi.BlockSourceForced {
		err := bp.rollbackCompetitor(dbTx, item, result)
		if err != nil {
			return err
		}
	} else if bp.recentlyRolledBack.Contains(item.blockHash) {
		log.Debugf("Ignoring block %s, which was rolled back", item.blockHash)
		bp.statsSink.Inc(model.StatTypeBlockProcessor, "rolled_back_ignored", model.StatDirIn)
		return nil
	}

	delta, err := bp.blockValidator.ValidateBlock(dbTx, item.block, item.verification)
	if err != nil {
		return bp.handleRejection(dbTx, item, err)
	}

	err = bp.ledgerWriter.ApplyDelta(dbTx, delta)
	if err != nil {
		return err
	}
	log.Tracef("Accepted block %s at height %d of account %s from %s",
		delta.BlockHash, delta.Block.Height(), delta.Account, item.source)
	bp.statsSink.Inc(model.StatTypeLedger, "progress", model.StatDirIn)
	bp.statsSink.Inc(model.StatTypeLedger, item.block.Type().String(), model.StatDirIn)
	bp.blockLogger.LogBlock(delta.Block)

	result.accepted++
	if item.source == externalapi.BlockSourceLive {
		result.live = append(result.live, delta)
	}
	return bp.releaseDependents(dbTx, item.blockHash, result)
}

func (bp *blockProcessor) handleRejection(dbTx model.DBTransaction, item *queuedBlock, err error) error {
	ruleErr, ok := ruleerrors.AsRuleError(err)
	if !ok {
		return err
	}
	bp.statsSink.Inc(model.StatTypeLedger, ruleErr.Detail(), model.StatDirIn)

	switch {
	case errors.Is(err, ruleerrors.ErrGapPrevious), errors.Is(err, ruleerrors.ErrGapSource):
		return bp.park(dbTx, item, err)
	case errors.Is(err, ruleerrors.ErrOld):
		return bp.updateWork(dbTx, item)
	case errors.Is(err, ruleerrors.ErrFork):
		log.Debugf("Block %s from %s is a fork: %s", item.blockHash, item.source, err)
	default:
		log.Debugf("Rejected block %s from %s: %s", item.blockHash, item.source, err)
	}
	return nil
}

// rollbackCompetitor removes the block occupying the chain position of
// a forced block, together with everything that depends on it
func (bp *blockProcessor) rollbackCompetitor(dbTx model.DBTransaction, item *queuedBlock, result *batchResult) error {
	bp.recentlyRolledBack.Remove(item.blockHash)

	occupant, err := bp.occupant(dbTx, item.block)
	if err != nil {
		return err
	}
	if occupant.IsZero() || occupant == item.blockHash {
		return nil
	}

	rolledBack, err := bp.ledgerRollback.Rollback(dbTx, occupant)
	if err != nil {
		if errors.Is(err, ledgerrollback.ErrRollbackCemented) {
			log.Warnf("Not replacing block %s with forced block %s: %s", occupant, item.blockHash, err)
			bp.statsSink.Inc(model.StatTypeRollback, "cemented", model.StatDirIn)
			return nil
		}
		return err
	}

	log.Infof("Rolled back %d blocks to replace block %s with forced block %s",
		len(rolledBack), occupant, item.blockHash)
	for _, block := range rolledBack {
		bp.recentlyRolledBack.Add(block.Hash, struct{}{})
		bp.statsSink.Inc(model.StatTypeRollback, block.Block.Block.Type().String(), model.StatDirOut)
	}
	result.rolledBack = append(result.rolledBack, rolledBack...)
	return nil
}

// occupant returns the hash of the block currently at the chain
// position block wants, or the zero hash if the position is free
func (bp *blockProcessor) occupant(dbContext model.DBReader, block externalapi.DomainBlock) (externalapi.DomainHash, error) {
	previous := block.Previous()
	if previous.IsZero() {
		account, ok := block.Account()
		if !ok {
			return externalapi.ZeroHash, nil
		}
		hasAccount, err := bp.accountStore.HasAccount(dbContext, account)
		if err != nil || !hasAccount {
			return externalapi.ZeroHash, err
		}
		accountInfo, err := bp.accountStore.AccountInfo(dbContext, account)
		if err != nil {
			return externalapi.ZeroHash, err
		}
		return accountInfo.Open, nil
	}

	exists, err := bp.blockStore.HasBlock(dbContext, previous)
	if err != nil || !exists {
		return externalapi.ZeroHash, err
	}
	previousBlock, err := bp.blockStore.Block(dbContext, previous)
	if err != nil {
		return externalapi.ZeroHash, err
	}
	return previousBlock.Sideband.Successor, nil
}

// updateWork replaces the work of a stored block when the same block
// arrives again with work of a higher difficulty
func (bp *blockProcessor) updateWork(dbTx model.DBTransaction, item *queuedBlock) error {
	stored, err := bp.blockStore.Block(dbTx, item.blockHash)
	if err != nil {
		return err
	}
	if stored.Block.Work() == item.block.Work() ||
		bp.workOracle.Difficulty(item.block) <= bp.workOracle.Difficulty(stored.Block) {
		return nil
	}

	updated := stored.Block.Clone()
	updated.SetWork(item.block.Work())
	err = bp.blockStore.Put(dbTx, item.blockHash, &externalapi.BlockWithSideband{
		Block:    updated,
		Sideband: stored.Sideband,
	})
	if err != nil {
		return err
	}
	log.Debugf("Updated the work of block %s", item.blockHash)
	bp.statsSink.Inc(model.StatTypeBlockProcessor, "work_updated", model.StatDirIn)
	return nil
}

func (bp *blockProcessor) notifyObservers(result *batchResult) {
	if len(result.rolledBack) == 0 && len(result.live) == 0 {
		return
	}
	observers := bp.blockObservers()
	for _, rolledBack := range result.rolledBack {
		for _, observer := range observers {
			observer.OnBlockRolledBack(rolledBack.Block, rolledBack.Hash)
		}
	}
	for _, delta := range result.live {
		for _, observer := range observers {
			observer.OnLiveBlock(delta.Block, delta.BlockHash)
		}
	}
}
