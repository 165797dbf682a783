package blockprocessor

import (
	"time"

	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/ruleerrors"
	"github.com/latticenet/latticed/domain/consensus/utils/writequeue"
	"github.com/latticenet/latticed/util/mstime"
)

// park stores a block that is missing a dependency until the dependency
// is accepted
func (bp *blockProcessor) park(dbTx model.DBTransaction, item *queuedBlock, ruleErr error) error {
	dependency, ok := ruleerrors.MissingDependency(ruleErr)
	if !ok || dependency.IsZero() {
		log.Debugf("Dropping block %s, which depends on nothing that can arrive: %s", item.blockHash, ruleErr)
		return nil
	}

	err := bp.uncheckedStore.Put(dbTx,
		&externalapi.UncheckedKey{Dependency: dependency, Hash: item.blockHash},
		&externalapi.UncheckedInfo{
			Block:    item.block,
			Arrival:  item.arrival,
			Verified: item.verification,
			Source:   item.source,
		})
	if err != nil {
		return err
	}
	log.Debugf("Parked block %s until %s arrives", item.blockHash, dependency)
	bp.statsSink.Inc(model.StatTypeUnchecked, "put", model.StatDirIn)
	return nil
}

// releaseDependents removes the blocks waiting for blockHash from the
// unchecked table. They are queued again with the source they arrived
// with once the batch is committed.
func (bp *blockProcessor) releaseDependents(dbTx model.DBTransaction, blockHash externalapi.DomainHash,
	result *batchResult) error {

	dependents, err := bp.uncheckedStore.Dependents(dbTx, blockHash)
	if err != nil {
		return err
	}
	for _, dependent := range dependents {
		err := bp.uncheckedStore.Delete(dbTx, dependent.Key)
		if err != nil {
			return err
		}
		result.requeue = append(result.requeue, newQueuedBlock(dependent.Info.Block,
			dependent.Info.Source, dependent.Info.Verified, dependent.Info.Arrival))
		bp.statsSink.Inc(model.StatTypeUnchecked, "satisfied", model.StatDirOut)
	}
	return nil
}

// CleanupUnchecked drops parked blocks that arrived more than cutoff
// ago, and returns how many were dropped
func (bp *blockProcessor) CleanupUnchecked(cutoff time.Duration) (int, error) {
	guard := bp.writeQueue.Acquire(writequeue.WriterProcessor)
	defer guard.Release()

	dbTx, err := bp.databaseContext.Begin()
	if err != nil {
		return 0, err
	}
	defer dbTx.RollbackUnlessClosed()

	entries, err := bp.uncheckedStore.All(dbTx)
	if err != nil {
		return 0, err
	}
	oldestAllowed := mstime.NowUnixMilli() - cutoff.Milliseconds()
	removed := 0
	for _, entry := range entries {
		if entry.Info.Arrival >= oldestAllowed {
			continue
		}
		err := bp.uncheckedStore.Delete(dbTx, entry.Key)
		if err != nil {
			return 0, err
		}
		removed++
	}

	err = dbTx.Commit()
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		bp.statsSink.Add(model.StatTypeUnchecked, "cleanup", model.StatDirOut, uint64(removed))
	}
	return removed, nil
}
