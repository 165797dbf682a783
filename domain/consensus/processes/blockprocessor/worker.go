package blockprocessor

import (
	"time"

	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
)

// run is the main loop of the processor. It alternates between
// verifying signatures of queued state blocks and writing batches of
// verified blocks to the ledger.
func (bp *blockProcessor) run() {
	defer bp.wg.Done()

	bp.lock.Lock()
	defer bp.lock.Unlock()

	for !bp.stopped {
		hasVerified := len(bp.forced) > 0 || len(bp.fastLane) > 0
		switch {
		case len(bp.signatureLane) >= bp.config.SignatureCheckBatchSize,
			len(bp.signatureLane) > 0 && !hasVerified:

			bp.verifySignatureBatch()

		case hasVerified:
			bp.active = true
			bp.lock.Unlock()
			err := bp.processBatch()
			bp.lock.Lock()
			if err != nil {
				panic(err)
			}
			bp.active = false
			bp.cond.Broadcast()

		default:
			bp.cond.Wait()
		}
	}
}

// verifySignatureBatch verifies the signatures of the next batch in the
// signature lane and moves the blocks that passed to the fast lane. It
// must be called with the lock held, and releases it while verifying.
func (bp *blockProcessor) verifySignatureBatch() {
	count := len(bp.signatureLane)
	if count > bp.config.SignatureCheckBatchSize {
		count = bp.config.SignatureCheckBatchSize
	}
	batch := make([]*queuedBlock, count)
	copy(batch, bp.signatureLane[:count])
	bp.signatureLane = bp.signatureLane[count:]
	bp.inFlight += count

	bp.lock.Unlock()
	blocks := make([]externalapi.DomainBlock, count)
	for i, item := range batch {
		blocks[i] = item.block
	}
	results := bp.signatureVerifier.VerifyBatch(blocks)
	bp.lock.Lock()

	bp.inFlight -= count
	for i, item := range batch {
		if results[i] == externalapi.SignatureVerificationInvalid {
			log.Debugf("Dropping block %s with an invalid signature", item.blockHash)
			bp.statsSink.Inc(model.StatTypeBlockProcessor, "bad_signature", model.StatDirIn)
			continue
		}
		item.verification = results[i]
		bp.fastLane = append(bp.fastLane, item)
	}
	bp.cond.Broadcast()
}

// popNext returns the next block to write, forced blocks first. It
// returns nil when there is nothing left to write.
func (bp *blockProcessor) popNext() *queuedBlock {
	bp.lock.Lock()
	defer bp.lock.Unlock()

	if len(bp.forced) > 0 {
		item := bp.forced[0]
		bp.forced = bp.forced[1:]
		return item
	}
	if len(bp.fastLane) > 0 {
		item := bp.fastLane[0]
		bp.fastLane = bp.fastLane[1:]
		return item
	}
	return nil
}

func (bp *blockProcessor) runUncheckedCleanup() {
	defer bp.wg.Done()

	ticker := time.NewTicker(bp.config.UncheckedCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-bp.stop:
			return
		case <-ticker.C:
			removed, err := bp.CleanupUnchecked(bp.config.UncheckedCutoff)
			if err != nil {
				panic(err)
			}
			if removed > 0 {
				log.Infof("Dropped %d unchecked blocks older than %s", removed, bp.config.UncheckedCutoff)
			}
		}
	}
}
