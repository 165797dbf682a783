package confirmationheight

import (
	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/writequeue"
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/pkg/errors"
)

// walkItem is a block to cement. Its chain is walked upwards from the
// lowest uncemented block, one batch at a time.
type walkItem struct {
	hash    externalapi.DomainHash
	account externalapi.DomainAccount
	height  uint64
	loaded  bool

	// next is the lowest block whose source was not checked yet
	next       externalapi.DomainHash
	nextHeight uint64

	// checked is the highest block whose source was checked
	checked       externalapi.DomainHash
	checkedHeight uint64
}

// cementedTip is the confirmation height of an account together with
// the block at that height
type cementedTip struct {
	height   uint64
	frontier externalapi.DomainHash
}

// pendingWrite raises the confirmation height of one account
type pendingWrite struct {
	account  externalapi.DomainAccount
	height   uint64
	frontier externalapi.DomainHash
}

type cementedBlock struct {
	hash  externalapi.DomainHash
	block *externalapi.BlockWithSideband
}

// cementingPass is the state of a single CementBlock call
type cementingPass struct {
	writeCache    map[externalapi.DomainAccount]cementedTip
	pendingWrites []*pendingWrite
	span          uint64
}

// CementBlock cements blockHash, every block below it in its account
// chain and, first, every send those blocks receive.
func (chp *confirmationHeightProcessor) CementBlock(blockHash externalapi.DomainHash) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "CementBlock")
	defer onEnd()

	pass := &cementingPass{writeCache: make(map[externalapi.DomainAccount]cementedTip)}
	stack := []*walkItem{{hash: blockHash}}

	for len(stack) > 0 {
		if chp.stopped.Load() {
			return chp.interrupt(pass)
		}

		item := stack[len(stack)-1]
		if !item.loaded {
			alreadyCemented, err := chp.load(pass, item)
			if err != nil {
				return err
			}
			if alreadyCemented {
				if len(stack) == 1 {
					chp.notifyAlreadyCemented(blockHash)
				}
				stack = stack[:len(stack)-1]
				continue
			}
		}

		source, err := chp.nextUncementedSource(pass, item)
		if err != nil {
			if errors.Is(err, ErrStopped) {
				return chp.interrupt(pass)
			}
			return err
		}
		err = chp.stage(pass, item)
		if err != nil {
			return err
		}
		if source != nil {
			stack = append(stack, source)
			continue
		}
		if item.nextHeight > item.height {
			stack = stack[:len(stack)-1]
		}
	}

	return chp.flush(pass)
}

// load finds the lowest uncemented block of the chain of item.hash. It
// returns true if item.hash itself is already cemented.
func (chp *confirmationHeightProcessor) load(pass *cementingPass, item *walkItem) (bool, error) {
	block, err := chp.block(item.hash)
	if err != nil {
		return false, err
	}
	item.account = block.Account()
	item.height = block.Height()

	tip, err := chp.cementedTip(pass, item.account)
	if err != nil {
		return false, err
	}
	if item.height <= tip.height {
		return true, nil
	}

	switch {
	case item.height == tip.height+1:
		item.next = item.hash
	case tip.height == 0:
		accountInfo, err := chp.accountStore.AccountInfo(chp.databaseContext, item.account)
		if err != nil {
			if database.IsNotFoundError(err) {
				return false, errors.Wrapf(ErrBlockVanished, "account %s", item.account)
			}
			return false, err
		}
		item.next = accountInfo.Open
	default:
		frontier, err := chp.block(tip.frontier)
		if err != nil {
			return false, err
		}
		item.next = frontier.Sideband.Successor
	}
	item.nextHeight = tip.height + 1
	item.checked = tip.frontier
	item.checkedHeight = tip.height
	item.loaded = true
	return false, nil
}

// nextUncementedSource checks the sources of the blocks of item from
// item.next upwards, at most a batch of them. It returns a walk item for
// the first source that is neither cemented nor staged, or nil if no
// such source was found.
func (chp *confirmationHeightProcessor) nextUncementedSource(pass *cementingPass, item *walkItem) (*walkItem, error) {
	for checked := 0; item.nextHeight <= item.height && checked < chp.batchSize; checked++ {
		if chp.stopped.Load() {
			return nil, ErrStopped
		}
		if item.next.IsZero() {
			return nil, errors.Wrapf(ErrBlockVanished, "block at height %d of account %s",
				item.nextHeight, item.account)
		}
		current, err := chp.block(item.next)
		if err != nil {
			return nil, err
		}
		if current.Account() != item.account || current.Height() != item.nextHeight {
			return nil, errors.Wrapf(ErrBlockVanished, "block at height %d of account %s",
				item.nextHeight, item.account)
		}

		if current.Sideband.Details.IsReceive {
			source, err := chp.uncementedSource(pass, item, current)
			if err != nil {
				return nil, err
			}
			if source != nil {
				return source, nil
			}
		}

		item.checked = item.next
		item.checkedHeight = item.nextHeight
		item.next = current.Sideband.Successor
		item.nextHeight++
	}
	return nil, nil
}

func (chp *confirmationHeightProcessor) uncementedSource(pass *cementingPass, item *walkItem,
	receive *externalapi.BlockWithSideband) (*walkItem, error) {

	sourceHash := receiveSource(receive.Block)
	source, err := chp.blockStore.Block(chp.databaseContext, sourceHash)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.Wrapf(ErrBlockVanished, "source %s of block %s", sourceHash, item.next)
		}
		return nil, err
	}
	// Sends to self are below the receive in the same chain
	if source.Account() == item.account {
		return nil, nil
	}

	tip, err := chp.cementedTip(pass, source.Account())
	if err != nil {
		return nil, err
	}
	if source.Height() > tip.height {
		return &walkItem{hash: sourceHash}, nil
	}
	return nil, nil
}

func (chp *confirmationHeightProcessor) block(blockHash externalapi.DomainHash) (*externalapi.BlockWithSideband, error) {
	block, err := chp.blockStore.Block(chp.databaseContext, blockHash)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.Wrapf(ErrBlockVanished, "block %s", blockHash)
		}
		return nil, err
	}
	return block, nil
}

// cementedTip returns the confirmation height of account, counting
// the writes staged by this pass
func (chp *confirmationHeightProcessor) cementedTip(pass *cementingPass, account externalapi.DomainAccount) (cementedTip, error) {
	if tip, ok := pass.writeCache[account]; ok {
		return tip, nil
	}
	info, err := chp.confirmationHeightStore.ConfirmationHeight(chp.databaseContext, account)
	if err != nil {
		return cementedTip{}, err
	}
	tip := cementedTip{height: info.Height, frontier: info.Frontier}
	pass.writeCache[account] = tip
	return tip, nil
}

// stage adds the checked blocks of item above the cached confirmation
// height of its account to the pending writes, flushing them once they
// span a full batch
func (chp *confirmationHeightProcessor) stage(pass *cementingPass, item *walkItem) error {
	tip := pass.writeCache[item.account]
	if item.checkedHeight <= tip.height {
		return nil
	}

	pass.pendingWrites = append(pass.pendingWrites, &pendingWrite{
		account:  item.account,
		height:   item.checkedHeight,
		frontier: item.checked,
	})
	pass.writeCache[item.account] = cementedTip{height: item.checkedHeight, frontier: item.checked}
	pass.span += item.checkedHeight - tip.height

	if pass.span >= uint64(chp.batchSize) {
		return chp.flush(pass)
	}
	return nil
}

// interrupt writes what was staged so far and reports the pass as stopped
func (chp *confirmationHeightProcessor) interrupt(pass *cementingPass) error {
	err := chp.flush(pass)
	if err != nil {
		return err
	}
	return ErrStopped
}

func receiveSource(block externalapi.DomainBlock) externalapi.DomainHash {
	if source, ok := block.Source(); ok {
		return source
	}
	link, _ := block.Link()
	return link
}

func (chp *confirmationHeightProcessor) notifyAlreadyCemented(blockHash externalapi.DomainHash) {
	log.Debugf("Block %s is already cemented", blockHash)
	chp.statsSink.Inc(model.StatTypeCementing, "already_cemented", model.StatDirIn)
	for _, observer := range chp.cementingObservers() {
		observer.OnBlockAlreadyCemented(blockHash)
	}
}

// flush writes the pending writes of pass in a single transaction and
// notifies the observers about every block it cemented
func (chp *confirmationHeightProcessor) flush(pass *cementingPass) error {
	if len(pass.pendingWrites) == 0 {
		return nil
	}

	guard := chp.writeQueue.Acquire(writequeue.WriterCementer)
	defer guard.Release()

	dbTx, err := chp.databaseContext.Begin()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	var cemented []*cementedBlock
	for _, write := range pass.pendingWrites {
		current, err := chp.confirmationHeightStore.ConfirmationHeight(dbTx, write.account)
		if err != nil {
			return err
		}
		if write.height <= current.Height {
			continue
		}
		blocks, err := chp.stagedBlocks(dbTx, write, current.Height)
		if err != nil {
			return err
		}
		err = chp.confirmationHeightStore.Put(dbTx, write.account, &externalapi.ConfirmationHeightInfo{
			Height:   write.height,
			Frontier: write.frontier,
		})
		if err != nil {
			return err
		}
		cemented = append(cemented, blocks...)
	}

	err = dbTx.Commit()
	if err != nil {
		return err
	}
	guard.Release()

	log.Debugf("Cemented %d blocks of %d accounts", len(cemented), len(pass.pendingWrites))
	pass.pendingWrites = nil
	pass.span = 0

	if len(cemented) == 0 {
		return nil
	}
	chp.statsSink.Add(model.StatTypeCementing, "blocks_confirmed", model.StatDirOut, uint64(len(cemented)))
	observers := chp.cementingObservers()
	for _, block := range cemented {
		for _, observer := range observers {
			observer.OnBlockCemented(block.block, block.hash)
		}
	}
	return nil
}

// stagedBlocks reads the blocks of write above cementedHeight, lowest
// first
func (chp *confirmationHeightProcessor) stagedBlocks(dbTx model.DBReader, write *pendingWrite,
	cementedHeight uint64) ([]*cementedBlock, error) {

	blocks := make([]*cementedBlock, write.height-cementedHeight)
	blockHash := write.frontier
	for i := len(blocks) - 1; i >= 0; i-- {
		block, err := chp.blockStore.Block(dbTx, blockHash)
		if err != nil {
			if database.IsNotFoundError(err) {
				return nil, errors.Wrapf(ErrBlockVanished, "block %s of account %s", blockHash, write.account)
			}
			return nil, err
		}
		blocks[i] = &cementedBlock{hash: blockHash, block: block}
		blockHash = block.Block.Previous()
	}
	return blocks, nil
}
