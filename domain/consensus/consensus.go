package consensus

import (
	"time"

	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/writequeue"
	"github.com/latticenet/latticed/domain/dagconfig"
)

type consensus struct {
	params          *dagconfig.Params
	databaseContext model.DBManager
	writeQueue      *writequeue.WriteQueue

	workOracle                  model.WorkOracle
	blockValidator              model.BlockValidator
	ledgerWriter                model.LedgerWriter
	ledgerRollback              model.LedgerRollback
	blockProcessor              model.BlockProcessor
	confirmationHeightProcessor model.ConfirmationHeightProcessor

	blockStore              model.BlockStore
	accountStore            model.AccountStore
	pendingStore            model.PendingStore
	confirmationHeightStore model.ConfirmationHeightStore
	uncheckedStore          model.UncheckedStore
}

// Init inserts the genesis block if the ledger doesn't have it yet
func (s *consensus) Init() error {
	guard := s.writeQueue.Acquire(writequeue.WriterConsensus)
	defer guard.Release()

	dbTx, err := s.databaseContext.Begin()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	err = s.ledgerWriter.InsertGenesis(dbTx)
	if err != nil {
		return err
	}
	err = dbTx.Commit()
	if err != nil {
		return err
	}

	counts, err := s.LedgerCounts()
	if err != nil {
		return err
	}
	log.Infof("Loaded the %s ledger: %d blocks, %d cemented, %d accounts, %d unchecked",
		s.params.Name, counts.Blocks, counts.Cemented, counts.Accounts, counts.Unchecked)
	return nil
}

// Start starts the block processor and the cementer
func (s *consensus) Start() {
	s.blockProcessor.Start()
	s.confirmationHeightProcessor.Start()
}

// Stop stops the block processor and the cementer
func (s *consensus) Stop() {
	s.blockProcessor.Stop()
	s.confirmationHeightProcessor.Stop()
}

// ProcessBlock queues block for validation. It fails right away if the
// block doesn't carry enough work to be queued at all.
func (s *consensus) ProcessBlock(block externalapi.DomainBlock, source externalapi.BlockSource) error {
	return s.blockProcessor.Add(block, source)
}

// ForceBlock queues block to replace whatever block holds its position
func (s *consensus) ForceBlock(block externalapi.DomainBlock) {
	s.blockProcessor.Force(block)
}

func (s *consensus) Flush() {
	s.blockProcessor.Flush()
}

func (s *consensus) IsFull() bool {
	return s.blockProcessor.Full()
}

func (s *consensus) CleanupUnchecked(cutoff time.Duration) (int, error) {
	return s.blockProcessor.CleanupUnchecked(cutoff)
}

// Cement queues blockHash to be cemented
func (s *consensus) Cement(blockHash externalapi.DomainHash) {
	s.confirmationHeightProcessor.Add(blockHash)
}

func (s *consensus) CementBlock(blockHash externalapi.DomainHash) error {
	return s.confirmationHeightProcessor.CementBlock(blockHash)
}

func (s *consensus) FlushCementing() {
	s.confirmationHeightProcessor.Flush()
}

func (s *consensus) IsCementing(blockHash externalapi.DomainHash) bool {
	return s.confirmationHeightProcessor.IsProcessing(blockHash)
}

func (s *consensus) GetBlock(blockHash externalapi.DomainHash) (*externalapi.BlockWithSideband, bool, error) {
	block, err := s.blockStore.Block(s.databaseContext, blockHash)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return block, true, nil
}

func (s *consensus) BlockExists(blockHash externalapi.DomainHash) (bool, error) {
	return s.blockStore.HasBlock(s.databaseContext, blockHash)
}

func (s *consensus) GetAccountInfo(account externalapi.DomainAccount) (*externalapi.AccountInfo, bool, error) {
	info, err := s.accountStore.AccountInfo(s.databaseContext, account)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return info, true, nil
}

// Balance returns the balance of account. Accounts that were never
// opened have a zero balance.
func (s *consensus) Balance(account externalapi.DomainAccount) (externalapi.DomainAmount, error) {
	info, found, err := s.GetAccountInfo(account)
	if err != nil {
		return externalapi.ZeroAmount, err
	}
	if !found {
		return externalapi.ZeroAmount, nil
	}
	return info.Balance, nil
}

// Pending returns the sends to account that were not received yet
func (s *consensus) Pending(account externalapi.DomainAccount) ([]*externalapi.PendingEntry, error) {
	return s.pendingStore.ForAccount(s.databaseContext, account)
}

func (s *consensus) ConfirmationHeight(account externalapi.DomainAccount) (*externalapi.ConfirmationHeightInfo, error) {
	return s.confirmationHeightStore.ConfirmationHeight(s.databaseContext, account)
}

// BlockConfirmed returns whether blockHash is in the ledger and cemented
func (s *consensus) BlockConfirmed(blockHash externalapi.DomainHash) (bool, error) {
	block, found, err := s.GetBlock(blockHash)
	if err != nil || !found {
		return false, err
	}
	confirmationHeight, err := s.confirmationHeightStore.ConfirmationHeight(s.databaseContext, block.Account())
	if err != nil {
		return false, err
	}
	return block.Height() <= confirmationHeight.Height, nil
}

// Frontiers returns the heads of up to limit account chains, starting
// at the account start, in ascending account order
func (s *consensus) Frontiers(start externalapi.DomainAccount, limit int) ([]*externalapi.Frontier, error) {
	iterator, err := s.accountStore.Iterator(s.databaseContext, start)
	if err != nil {
		return nil, err
	}
	defer iterator.Close()

	var frontiers []*externalapi.Frontier
	for ok := iterator.First(); ok && len(frontiers) < limit; ok = iterator.Next() {
		account, info, err := iterator.Get()
		if err != nil {
			return nil, err
		}
		frontiers = append(frontiers, &externalapi.Frontier{Account: account, Head: info.Head})
	}
	return frontiers, nil
}

func (s *consensus) UncheckedCount() (uint64, error) {
	return s.uncheckedStore.Count(s.databaseContext)
}

func (s *consensus) LedgerCounts() (*externalapi.LedgerCounts, error) {
	blocks, err := s.blockStore.Count(s.databaseContext)
	if err != nil {
		return nil, err
	}
	cemented, err := s.confirmationHeightStore.CementedCount(s.databaseContext)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountStore.Count(s.databaseContext)
	if err != nil {
		return nil, err
	}
	unchecked, err := s.uncheckedStore.Count(s.databaseContext)
	if err != nil {
		return nil, err
	}
	return &externalapi.LedgerCounts{
		Blocks:    blocks,
		Cemented:  cemented,
		Accounts:  accounts,
		Unchecked: unchecked,
	}, nil
}

func (s *consensus) RegisterBlockObserver(observer externalapi.BlockObserver) {
	s.blockProcessor.RegisterObserver(observer)
}

func (s *consensus) RegisterCementingObserver(observer externalapi.CementingObserver) {
	s.confirmationHeightProcessor.RegisterObserver(observer)
}
