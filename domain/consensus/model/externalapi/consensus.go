package externalapi

import "time"

// Consensus maintains the ledger of a node: it accepts blocks, cements
// them once they are confirmed, and answers queries about the result
type Consensus interface {
	Init() error
	Start()
	Stop()

	ProcessBlock(block DomainBlock, source BlockSource) error
	ForceBlock(block DomainBlock)
	Flush()
	IsFull() bool
	CleanupUnchecked(cutoff time.Duration) (int, error)

	Cement(blockHash DomainHash)
	CementBlock(blockHash DomainHash) error
	FlushCementing()
	IsCementing(blockHash DomainHash) bool

	GetBlock(blockHash DomainHash) (*BlockWithSideband, bool, error)
	BlockExists(blockHash DomainHash) (bool, error)
	GetAccountInfo(account DomainAccount) (*AccountInfo, bool, error)
	Balance(account DomainAccount) (DomainAmount, error)
	Pending(account DomainAccount) ([]*PendingEntry, error)
	ConfirmationHeight(account DomainAccount) (*ConfirmationHeightInfo, error)
	BlockConfirmed(blockHash DomainHash) (bool, error)
	Frontiers(start DomainAccount, limit int) ([]*Frontier, error)
	UncheckedCount() (uint64, error)
	LedgerCounts() (*LedgerCounts, error)

	RegisterBlockObserver(observer BlockObserver)
	RegisterCementingObserver(observer CementingObserver)
}
