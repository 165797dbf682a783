package externalapi

// BlockObserver is notified after a batch of blocks that touched the
// given blocks was committed to the ledger
type BlockObserver interface {
	// OnLiveBlock is called for every accepted block that arrived live
	OnLiveBlock(block *BlockWithSideband, blockHash DomainHash)

	// OnBlockRolledBack is called for every block removed from the ledger
	// while resolving a fork
	OnBlockRolledBack(block *BlockWithSideband, blockHash DomainHash)
}

// CementingObserver is notified after confirmation heights were written
type CementingObserver interface {
	OnBlockCemented(block *BlockWithSideband, blockHash DomainHash)
	OnBlockAlreadyCemented(blockHash DomainHash)
}
