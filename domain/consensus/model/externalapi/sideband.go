package externalapi

// BlockDetails describes what a block did to its account
type BlockDetails struct {
	Epoch     Epoch
	IsSend    bool
	IsReceive bool
	IsEpoch   bool
}

// BlockSideband is metadata derived while validating a block, stored
// next to it so it never has to be recomputed.
type BlockSideband struct {
	Account     DomainAccount
	Successor   DomainHash
	Balance     DomainAmount
	Height      uint64
	Timestamp   int64
	Details     BlockDetails
	SourceEpoch Epoch
}

// Clone returns a copy of the sideband
func (sideband *BlockSideband) Clone() *BlockSideband {
	clone := *sideband
	return &clone
}

// BlockWithSideband is a block as it is kept in the ledger
type BlockWithSideband struct {
	Block    DomainBlock
	Sideband *BlockSideband
}

// Account returns the account owning the block
func (b *BlockWithSideband) Account() DomainAccount {
	return b.Sideband.Account
}

// Height returns the chain height of the block
func (b *BlockWithSideband) Height() uint64 {
	return b.Sideband.Height
}
