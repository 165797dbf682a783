package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// LedgerRollback removes blocks from the ledger and restores the
// state they replaced
type LedgerRollback interface {
	Rollback(dbTx DBWriter, blockHash externalapi.DomainHash) ([]*RolledBackBlock, error)
}

// RolledBackBlock is a block removed by LedgerRollback
type RolledBackBlock struct {
	Hash  externalapi.DomainHash
	Block *externalapi.BlockWithSideband
}
