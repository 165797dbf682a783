package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// BlockDelta is everything accepting a block changes in the ledger.
// It is computed by the BlockValidator and written by whoever holds
// the write transaction.
type BlockDelta struct {
	BlockHash   externalapi.DomainHash
	Block       *externalapi.BlockWithSideband
	Account     externalapi.DomainAccount
	AccountInfo *externalapi.AccountInfo

	// PendingInsert is set for sends
	PendingInsert *externalapi.PendingEntry

	// PendingDelete is set for receives and opens
	PendingDelete *externalapi.PendingKey
}
