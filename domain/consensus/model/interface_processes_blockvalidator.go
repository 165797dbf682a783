package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// BlockValidator decides whether a block may be appended to the ledger.
// It reads through dbContext and never writes.
type BlockValidator interface {
	ValidateBlock(dbContext DBReader, block externalapi.DomainBlock,
		verification externalapi.SignatureVerification) (*BlockDelta, error)
}
