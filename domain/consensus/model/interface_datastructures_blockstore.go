package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// BlockStore represents a store of blocks together with their sidebands
type BlockStore interface {
	Put(dbTx DBWriter, blockHash externalapi.DomainHash, block *externalapi.BlockWithSideband) error
	Block(dbContext DBReader, blockHash externalapi.DomainHash) (*externalapi.BlockWithSideband, error)
	HasBlock(dbContext DBReader, blockHash externalapi.DomainHash) (bool, error)
	SetSuccessor(dbTx DBWriter, blockHash externalapi.DomainHash, successor externalapi.DomainHash) error
	Delete(dbTx DBWriter, blockHash externalapi.DomainHash) error
	Count(dbContext DBReader) (uint64, error)
}
