package blockstore

import (
	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/database/binaryserialization"
	"github.com/latticenet/latticed/domain/consensus/datastructures/countkey"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("blocks"))

// blockStore represents a store of blocks
type blockStore struct {
	count *countkey.CountKey
}

// New instantiates a new BlockStore
func New() model.BlockStore {
	return &blockStore{
		count: countkey.New("blocks"),
	}
}

// Put writes the given block under the given blockHash, replacing any
// previous version of it
func (bs *blockStore) Put(dbTx model.DBWriter, blockHash externalapi.DomainHash, block *externalapi.BlockWithSideband) error {
	exists, err := bs.HasBlock(dbTx, blockHash)
	if err != nil {
		return err
	}
	err = dbTx.Put(bs.hashAsKey(blockHash), binaryserialization.SerializeBlockWithSideband(block))
	if err != nil {
		return err
	}
	if !exists {
		return bs.count.Add(dbTx, 1)
	}
	return nil
}

// Block gets the block associated with the given blockHash
func (bs *blockStore) Block(dbContext model.DBReader, blockHash externalapi.DomainHash) (*externalapi.BlockWithSideband, error) {
	blockBytes, err := dbContext.Get(bs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	block, err := binaryserialization.DeserializeBlockWithSideband(blockBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupted block %s", blockHash)
	}
	return block, nil
}

// HasBlock returns whether a block with a given hash exists in the store.
func (bs *blockStore) HasBlock(dbContext model.DBReader, blockHash externalapi.DomainHash) (bool, error) {
	return dbContext.Has(bs.hashAsKey(blockHash))
}

// SetSuccessor sets the successor recorded in the sideband of the
// block associated with the given blockHash. A zero successor clears it.
func (bs *blockStore) SetSuccessor(dbTx model.DBWriter, blockHash externalapi.DomainHash, successor externalapi.DomainHash) error {
	block, err := bs.Block(dbTx, blockHash)
	if err != nil {
		return err
	}
	block.Sideband.Successor = successor
	return dbTx.Put(bs.hashAsKey(blockHash), binaryserialization.SerializeBlockWithSideband(block))
}

// Delete deletes the block associated with the given blockHash
func (bs *blockStore) Delete(dbTx model.DBWriter, blockHash externalapi.DomainHash) error {
	exists, err := bs.HasBlock(dbTx, blockHash)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	err = dbTx.Delete(bs.hashAsKey(blockHash))
	if err != nil {
		return err
	}
	return bs.count.Add(dbTx, -1)
}

// Count returns the number of blocks in the store
func (bs *blockStore) Count(dbContext model.DBReader) (uint64, error) {
	return bs.count.Get(dbContext)
}

func (bs *blockStore) hashAsKey(hash externalapi.DomainHash) model.DBKey {
	return bucket.Key(binaryserialization.SerializeHash(hash))
}
