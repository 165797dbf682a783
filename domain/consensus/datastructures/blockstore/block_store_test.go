package blockstore_test

import (
	"testing"

	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/datastructures/blockstore"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/latticenet/latticed/domain/consensus/utils/testutils"
)

func TestBlockStore(t *testing.T) {
	dbManager, teardown, err := testutils.NewTestDBManager("TestBlockStore")
	if err != nil {
		t.Fatalf("NewTestDBManager: %+v", err)
	}
	defer teardown(false)

	store := blockstore.New()
	_, account := testutils.NewKeyGenerator(1).Next()
	block := externalapi.NewOpenBlock(testutils.Hash(1), account, account)
	blockHash := consensushashing.BlockHash(block)
	blockWithSideband := &externalapi.BlockWithSideband{
		Block: block,
		Sideband: &externalapi.BlockSideband{
			Account: account,
			Balance: externalapi.NewDomainAmountFromUint64(10),
			Height:  1,
		},
	}

	dbTx, err := dbManager.Begin()
	if err != nil {
		t.Fatalf("Begin: %+v", err)
	}
	err = store.Put(dbTx, blockHash, blockWithSideband)
	if err != nil {
		t.Fatalf("Put: %+v", err)
	}
	// Putting the same block twice must not count it twice
	err = store.Put(dbTx, blockHash, blockWithSideband)
	if err != nil {
		t.Fatalf("Put: %+v", err)
	}

	// Uncommitted writes are visible through the transaction only
	exists, err := store.HasBlock(dbTx, blockHash)
	if err != nil {
		t.Fatalf("HasBlock: %+v", err)
	}
	if !exists {
		t.Fatalf("block is not visible through its own transaction")
	}
	exists, err = store.HasBlock(dbManager, blockHash)
	if err != nil {
		t.Fatalf("HasBlock: %+v", err)
	}
	if exists {
		t.Fatalf("uncommitted block is visible outside of its transaction")
	}

	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("Commit: %+v", err)
	}

	count, err := store.Count(dbManager)
	if err != nil {
		t.Fatalf("Count: %+v", err)
	}
	if count != 1 {
		t.Fatalf("unexpected count. Want: 1, got: %d", count)
	}

	successor := testutils.Hash(2)
	err = store.SetSuccessor(dbManager, blockHash, successor)
	if err != nil {
		t.Fatalf("SetSuccessor: %+v", err)
	}
	stored, err := store.Block(dbManager, blockHash)
	if err != nil {
		t.Fatalf("Block: %+v", err)
	}
	if stored.Sideband.Successor != successor {
		t.Fatalf("unexpected successor. Want: %s, got: %s", successor, stored.Sideband.Successor)
	}
	if consensushashing.BlockHash(stored.Block) != blockHash {
		t.Fatalf("stored block has a different hash")
	}

	err = store.Delete(dbManager, blockHash)
	if err != nil {
		t.Fatalf("Delete: %+v", err)
	}
	_, err = store.Block(dbManager, blockHash)
	if !database.IsNotFoundError(err) {
		t.Fatalf("expected a not found error, got: %+v", err)
	}
	count, err = store.Count(dbManager)
	if err != nil {
		t.Fatalf("Count: %+v", err)
	}
	if count != 0 {
		t.Fatalf("unexpected count. Want: 0, got: %d", count)
	}
}
