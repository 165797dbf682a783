package ledgerwriter

import (
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/dagconfig"
	"github.com/latticenet/latticed/util/mstime"
	"github.com/pkg/errors"
)

type ledgerWriter struct {
	params *dagconfig.Params

	blockStore              model.BlockStore
	accountStore            model.AccountStore
	pendingStore            model.PendingStore
	confirmationHeightStore model.ConfirmationHeightStore
}

// New instantiates a new LedgerWriter
func New(params *dagconfig.Params,
	blockStore model.BlockStore,
	accountStore model.AccountStore,
	pendingStore model.PendingStore,
	confirmationHeightStore model.ConfirmationHeightStore) model.LedgerWriter {

	return &ledgerWriter{
		params:                  params,
		blockStore:              blockStore,
		accountStore:            accountStore,
		pendingStore:            pendingStore,
		confirmationHeightStore: confirmationHeightStore,
	}
}

// ApplyDelta writes everything accepting a block changes
func (lw *ledgerWriter) ApplyDelta(dbTx model.DBWriter, delta *model.BlockDelta) error {
	err := lw.blockStore.Put(dbTx, delta.BlockHash, delta.Block)
	if err != nil {
		return err
	}

	previous := delta.Block.Block.Previous()
	if !previous.IsZero() {
		err = lw.blockStore.SetSuccessor(dbTx, previous, delta.BlockHash)
		if err != nil {
			return err
		}
	}

	err = lw.accountStore.Put(dbTx, delta.Account, delta.AccountInfo)
	if err != nil {
		return err
	}

	if delta.PendingInsert != nil {
		err = lw.pendingStore.Put(dbTx, delta.PendingInsert.Key, delta.PendingInsert.Info)
		if err != nil {
			return err
		}
	}
	if delta.PendingDelete != nil {
		err = lw.pendingStore.Delete(dbTx, delta.PendingDelete)
		if err != nil {
			return err
		}
	}
	return nil
}

// InsertGenesis writes the genesis block of the network, already
// cemented. It does nothing if the genesis block is already in the
// ledger.
func (lw *ledgerWriter) InsertGenesis(dbTx model.DBWriter) error {
	exists, err := lw.blockStore.HasBlock(dbTx, lw.params.GenesisHash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hasAccount, err := lw.accountStore.HasAccount(dbTx, lw.params.GenesisAccount)
	if err != nil {
		return err
	}
	if hasAccount {
		return errors.Errorf("the genesis account %s is opened by a block other than the "+
			"genesis block %s", lw.params.GenesisAccount, lw.params.GenesisHash)
	}

	timestamp := mstime.NowUnixMilli()
	representative, _ := lw.params.GenesisBlock.Representative()
	delta := &model.BlockDelta{
		BlockHash: lw.params.GenesisHash,
		Block: &externalapi.BlockWithSideband{
			Block: lw.params.GenesisBlock,
			Sideband: &externalapi.BlockSideband{
				Account:   lw.params.GenesisAccount,
				Balance:   lw.params.GenesisAmount,
				Height:    1,
				Timestamp: timestamp,
				Details:   externalapi.BlockDetails{Epoch: externalapi.Epoch0},
			},
		},
		Account: lw.params.GenesisAccount,
		AccountInfo: &externalapi.AccountInfo{
			Head:           lw.params.GenesisHash,
			Open:           lw.params.GenesisHash,
			Representative: representative,
			Balance:        lw.params.GenesisAmount,
			Modified:       timestamp,
			BlockCount:     1,
			Epoch:          externalapi.Epoch0,
		},
	}
	err = lw.ApplyDelta(dbTx, delta)
	if err != nil {
		return err
	}

	return lw.confirmationHeightStore.Put(dbTx, lw.params.GenesisAccount, &externalapi.ConfirmationHeightInfo{
		Height:   1,
		Frontier: lw.params.GenesisHash,
	})
}
