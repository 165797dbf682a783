package ledgerrollback

import (
	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// ErrRollbackCemented indicates that rolling back the requested block
// would remove a cemented block from the ledger
var ErrRollbackCemented = errors.New("cannot roll back a cemented block")

type ledgerRollback struct {
	blockStore              model.BlockStore
	accountStore            model.AccountStore
	pendingStore            model.PendingStore
	confirmationHeightStore model.ConfirmationHeightStore
}

// New instantiates a new LedgerRollback
func New(blockStore model.BlockStore,
	accountStore model.AccountStore,
	pendingStore model.PendingStore,
	confirmationHeightStore model.ConfirmationHeightStore) model.LedgerRollback {

	return &ledgerRollback{
		blockStore:              blockStore,
		accountStore:            accountStore,
		pendingStore:            pendingStore,
		confirmationHeightStore: confirmationHeightStore,
	}
}

// Rollback removes blockHash and every block above it in its account
// chain. Sends that were already received are only removed after the
// chain of the receiving account was rolled back past the receive.
// The rolled back blocks are returned in removal order.
func (lr *ledgerRollback) Rollback(dbTx model.DBWriter, blockHash externalapi.DomainHash) ([]*model.RolledBackBlock, error) {
	var rolledBack []*model.RolledBackBlock

	stack := []externalapi.DomainHash{blockHash}
	for len(stack) > 0 {
		target := stack[len(stack)-1]
		exists, err := lr.blockStore.HasBlock(dbTx, target)
		if err != nil {
			return nil, err
		}
		if !exists {
			stack = stack[:len(stack)-1]
			continue
		}

		targetBlock, err := lr.blockStore.Block(dbTx, target)
		if err != nil {
			return nil, err
		}
		account := targetBlock.Account()
		accountInfo, err := lr.accountStore.AccountInfo(dbTx, account)
		if err != nil {
			return nil, err
		}
		head, err := lr.blockStore.Block(dbTx, accountInfo.Head)
		if err != nil {
			return nil, err
		}

		confirmationHeight, err := lr.confirmationHeightStore.ConfirmationHeight(dbTx, account)
		if err != nil {
			return nil, err
		}
		if head.Height() <= confirmationHeight.Height {
			return nil, errors.Wrapf(ErrRollbackCemented, "block %s at height %d of account %s "+
				"is cemented up to height %d", accountInfo.Head, head.Height(), account, confirmationHeight.Height)
		}

		if head.Sideband.Details.IsSend {
			destination := sendDestination(head.Block)
			received, err := lr.isReceived(dbTx, destination, accountInfo.Head)
			if err != nil {
				return nil, err
			}
			if received {
				destinationInfo, err := lr.accountStore.AccountInfo(dbTx, destination)
				if err != nil {
					return nil, err
				}
				stack = append(stack, destinationInfo.Head)
				continue
			}
		}

		err = lr.undoHead(dbTx, accountInfo, head)
		if err != nil {
			return nil, err
		}
		log.Debugf("Rolled back block %s at height %d of account %s", accountInfo.Head, head.Height(), account)
		rolledBack = append(rolledBack, &model.RolledBackBlock{Hash: accountInfo.Head, Block: head})
	}

	return rolledBack, nil
}

// isReceived returns whether the send sendHash to destination was
// already received
func (lr *ledgerRollback) isReceived(dbTx model.DBReader, destination externalapi.DomainAccount,
	sendHash externalapi.DomainHash) (bool, error) {

	hasPending, err := lr.pendingStore.HasPending(dbTx, &externalapi.PendingKey{Account: destination, Hash: sendHash})
	if err != nil {
		return false, err
	}
	return !hasPending, nil
}

func (lr *ledgerRollback) undoHead(dbTx model.DBWriter, accountInfo *externalapi.AccountInfo,
	head *externalapi.BlockWithSideband) error {

	headHash := accountInfo.Head
	account := head.Account()
	previousHash := head.Block.Previous()

	previousBalance := externalapi.ZeroAmount
	var previous *externalapi.BlockWithSideband
	if !previousHash.IsZero() {
		var err error
		previous, err = lr.blockStore.Block(dbTx, previousHash)
		if err != nil {
			return err
		}
		previousBalance = previous.Sideband.Balance
	}

	switch {
	case head.Sideband.Details.IsSend:
		err := lr.pendingStore.Delete(dbTx, &externalapi.PendingKey{Account: sendDestination(head.Block), Hash: headHash})
		if err != nil {
			return err
		}
	case head.Sideband.Details.IsReceive:
		err := lr.restorePending(dbTx, head, previousBalance)
		if err != nil {
			return err
		}
	}

	if previous == nil {
		err := lr.accountStore.Delete(dbTx, account)
		if err != nil {
			return err
		}
	} else {
		representative, err := lr.representativeAt(dbTx, previousHash)
		if err != nil {
			return err
		}
		err = lr.accountStore.Put(dbTx, account, &externalapi.AccountInfo{
			Head:           previousHash,
			Open:           accountInfo.Open,
			Representative: representative,
			Balance:        previous.Sideband.Balance,
			Modified:       previous.Sideband.Timestamp,
			BlockCount:     previous.Height(),
			Epoch:          previous.Sideband.Details.Epoch,
		})
		if err != nil {
			return err
		}
		err = lr.blockStore.SetSuccessor(dbTx, previousHash, externalapi.ZeroHash)
		if err != nil {
			return err
		}
	}

	return lr.blockStore.Delete(dbTx, headHash)
}

func (lr *ledgerRollback) restorePending(dbTx model.DBWriter, head *externalapi.BlockWithSideband,
	previousBalance externalapi.DomainAmount) error {

	sourceHash := receiveSource(head.Block)
	source, err := lr.blockStore.Block(dbTx, sourceHash)
	if err != nil {
		if database.IsNotFoundError(err) {
			return errors.Wrapf(err, "source %s of received block is missing", sourceHash)
		}
		return err
	}
	amount, ok := head.Sideband.Balance.Sub(previousBalance)
	if !ok {
		return errors.Errorf("receive of %s lowers the balance from %s to %s",
			sourceHash, previousBalance, head.Sideband.Balance)
	}
	return lr.pendingStore.Put(dbTx, &externalapi.PendingKey{Account: head.Account(), Hash: sourceHash},
		&externalapi.PendingInfo{
			Source: source.Account(),
			Amount: amount,
			Epoch:  head.Sideband.SourceEpoch,
		})
}

// representativeAt returns the representative of an account as of the
// given block, by walking back to the last block that carries one
func (lr *ledgerRollback) representativeAt(dbTx model.DBReader, blockHash externalapi.DomainHash) (externalapi.DomainAccount, error) {
	current := blockHash
	for !current.IsZero() {
		block, err := lr.blockStore.Block(dbTx, current)
		if err != nil {
			return externalapi.DomainAccount{}, err
		}
		if representative, ok := block.Block.Representative(); ok {
			return representative, nil
		}
		current = block.Block.Previous()
	}
	return externalapi.DomainAccount{}, errors.Errorf("no representative found below block %s", blockHash)
}

func sendDestination(block externalapi.DomainBlock) externalapi.DomainAccount {
	if destination, ok := block.Destination(); ok {
		return destination
	}
	link, _ := block.Link()
	return link.AsAccount()
}

func receiveSource(block externalapi.DomainBlock) externalapi.DomainHash {
	if source, ok := block.Source(); ok {
		return source
	}
	link, _ := block.Link()
	return link
}
