package blockvalidator

import (
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// checkOperation runs the rules of what the block does, and on success
// fills in the resulting balance, representative and pending changes
func (v *blockValidator) checkOperation(dbContext model.DBReader, ctx *blockContext) error {
	ctx.representative = v.resultingRepresentative(ctx)

	switch ctx.operation {
	case operationSend:
		return v.checkSend(ctx)
	case operationReceive:
		return v.checkReceive(dbContext, ctx)
	case operationEpoch:
		return v.checkEpoch(dbContext, ctx)
	default:
		return v.checkNoOp(ctx)
	}
}

func (v *blockValidator) resultingRepresentative(ctx *blockContext) externalapi.DomainAccount {
	if ctx.operation != operationEpoch {
		if representative, ok := ctx.block.Representative(); ok {
			return representative
		}
	}
	if ctx.accountInfo != nil {
		return ctx.accountInfo.Representative
	}
	return externalapi.DomainAccount{}
}

func (v *blockValidator) checkSend(ctx *blockContext) error {
	balance, _ := ctx.block.Balance()
	previousBalance := ctx.previousBalance()

	// State sends are classified by their balance decreasing, so only
	// legacy sends can get here with a higher balance.
	amount, ok := previousBalance.Sub(balance)
	if !ok {
		return errors.Wrapf(ruleerrors.ErrNegativeSpend, "send %s raises the balance from %s to %s",
			ctx.blockHash, previousBalance, balance)
	}

	destination, ok := ctx.block.Destination()
	if !ok {
		link, _ := ctx.block.Link()
		destination = link.AsAccount()
	}

	ctx.balance = balance
	ctx.pendingInsert = &externalapi.PendingEntry{
		Key: &externalapi.PendingKey{Account: destination, Hash: ctx.blockHash},
		Info: &externalapi.PendingInfo{
			Source: ctx.account,
			Amount: amount,
			Epoch:  ctx.details.Epoch,
		},
	}
	return nil
}

func (v *blockValidator) checkReceive(dbContext model.DBReader, ctx *blockContext) error {
	sourceExists, err := v.blockStore.HasBlock(dbContext, ctx.sourceHash)
	if err != nil {
		return err
	}
	if !sourceExists {
		return errors.Wrapf(ruleerrors.NewErrGapSource(ctx.sourceHash), "source %s of block %s is missing",
			ctx.sourceHash, ctx.blockHash)
	}
	if ctx.pending == nil {
		return errors.Wrapf(ruleerrors.ErrUnreceivable, "%s has nothing pending from %s",
			ctx.account, ctx.sourceHash)
	}

	previousBalance := ctx.previousBalance()
	expectedBalance, ok := previousBalance.Add(ctx.pending.Amount)
	if !ok {
		return errors.Wrapf(ruleerrors.ErrBalanceMismatch, "receiving %s overflows the balance %s of %s",
			ctx.pending.Amount, previousBalance, ctx.account)
	}
	if balance, ok := ctx.block.Balance(); ok && !balance.Equal(expectedBalance) {
		return errors.Wrapf(ruleerrors.ErrBalanceMismatch, "block %s declares balance %s while receiving "+
			"%s on top of %s", ctx.blockHash, balance, ctx.pending.Amount, previousBalance)
	}

	ctx.balance = expectedBalance
	return nil
}

func (v *blockValidator) checkEpoch(dbContext model.DBReader, ctx *blockContext) error {
	balance, _ := ctx.block.Balance()
	if !balance.Equal(ctx.previousBalance()) {
		return errors.Wrapf(ruleerrors.ErrBalanceMismatch, "epoch block %s changes the balance from %s to %s",
			ctx.blockHash, ctx.previousBalance(), balance)
	}

	representative, _ := ctx.block.Representative()
	if representative != ctx.representative {
		return errors.Wrapf(ruleerrors.ErrRepresentativeMismatch, "epoch block %s changes the "+
			"representative from %s to %s", ctx.blockHash, ctx.representative, representative)
	}

	if !ctx.isChainRoot() && ctx.details.Epoch != ctx.previousEpoch()+1 {
		return errors.Wrapf(ruleerrors.ErrBlockPosition, "epoch block %s upgrades %s from %s to %s",
			ctx.blockHash, ctx.account, ctx.previousEpoch(), ctx.details.Epoch)
	}

	if ctx.isChainRoot() {
		hasPending, err := v.pendingStore.AnyForAccount(dbContext, ctx.account)
		if err != nil {
			return err
		}
		if !hasPending {
			return errors.Wrapf(ruleerrors.ErrGapEpochOpenPending, "epoch block %s opens %s, "+
				"which has nothing pending", ctx.blockHash, ctx.account)
		}
	}

	ctx.balance = balance
	return nil
}

func (v *blockValidator) checkNoOp(ctx *blockContext) error {
	if ctx.block.Type() != externalapi.BlockTypeState {
		ctx.balance = ctx.previousBalance()
		return nil
	}

	if ctx.isChainRoot() {
		return errors.Wrapf(ruleerrors.ErrBlockPosition, "block %s opens %s without receiving anything",
			ctx.blockHash, ctx.account)
	}

	balance, _ := ctx.block.Balance()
	if !balance.Equal(ctx.previousBalance()) {
		return errors.Wrapf(ruleerrors.ErrBalanceMismatch, "block %s changes the balance from %s to %s "+
			"without sending or receiving", ctx.blockHash, ctx.previousBalance(), balance)
	}

	ctx.balance = balance
	return nil
}
