package blockvalidator

import (
	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/ruleerrors"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/pkg/errors"
)

// operation is what a block does to its account
type operation uint8

const (
	operationSend operation = iota
	operationReceive
	operationEpoch
	operationNoOp
)

func (op operation) String() string {
	switch op {
	case operationSend:
		return "send"
	case operationReceive:
		return "receive"
	case operationEpoch:
		return "epoch"
	}
	return "no-op"
}

// blockContext is everything known about a block while it is being
// validated. It only lives for the duration of one ValidateBlock call.
type blockContext struct {
	block        externalapi.DomainBlock
	blockHash    externalapi.DomainHash
	verification externalapi.SignatureVerification

	// previous is nil for chain roots and when the previous block is
	// missing
	previous        *externalapi.BlockWithSideband
	previousMissing bool

	account      externalapi.DomainAccount
	accountKnown bool
	// accountInfo is nil if the account was not opened yet
	accountInfo *externalapi.AccountInfo

	operation operation
	details   externalapi.BlockDetails

	// set for receives
	sourceHash externalapi.DomainHash
	pendingKey *externalapi.PendingKey
	pending    *externalapi.PendingInfo

	// set by the operation rules
	balance        externalapi.DomainAmount
	representative externalapi.DomainAccount
	pendingInsert  *externalapi.PendingEntry
}

func (ctx *blockContext) isChainRoot() bool {
	return ctx.block.Previous().IsZero()
}

func (ctx *blockContext) previousBalance() externalapi.DomainAmount {
	if ctx.previous == nil {
		return externalapi.ZeroAmount
	}
	return ctx.previous.Sideband.Balance
}

func (ctx *blockContext) previousEpoch() externalapi.Epoch {
	if ctx.previous == nil {
		return externalapi.Epoch0
	}
	return ctx.previous.Sideband.Details.Epoch
}

func (ctx *blockContext) previousHeight() uint64 {
	if ctx.previous == nil {
		return 0
	}
	return ctx.previous.Sideband.Height
}

// loadContext reads everything the rules need to know about block.
// The only rule error it returns is ErrOld.
func (v *blockValidator) loadContext(dbContext model.DBReader, block externalapi.DomainBlock,
	verification externalapi.SignatureVerification) (*blockContext, error) {

	ctx := &blockContext{
		block:        block,
		blockHash:    consensushashing.BlockHash(block),
		verification: verification,
	}

	exists, err := v.blockStore.HasBlock(dbContext, ctx.blockHash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrapf(ruleerrors.ErrOld, "block %s is already in the ledger", ctx.blockHash)
	}

	if !ctx.isChainRoot() {
		previous, err := v.blockStore.Block(dbContext, block.Previous())
		if err != nil {
			if !database.IsNotFoundError(err) {
				return nil, err
			}
			ctx.previousMissing = true
		} else {
			ctx.previous = previous
		}
	}

	if account, ok := block.Account(); ok {
		ctx.account = account
		ctx.accountKnown = true
	} else if ctx.previous != nil {
		ctx.account = ctx.previous.Sideband.Account
		ctx.accountKnown = true
	}

	if ctx.accountKnown {
		hasAccount, err := v.accountStore.HasAccount(dbContext, ctx.account)
		if err != nil {
			return nil, err
		}
		if hasAccount {
			ctx.accountInfo, err = v.accountStore.AccountInfo(dbContext, ctx.account)
			if err != nil {
				return nil, err
			}
		}
	}

	ctx.operation, ctx.sourceHash = v.classify(ctx)

	if ctx.operation == operationReceive && ctx.accountKnown {
		ctx.pendingKey = &externalapi.PendingKey{Account: ctx.account, Hash: ctx.sourceHash}
		hasPending, err := v.pendingStore.HasPending(dbContext, ctx.pendingKey)
		if err != nil {
			return nil, err
		}
		if hasPending {
			ctx.pending, err = v.pendingStore.Pending(dbContext, ctx.pendingKey)
			if err != nil {
				return nil, err
			}
		}
	}

	ctx.details = v.details(ctx)
	return ctx, nil
}

// classify returns what the block does to its account, and for receives
// the hash of the send being received
func (v *blockValidator) classify(ctx *blockContext) (operation, externalapi.DomainHash) {
	block := ctx.block
	switch block.Type() {
	case externalapi.BlockTypeSend:
		return operationSend, externalapi.ZeroHash
	case externalapi.BlockTypeReceive, externalapi.BlockTypeOpen:
		source, _ := block.Source()
		return operationReceive, source
	case externalapi.BlockTypeChange:
		return operationNoOp, externalapi.ZeroHash
	}

	balance, _ := block.Balance()
	link, _ := block.Link()
	// Without the previous block a send can't be told apart from a
	// receive. Such a block is parked, so the guess only affects the
	// work threshold, which is the entry threshold in that case.
	if !ctx.previousMissing && balance.Cmp(ctx.previousBalance()) < 0 {
		return operationSend, externalapi.ZeroHash
	}
	if link.IsZero() {
		return operationNoOp, externalapi.ZeroHash
	}
	if v.params.IsEpochLink(link) {
		return operationEpoch, externalapi.ZeroHash
	}
	return operationReceive, link
}

func (v *blockValidator) details(ctx *blockContext) externalapi.BlockDetails {
	details := externalapi.BlockDetails{
		Epoch:     externalapi.Epoch0,
		IsSend:    ctx.operation == operationSend,
		IsReceive: ctx.operation == operationReceive,
		IsEpoch:   ctx.operation == operationEpoch,
	}
	if ctx.block.Type().IsLegacy() {
		return details
	}

	details.Epoch = ctx.previousEpoch()
	switch ctx.operation {
	case operationEpoch:
		link, _ := ctx.block.Link()
		details.Epoch, _ = v.params.EpochForLink(link)
	case operationReceive:
		if ctx.pending != nil {
			details.Epoch = externalapi.MaxEpoch(details.Epoch, ctx.pending.Epoch)
		}
	}
	return details
}
