package blockvalidator

import (
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/ruleerrors"
	"github.com/latticenet/latticed/domain/consensus/utils/signing"
	"github.com/pkg/errors"
)

func (v *blockValidator) checkSufficientWork(ctx *blockContext) error {
	// The details of a block whose previous is missing are a guess, so
	// it is only held to the lowest threshold until it is requeued.
	threshold := v.workOracle.ThresholdEntry(ctx.block)
	if !ctx.previousMissing {
		threshold = v.workOracle.Threshold(ctx.details)
	}

	difficulty := v.workOracle.Difficulty(ctx.block)
	if difficulty < threshold {
		return errors.Wrapf(ruleerrors.ErrInsufficientWork, "block %s has difficulty %016x, "+
			"which is lower than the threshold %016x", ctx.blockHash, difficulty, threshold)
	}
	return nil
}

func (v *blockValidator) checkBurnAccount(ctx *blockContext) error {
	if _, ok := ctx.block.Account(); !ok {
		return nil
	}
	if ctx.account == externalapi.BurnAccount {
		return errors.Wrapf(ruleerrors.ErrOpenedBurnAccount, "block %s belongs to the burn account", ctx.blockHash)
	}
	return nil
}

func (v *blockValidator) checkGapPrevious(ctx *blockContext) error {
	if ctx.previousMissing {
		return errors.Wrapf(ruleerrors.NewErrGapPrevious(ctx.block.Previous()),
			"previous %s of block %s is missing", ctx.block.Previous(), ctx.blockHash)
	}
	// Legacy blocks other than open carry no account, so a chain root
	// of that kind can never be placed.
	if !ctx.accountKnown {
		return errors.Wrapf(ruleerrors.NewErrGapPrevious(ctx.block.Previous()),
			"block %s of type %s has no previous", ctx.blockHash, ctx.block.Type())
	}
	return nil
}

// checkBlockPosition makes sure legacy blocks never follow state blocks
// and never extend an account that was upgraded to a later epoch
func (v *blockValidator) checkBlockPosition(ctx *blockContext) error {
	if !ctx.block.Type().IsLegacy() || ctx.previous == nil {
		return nil
	}
	if ctx.previous.Block.Type() == externalapi.BlockTypeState {
		return errors.Wrapf(ruleerrors.ErrBlockPosition, "legacy block %s follows state block %s",
			ctx.blockHash, ctx.block.Previous())
	}
	if ctx.previousEpoch() > externalapi.Epoch0 {
		return errors.Wrapf(ruleerrors.ErrBlockPosition, "legacy block %s extends an account in %s",
			ctx.blockHash, ctx.previousEpoch())
	}
	return nil
}

// checkSourcePosition makes sure legacy blocks only receive sends made
// in epoch 0. State blocks receive sends of any epoch and adopt the
// epoch of the send.
func (v *blockValidator) checkSourcePosition(ctx *blockContext) error {
	if !ctx.block.Type().IsLegacy() || ctx.operation != operationReceive || ctx.pending == nil {
		return nil
	}
	if ctx.pending.Epoch > externalapi.Epoch0 {
		return errors.Wrapf(ruleerrors.ErrUnreceivable, "legacy block %s can't receive %s sent in %s",
			ctx.blockHash, ctx.sourceHash, ctx.pending.Epoch)
	}
	return nil
}

func (v *blockValidator) checkSignature(ctx *blockContext) error {
	isEpoch := ctx.operation == operationEpoch
	if (ctx.verification == externalapi.SignatureVerificationValid && !isEpoch) ||
		(ctx.verification == externalapi.SignatureVerificationValidEpoch && isEpoch) {
		return nil
	}

	signer := ctx.account
	if isEpoch {
		epochSigner, ok := v.params.EpochSigner(ctx.details.Epoch)
		if !ok {
			return errors.Wrapf(ruleerrors.ErrBadSignature, "no signer is known for %s", ctx.details.Epoch)
		}
		signer = epochSigner
	}

	if !signing.VerifyBlockSignature(ctx.block, ctx.blockHash, signer) {
		return errors.Wrapf(ruleerrors.ErrBadSignature, "block %s is not signed by %s", ctx.blockHash, signer)
	}
	return nil
}

// checkFork makes sure the block extends the current head of its
// account, or opens an account that was not opened yet
func (v *blockValidator) checkFork(ctx *blockContext) error {
	if ctx.isChainRoot() {
		if ctx.accountInfo != nil {
			return errors.Wrapf(ruleerrors.ErrFork, "block %s opens account %s, which is already opened by %s",
				ctx.blockHash, ctx.account, ctx.accountInfo.Open)
		}
		return nil
	}

	if ctx.accountInfo == nil {
		return errors.Wrapf(ruleerrors.ErrFork, "block %s extends %s of account %s, which is not opened",
			ctx.blockHash, ctx.block.Previous(), ctx.account)
	}
	if ctx.accountInfo.Head != ctx.block.Previous() {
		return errors.Wrapf(ruleerrors.ErrFork, "block %s extends %s while the head of account %s is %s",
			ctx.blockHash, ctx.block.Previous(), ctx.account, ctx.accountInfo.Head)
	}
	return nil
}
