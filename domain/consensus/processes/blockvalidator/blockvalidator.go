package blockvalidator

import (
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/dagconfig"
)

// blockValidator decides whether a block may be appended to the
// ledger, and if so computes what appending it changes
type blockValidator struct {
	params     *dagconfig.Params
	workOracle model.WorkOracle

	blockStore   model.BlockStore
	accountStore model.AccountStore
	pendingStore model.PendingStore
}

// New instantiates a new BlockValidator
func New(params *dagconfig.Params,
	workOracle model.WorkOracle,

	blockStore model.BlockStore,
	accountStore model.AccountStore,
	pendingStore model.PendingStore) model.BlockValidator {

	return &blockValidator{
		params:     params,
		workOracle: workOracle,

		blockStore:   blockStore,
		accountStore: accountStore,
		pendingStore: pendingStore,
	}
}

// ValidateBlock validates block against the ledger as seen through
// dbContext. It returns the resulting BlockDelta, or a RuleError
// explaining why the block may not be appended.
func (v *blockValidator) ValidateBlock(dbContext model.DBReader, block externalapi.DomainBlock,
	verification externalapi.SignatureVerification) (*model.BlockDelta, error) {

	ctx, err := v.loadContext(dbContext, block, verification)
	if err != nil {
		return nil, err
	}

	log.Tracef("Validating block %s of type %s as %s", ctx.blockHash, block.Type(), ctx.operation)

	checks := []func(ctx *blockContext) error{
		v.checkSufficientWork,
		v.checkBurnAccount,
		v.checkGapPrevious,
		v.checkBlockPosition,
		v.checkSourcePosition,
		v.checkSignature,
		v.checkFork,
	}
	for _, check := range checks {
		err := check(ctx)
		if err != nil {
			return nil, err
		}
	}

	err = v.checkOperation(dbContext, ctx)
	if err != nil {
		return nil, err
	}

	return v.buildDelta(ctx), nil
}
