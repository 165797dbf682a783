package blockvalidator

import (
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/util/mstime"
)

func (v *blockValidator) buildDelta(ctx *blockContext) *model.BlockDelta {
	timestamp := mstime.NowUnixMilli()
	height := ctx.previousHeight() + 1

	sideband := &externalapi.BlockSideband{
		Account:   ctx.account,
		Balance:   ctx.balance,
		Height:    height,
		Timestamp: timestamp,
		Details:   ctx.details,
	}
	if ctx.operation == operationReceive {
		sideband.SourceEpoch = ctx.pending.Epoch
	}

	open := ctx.blockHash
	if ctx.accountInfo != nil {
		open = ctx.accountInfo.Open
	}

	delta := &model.BlockDelta{
		BlockHash: ctx.blockHash,
		Block: &externalapi.BlockWithSideband{
			Block:    ctx.block,
			Sideband: sideband,
		},
		Account: ctx.account,
		AccountInfo: &externalapi.AccountInfo{
			Head:           ctx.blockHash,
			Open:           open,
			Representative: ctx.representative,
			Balance:        ctx.balance,
			Modified:       timestamp,
			BlockCount:     height,
			Epoch:          ctx.details.Epoch,
		},
		PendingInsert: ctx.pendingInsert,
	}
	if ctx.operation == operationReceive {
		delta.PendingDelete = ctx.pendingKey
	}
	return delta
}
