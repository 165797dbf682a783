package binaryserialization

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

const sidebandSize = externalapi.DomainAccountSize + externalapi.DomainHashSize +
	externalapi.DomainAmountSize + 8 + 8 + 4 + 1

func serializeSidebandTo(w *writer, sideband *externalapi.BlockSideband) {
	w.account(sideband.Account)
	w.hash(sideband.Successor)
	w.amount(sideband.Balance)
	w.uint64(sideband.Height)
	w.uint64(uint64(sideband.Timestamp))
	w.uint8(uint8(sideband.Details.Epoch))
	w.bool(sideband.Details.IsSend)
	w.bool(sideband.Details.IsReceive)
	w.bool(sideband.Details.IsEpoch)
	w.uint8(uint8(sideband.SourceEpoch))
}

func deserializeSidebandFrom(r *reader) *externalapi.BlockSideband {
	sideband := &externalapi.BlockSideband{}
	sideband.Account = r.account()
	sideband.Successor = r.hash()
	sideband.Balance = r.amount()
	sideband.Height = r.uint64()
	sideband.Timestamp = int64(r.uint64())
	sideband.Details.Epoch = externalapi.Epoch(r.uint8())
	sideband.Details.IsSend = r.bool()
	sideband.Details.IsReceive = r.bool()
	sideband.Details.IsEpoch = r.bool()
	sideband.SourceEpoch = externalapi.Epoch(r.uint8())
	return sideband
}
