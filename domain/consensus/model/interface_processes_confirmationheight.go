package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// ConfirmationHeightProcessor cements blocks, together with everything
// they depend on, once consensus confirmed them
type ConfirmationHeightProcessor interface {
	Add(blockHash externalapi.DomainHash)
	CementBlock(blockHash externalapi.DomainHash) error
	Size() int
	IsProcessing(blockHash externalapi.DomainHash) bool
	Flush()
	Start()
	Stop()
	RegisterObserver(observer externalapi.CementingObserver)
}
