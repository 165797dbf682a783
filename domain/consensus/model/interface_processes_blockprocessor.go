package model

import (
	"time"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
)

// BlockProcessor queues blocks and applies them to the ledger
type BlockProcessor interface {
	Add(block externalapi.DomainBlock, source externalapi.BlockSource) error
	Force(block externalapi.DomainBlock)
	Size() int
	HalfFull() bool
	Full() bool
	Flush()
	Start()
	Stop()
	RegisterObserver(observer externalapi.BlockObserver)

	// CleanupUnchecked drops parked blocks that arrived more than
	// cutoff ago, and returns how many were dropped
	CleanupUnchecked(cutoff time.Duration) (int, error)
}
