package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// WorkOracle computes proof of work difficulties and the thresholds
// they are compared against
type WorkOracle interface {
	Threshold(details externalapi.BlockDetails) uint64
	ThresholdEntry(block externalapi.DomainBlock) uint64
	Difficulty(block externalapi.DomainBlock) uint64
}
