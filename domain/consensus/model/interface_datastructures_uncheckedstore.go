package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// UncheckedStore represents a store of blocks waiting for a missing
// previous or source block
type UncheckedStore interface {
	Put(dbTx DBWriter, key *externalapi.UncheckedKey, info *externalapi.UncheckedInfo) error
	Delete(dbTx DBWriter, key *externalapi.UncheckedKey) error
	Dependents(dbContext DBReader, dependency externalapi.DomainHash) ([]*UncheckedEntry, error)
	All(dbContext DBReader) ([]*UncheckedEntry, error)
	Count(dbContext DBReader) (uint64, error)
}

// UncheckedEntry is an unchecked key together with its info
type UncheckedEntry struct {
	Key  *externalapi.UncheckedKey
	Info *externalapi.UncheckedInfo
}
