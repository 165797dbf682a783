package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// PendingStore represents a store of sent amounts that were not received yet
type PendingStore interface {
	Put(dbTx DBWriter, key *externalapi.PendingKey, info *externalapi.PendingInfo) error
	Pending(dbContext DBReader, key *externalapi.PendingKey) (*externalapi.PendingInfo, error)
	HasPending(dbContext DBReader, key *externalapi.PendingKey) (bool, error)
	Delete(dbTx DBWriter, key *externalapi.PendingKey) error
	AnyForAccount(dbContext DBReader, account externalapi.DomainAccount) (bool, error)
	ForAccount(dbContext DBReader, account externalapi.DomainAccount) ([]*externalapi.PendingEntry, error)
}
