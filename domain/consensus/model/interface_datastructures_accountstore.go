package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// AccountStore represents a store of account infos
type AccountStore interface {
	Put(dbTx DBWriter, account externalapi.DomainAccount, info *externalapi.AccountInfo) error
	AccountInfo(dbContext DBReader, account externalapi.DomainAccount) (*externalapi.AccountInfo, error)
	HasAccount(dbContext DBReader, account externalapi.DomainAccount) (bool, error)
	Delete(dbTx DBWriter, account externalapi.DomainAccount) error
	Count(dbContext DBReader) (uint64, error)
	Iterator(dbContext DBReader, start externalapi.DomainAccount) (AccountInfoIterator, error)
}

// AccountInfoIterator is an iterator over accounts in ascending
// account order.
type AccountInfoIterator interface {
	First() bool
	Next() bool
	Get() (externalapi.DomainAccount, *externalapi.AccountInfo, error)
	Close() error
}
