package accountstore

import (
	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/database/binaryserialization"
	"github.com/latticenet/latticed/domain/consensus/datastructures/countkey"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("accounts"))

// accountStore represents a store of account infos
type accountStore struct {
	count *countkey.CountKey
}

// New instantiates a new AccountStore
func New() model.AccountStore {
	return &accountStore{
		count: countkey.New("accounts"),
	}
}

// Put writes the info of the given account
func (as *accountStore) Put(dbTx model.DBWriter, account externalapi.DomainAccount, info *externalapi.AccountInfo) error {
	exists, err := as.HasAccount(dbTx, account)
	if err != nil {
		return err
	}
	err = dbTx.Put(as.accountAsKey(account), binaryserialization.SerializeAccountInfo(info))
	if err != nil {
		return err
	}
	if !exists {
		return as.count.Add(dbTx, 1)
	}
	return nil
}

// AccountInfo gets the info of the given account
func (as *accountStore) AccountInfo(dbContext model.DBReader, account externalapi.DomainAccount) (*externalapi.AccountInfo, error) {
	infoBytes, err := dbContext.Get(as.accountAsKey(account))
	if err != nil {
		return nil, err
	}
	info, err := binaryserialization.DeserializeAccountInfo(infoBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupted account info of %s", account)
	}
	return info, nil
}

// HasAccount returns whether the given account was opened
func (as *accountStore) HasAccount(dbContext model.DBReader, account externalapi.DomainAccount) (bool, error) {
	return dbContext.Has(as.accountAsKey(account))
}

// Delete deletes the info of the given account
func (as *accountStore) Delete(dbTx model.DBWriter, account externalapi.DomainAccount) error {
	exists, err := as.HasAccount(dbTx, account)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	err = dbTx.Delete(as.accountAsKey(account))
	if err != nil {
		return err
	}
	return as.count.Add(dbTx, -1)
}

// Count returns the number of opened accounts
func (as *accountStore) Count(dbContext model.DBReader) (uint64, error) {
	return as.count.Get(dbContext)
}

// Iterator returns an iterator over the accounts starting at start
func (as *accountStore) Iterator(dbContext model.DBReader, start externalapi.DomainAccount) (model.AccountInfoIterator, error) {
	cursor, err := dbContext.Cursor(bucket)
	if err != nil {
		return nil, err
	}
	return newAccountInfoIterator(cursor, as.accountAsKey(start)), nil
}

func (as *accountStore) accountAsKey(account externalapi.DomainAccount) model.DBKey {
	return bucket.Key(binaryserialization.SerializeAccount(account))
}
