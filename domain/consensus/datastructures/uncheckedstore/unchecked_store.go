package uncheckedstore

import (
	"bytes"

	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/database/binaryserialization"
	"github.com/latticenet/latticed/domain/consensus/datastructures/countkey"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
)

var bucket = database.MakeBucket([]byte("unchecked"))

// uncheckedStore represents a store of blocks parked until a missing
// dependency arrives
type uncheckedStore struct {
	count *countkey.CountKey
}

// New instantiates a new UncheckedStore
func New() model.UncheckedStore {
	return &uncheckedStore{
		count: countkey.New("unchecked"),
	}
}

func (us *uncheckedStore) Put(dbTx model.DBWriter, key *externalapi.UncheckedKey, info *externalapi.UncheckedInfo) error {
	dbKey := us.uncheckedKeyAsKey(key)
	exists, err := dbTx.Has(dbKey)
	if err != nil {
		return err
	}
	err = dbTx.Put(dbKey, binaryserialization.SerializeUncheckedInfo(info))
	if err != nil {
		return err
	}
	if !exists {
		return us.count.Add(dbTx, 1)
	}
	return nil
}

func (us *uncheckedStore) Delete(dbTx model.DBWriter, key *externalapi.UncheckedKey) error {
	dbKey := us.uncheckedKeyAsKey(key)
	exists, err := dbTx.Has(dbKey)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	err = dbTx.Delete(dbKey)
	if err != nil {
		return err
	}
	return us.count.Add(dbTx, -1)
}

// Dependents returns all the blocks waiting for the given dependency
func (us *uncheckedStore) Dependents(dbContext model.DBReader, dependency externalapi.DomainHash) ([]*model.UncheckedEntry, error) {
	return us.collect(dbContext, dependency.ByteSlice())
}

// All returns every parked block
func (us *uncheckedStore) All(dbContext model.DBReader) ([]*model.UncheckedEntry, error) {
	return us.collect(dbContext, nil)
}

func (us *uncheckedStore) Count(dbContext model.DBReader) (uint64, error) {
	return us.count.Get(dbContext)
}

func (us *uncheckedStore) collect(dbContext model.DBReader, prefix []byte) ([]*model.UncheckedEntry, error) {
	cursor, err := dbContext.Cursor(bucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	err = cursor.Seek(bucket.Key(prefix))
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []*model.UncheckedEntry
	for {
		key, err := cursor.Key()
		if err != nil {
			if database.IsNotFoundError(err) {
				break
			}
			return nil, err
		}
		if !bytes.HasPrefix(key.Suffix(), prefix) {
			break
		}
		uncheckedKey, err := binaryserialization.DeserializeUncheckedKey(key.Suffix())
		if err != nil {
			return nil, err
		}
		infoBytes, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		info, err := binaryserialization.DeserializeUncheckedInfo(infoBytes)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &model.UncheckedEntry{Key: uncheckedKey, Info: info})

		if !cursor.Next() {
			break
		}
	}
	return entries, nil
}

func (us *uncheckedStore) uncheckedKeyAsKey(key *externalapi.UncheckedKey) model.DBKey {
	return bucket.Key(binaryserialization.SerializeUncheckedKey(key))
}
