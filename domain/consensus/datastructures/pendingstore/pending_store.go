package pendingstore

import (
	"bytes"

	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/database/binaryserialization"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("pending"))

// pendingStore represents a store of pending entries, keyed by
// receiving account and then by send hash
type pendingStore struct{}

// New instantiates a new PendingStore
func New() model.PendingStore {
	return &pendingStore{}
}

func (ps *pendingStore) Put(dbTx model.DBWriter, key *externalapi.PendingKey, info *externalapi.PendingInfo) error {
	return dbTx.Put(ps.pendingKeyAsKey(key), binaryserialization.SerializePendingInfo(info))
}

func (ps *pendingStore) Pending(dbContext model.DBReader, key *externalapi.PendingKey) (*externalapi.PendingInfo, error) {
	infoBytes, err := dbContext.Get(ps.pendingKeyAsKey(key))
	if err != nil {
		return nil, err
	}
	info, err := binaryserialization.DeserializePendingInfo(infoBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupted pending entry %s:%s", key.Account, key.Hash)
	}
	return info, nil
}

func (ps *pendingStore) HasPending(dbContext model.DBReader, key *externalapi.PendingKey) (bool, error) {
	return dbContext.Has(ps.pendingKeyAsKey(key))
}

func (ps *pendingStore) Delete(dbTx model.DBWriter, key *externalapi.PendingKey) error {
	return dbTx.Delete(ps.pendingKeyAsKey(key))
}

// AnyForAccount returns whether the given account has anything to receive
func (ps *pendingStore) AnyForAccount(dbContext model.DBReader, account externalapi.DomainAccount) (bool, error) {
	cursor, err := ps.cursorAt(dbContext, account)
	if err != nil || cursor == nil {
		return false, err
	}
	defer cursor.Close()

	return ps.currentBelongsTo(cursor, account)
}

// ForAccount returns all the pending entries of the given account, in
// ascending send hash order
func (ps *pendingStore) ForAccount(dbContext model.DBReader, account externalapi.DomainAccount) ([]*externalapi.PendingEntry, error) {
	cursor, err := ps.cursorAt(dbContext, account)
	if err != nil || cursor == nil {
		return nil, err
	}
	defer cursor.Close()

	var entries []*externalapi.PendingEntry
	for {
		belongs, err := ps.currentBelongsTo(cursor, account)
		if err != nil {
			return nil, err
		}
		if !belongs {
			break
		}
		key, err := cursor.Key()
		if err != nil {
			return nil, err
		}
		pendingKey, err := binaryserialization.DeserializePendingKey(key.Suffix())
		if err != nil {
			return nil, err
		}
		infoBytes, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		info, err := binaryserialization.DeserializePendingInfo(infoBytes)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &externalapi.PendingEntry{Key: pendingKey, Info: info})

		if !cursor.Next() {
			break
		}
	}
	return entries, nil
}

// cursorAt returns a cursor positioned at the first entry of the
// given account, or nil if no entry sorts at or after it
func (ps *pendingStore) cursorAt(dbContext model.DBReader, account externalapi.DomainAccount) (model.DBCursor, error) {
	cursor, err := dbContext.Cursor(bucket)
	if err != nil {
		return nil, err
	}
	err = cursor.Seek(bucket.Key(account.ByteSlice()))
	if err != nil {
		cursor.Close()
		if database.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return cursor, nil
}

func (ps *pendingStore) currentBelongsTo(cursor model.DBCursor, account externalapi.DomainAccount) (bool, error) {
	key, err := cursor.Key()
	if err != nil {
		if database.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return bytes.HasPrefix(key.Suffix(), account.ByteSlice()), nil
}

func (ps *pendingStore) pendingKeyAsKey(key *externalapi.PendingKey) model.DBKey {
	return bucket.Key(binaryserialization.SerializePendingKey(key))
}
