package accountstore

import (
	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/database/binaryserialization"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

type accountInfoIterator struct {
	cursor   model.DBCursor
	start    model.DBKey
	isClosed bool
}

func newAccountInfoIterator(cursor model.DBCursor, start model.DBKey) model.AccountInfoIterator {
	return &accountInfoIterator{cursor: cursor, start: start}
}

// First moves to the first account at or after the start account
func (a *accountInfoIterator) First() bool {
	if a.isClosed {
		panic("Tried using a closed AccountInfoIterator")
	}
	err := a.cursor.Seek(a.start)
	if err != nil {
		if !database.IsNotFoundError(err) {
			log.Errorf("Failed seeking account iterator: %+v", err)
		}
		return false
	}
	return true
}

func (a *accountInfoIterator) Next() bool {
	if a.isClosed {
		panic("Tried using a closed AccountInfoIterator")
	}
	return a.cursor.Next()
}

func (a *accountInfoIterator) Get() (externalapi.DomainAccount, *externalapi.AccountInfo, error) {
	if a.isClosed {
		return externalapi.DomainAccount{}, nil, errors.New("Tried using a closed AccountInfoIterator")
	}
	key, err := a.cursor.Key()
	if err != nil {
		return externalapi.DomainAccount{}, nil, err
	}
	account, err := binaryserialization.DeserializeAccount(key.Suffix())
	if err != nil {
		return externalapi.DomainAccount{}, nil, err
	}
	infoBytes, err := a.cursor.Value()
	if err != nil {
		return externalapi.DomainAccount{}, nil, err
	}
	info, err := binaryserialization.DeserializeAccountInfo(infoBytes)
	if err != nil {
		return externalapi.DomainAccount{}, nil, err
	}
	return account, info, nil
}

func (a *accountInfoIterator) Close() error {
	if a.isClosed {
		return errors.New("Tried using a closed AccountInfoIterator")
	}
	a.isClosed = true
	err := a.cursor.Close()
	if err != nil {
		return err
	}
	a.cursor = nil
	return nil
}
