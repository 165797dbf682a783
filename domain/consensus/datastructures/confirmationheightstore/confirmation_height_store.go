package confirmationheightstore

import (
	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/database/binaryserialization"
	"github.com/latticenet/latticed/domain/consensus/datastructures/countkey"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("confirmation-heights"))

// confirmationHeightStore represents a store of confirmation heights.
// It also keeps the total number of cemented blocks, which is the sum
// of all confirmation heights.
type confirmationHeightStore struct {
	cementedCount *countkey.CountKey
}

// New instantiates a new ConfirmationHeightStore
func New() model.ConfirmationHeightStore {
	return &confirmationHeightStore{
		cementedCount: countkey.New("cemented"),
	}
}

func (chs *confirmationHeightStore) Put(dbTx model.DBWriter, account externalapi.DomainAccount,
	info *externalapi.ConfirmationHeightInfo) error {

	current, err := chs.ConfirmationHeight(dbTx, account)
	if err != nil {
		return err
	}
	err = dbTx.Put(chs.accountAsKey(account), binaryserialization.SerializeConfirmationHeightInfo(info))
	if err != nil {
		return err
	}
	return chs.cementedCount.Add(dbTx, int64(info.Height)-int64(current.Height))
}

// ConfirmationHeight returns the confirmation height info of the given
// account. Accounts that have nothing cemented get a zero info.
func (chs *confirmationHeightStore) ConfirmationHeight(dbContext model.DBReader,
	account externalapi.DomainAccount) (*externalapi.ConfirmationHeightInfo, error) {

	infoBytes, err := dbContext.Get(chs.accountAsKey(account))
	if err != nil {
		if database.IsNotFoundError(err) {
			return &externalapi.ConfirmationHeightInfo{}, nil
		}
		return nil, err
	}
	info, err := binaryserialization.DeserializeConfirmationHeightInfo(infoBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupted confirmation height of %s", account)
	}
	return info, nil
}

func (chs *confirmationHeightStore) CementedCount(dbContext model.DBReader) (uint64, error) {
	return chs.cementedCount.Get(dbContext)
}

func (chs *confirmationHeightStore) accountAsKey(account externalapi.DomainAccount) model.DBKey {
	return bucket.Key(binaryserialization.SerializeAccount(account))
}
