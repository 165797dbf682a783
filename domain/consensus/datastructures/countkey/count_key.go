package countkey

import (
	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/database/binaryserialization"
	"github.com/latticenet/latticed/domain/consensus/model"
)

// CountKey is a counter kept in the database next to the data it counts
type CountKey struct {
	key model.DBKey
}

// New returns a counter stored under the given name
func New(name string) *CountKey {
	return &CountKey{key: database.MakeBucket([]byte("counts")).Key([]byte(name))}
}

// Get returns the current value of the counter
func (c *CountKey) Get(dbContext model.DBReader) (uint64, error) {
	countBytes, err := dbContext.Get(c.key)
	if err != nil {
		if database.IsNotFoundError(err) {
			return 0, nil
		}
		return 0, err
	}
	return binaryserialization.DeserializeUint64(countBytes)
}

// Add adds delta to the counter, which must be read and written
// through the same transaction
func (c *CountKey) Add(dbTx model.DBWriter, delta int64) error {
	count, err := c.Get(dbTx)
	if err != nil {
		return err
	}
	if delta < 0 && uint64(-delta) > count {
		count = 0
	} else {
		count = uint64(int64(count) + delta)
	}
	return dbTx.Put(c.key, binaryserialization.SerializeUint64(count))
}
