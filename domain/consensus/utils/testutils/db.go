package testutils

import (
	"os"

	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/infrastructure/db/database/ldb"
	"github.com/pkg/errors"
)

// NewTestDBManager opens a leveldb database in a temporary directory.
// Calling the returned teardown closes it and, unless keepDataDir is
// set, removes the directory.
func NewTestDBManager(testName string) (dbManager model.DBManager, teardown func(keepDataDir bool), err error) {
	dataDir, err := os.MkdirTemp("", testName)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error creating temp dir")
	}
	db, err := ldb.NewLevelDB(dataDir, 8)
	if err != nil {
		return nil, nil, err
	}
	teardown = func(keepDataDir bool) {
		db.Close()
		if !keepDataDir {
			os.RemoveAll(dataDir)
		}
	}
	return database.New(db), teardown, nil
}
