package ldb

import (
	"bytes"
	"testing"

	"github.com/latticenet/latticed/infrastructure/db/database"
)

func TestTransactionCommitForLevelDB(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestTransactionCommitForLevelDB")
	defer teardownFunc()

	// Put a value into the database
	key1 := database.MakeBucket().Key([]byte("key1"))
	value1 := []byte("value1")
	err := ldb.Put(key1, value1)
	if err != nil {
		t.Fatalf("TestTransactionCommitForLevelDB: Put "+
			"unexpectedly failed: %s", err)
	}

	// Begin a new transaction
	dbTx, err := ldb.Begin()
	if err != nil {
		t.Fatalf("TestTransactionCommitForLevelDB: Begin "+
			"unexpectedly failed: %s", err)
	}
	defer func() {
		err := dbTx.RollbackUnlessClosed()
		if err != nil {
			t.Fatalf("TestTransactionCommitForLevelDB: RollbackUnlessClosed "+
				"unexpectedly failed: %s", err)
		}
	}()

	// Make sure that Get works for values put before the transaction began
	getResult, err := dbTx.Get(key1)
	if err != nil {
		t.Fatalf("TestTransactionCommitForLevelDB: Get "+
			"unexpectedly failed: %s", err)
	}
	if !bytes.Equal(getResult, value1) {
		t.Fatalf("TestTransactionCommitForLevelDB: Get "+
			"returned wrong value. Want: %s, got: %s",
			string(value1), string(getResult))
	}

	// Put a value into the transaction
	key2 := database.MakeBucket().Key([]byte("key2"))
	value2 := []byte("value2")
	err = dbTx.Put(key2, value2)
	if err != nil {
		t.Fatalf("TestTransactionCommitForLevelDB: Put "+
			"unexpectedly failed: %s", err)
	}

	// Make sure that the transaction sees its own writes
	getResult, err = dbTx.Get(key2)
	if err != nil {
		t.Fatalf("TestTransactionCommitForLevelDB: Get "+
			"unexpectedly failed: %s", err)
	}
	if !bytes.Equal(getResult, value2) {
		t.Fatalf("TestTransactionCommitForLevelDB: Get "+
			"returned wrong value. Want: %s, got: %s",
			string(value2), string(getResult))
	}

	// Make sure that the database doesn't see the write before commit
	exists, err := ldb.Has(key2)
	if err != nil {
		t.Fatalf("TestTransactionCommitForLevelDB: Has "+
			"unexpectedly failed: %s", err)
	}
	if exists {
		t.Fatalf("TestTransactionCommitForLevelDB: Has " +
			"unexpectedly returned that the value exists")
	}

	// Commit the transaction
	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("TestTransactionCommitForLevelDB: Commit "+
			"unexpectedly failed: %s", err)
	}

	// Make sure that the database sees the write after commit
	getResult, err = ldb.Get(key2)
	if err != nil {
		t.Fatalf("TestTransactionCommitForLevelDB: Get "+
			"unexpectedly failed: %s", err)
	}
	if !bytes.Equal(getResult, value2) {
		t.Fatalf("TestTransactionCommitForLevelDB: Get "+
			"returned wrong value. Want: %s, got: %s",
			string(value2), string(getResult))
	}

	// Make sure that a closed transaction refuses further use
	err = dbTx.Put(key1, value2)
	if err == nil {
		t.Fatalf("TestTransactionCommitForLevelDB: Put into a closed " +
			"transaction unexpectedly succeeded")
	}
}

func TestTransactionRollbackForLevelDB(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestTransactionRollbackForLevelDB")
	defer teardownFunc()

	dbTx, err := ldb.Begin()
	if err != nil {
		t.Fatalf("TestTransactionRollbackForLevelDB: Begin "+
			"unexpectedly failed: %s", err)
	}

	key := database.MakeBucket([]byte("bucket")).Key([]byte("key"))
	err = dbTx.Put(key, []byte("value"))
	if err != nil {
		t.Fatalf("TestTransactionRollbackForLevelDB: Put "+
			"unexpectedly failed: %s", err)
	}

	// The cursor of the transaction sees the uncommitted write
	cursor, err := dbTx.Cursor(database.MakeBucket([]byte("bucket")))
	if err != nil {
		t.Fatalf("TestTransactionRollbackForLevelDB: Cursor "+
			"unexpectedly failed: %s", err)
	}
	if !cursor.First() {
		t.Fatalf("TestTransactionRollbackForLevelDB: cursor " +
			"unexpectedly empty")
	}
	err = cursor.Close()
	if err != nil {
		t.Fatalf("TestTransactionRollbackForLevelDB: Close "+
			"unexpectedly failed: %s", err)
	}

	err = dbTx.Rollback()
	if err != nil {
		t.Fatalf("TestTransactionRollbackForLevelDB: Rollback "+
			"unexpectedly failed: %s", err)
	}

	_, err = ldb.Get(key)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestTransactionRollbackForLevelDB: Get "+
			"returned wrong error. Want: ErrNotFound, got: %v", err)
	}

	// RollbackUnlessClosed on a closed transaction is a no-op
	err = dbTx.RollbackUnlessClosed()
	if err != nil {
		t.Fatalf("TestTransactionRollbackForLevelDB: RollbackUnlessClosed "+
			"unexpectedly failed: %s", err)
	}
}
