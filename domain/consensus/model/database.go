package model

// DBCursor iterates over the entries of a bucket in key order
type DBCursor interface {
	// Next moves to the next entry and returns false once the cursor is
	// exhausted
	Next() bool

	// First moves to the first entry and returns false if the bucket is empty
	First() bool

	// Seek moves to the first entry whose key is greater than or equal to
	// key. It returns ErrNotFound if there is no such entry.
	Seek(key DBKey) error

	// Key returns the key of the current entry. The returned key is only
	// valid until the cursor moves.
	Key() (DBKey, error)

	// Value returns the value of the current entry. The returned slice is
	// only valid until the cursor moves.
	Value() ([]byte, error)

	Close() error
}

// DBReader reads ledger tables, either from a committed state or from
// inside an open transaction
type DBReader interface {
	// Get returns ErrNotFound if key does not exist
	Get(key DBKey) ([]byte, error)

	Has(key DBKey) (bool, error)

	Cursor(bucket DBBucket) (DBCursor, error)
}

// DBWriter reads and writes ledger tables
type DBWriter interface {
	DBReader

	// Put overwrites any previous value of key
	Put(key DBKey, value []byte) error

	// Delete does nothing if key doesn't exist
	Delete(key DBKey) error
}

// DBTransaction is an open write transaction. Nothing written through it
// is visible to other readers until Commit.
type DBTransaction interface {
	DBWriter

	Rollback() error
	Commit() error

	// RollbackUnlessClosed rolls back the transaction unless Commit or
	// Rollback were already called. Meant to be deferred right after Begin.
	RollbackUnlessClosed() error
}

// DBManager is the ledger database. Reads made directly on the manager
// never observe the writes of an uncommitted transaction.
type DBManager interface {
	DBWriter

	Begin() (DBTransaction, error)
}

// DBKey is a key inside a bucket
type DBKey interface {
	Bytes() []byte
	Bucket() DBBucket
	Suffix() []byte
}

// DBBucket is a key prefix holding one ledger table
type DBBucket interface {
	Bucket(bucketBytes []byte) DBBucket
	Key(suffix []byte) DBKey
	Path() []byte
}
