package database

import (
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/infrastructure/db/database"
)

// MakeBucket creates a new model.DBBucket using the given path
// of buckets.
func MakeBucket(path ...[]byte) model.DBBucket {
	return newDBBucket(database.MakeBucket(path...))
}

func dbBucketToDatabaseBucket(bucket model.DBBucket) *database.Bucket {
	if bucket, ok := bucket.(dbBucket); ok {
		return bucket.bucket
	}
	return database.MakeBucket(bucket.Path()[:len(bucket.Path())-1])
}

type dbBucket struct {
	bucket *database.Bucket
}

func (d dbBucket) Bucket(bucketBytes []byte) model.DBBucket {
	return newDBBucket(d.bucket.Bucket(bucketBytes))
}

func (d dbBucket) Key(suffix []byte) model.DBKey {
	return newDBKey(d.bucket.Key(suffix))
}

func (d dbBucket) Path() []byte {
	return d.bucket.Path()
}

func newDBBucket(bucket *database.Bucket) model.DBBucket {
	return dbBucket{bucket: bucket}
}
