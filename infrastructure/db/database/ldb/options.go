package ldb

import "github.com/syndtr/goleveldb/leveldb/opt"

// Options returns the leveldb options the ledger database is opened with.
// Ledger records are small and mostly random, so compression and seek
// triggered compactions are turned off.
func Options(cacheSizeMiB int) *opt.Options {
	return &opt.Options{
		Compression:            opt.NoCompression,
		BlockCacheCapacity:     cacheSizeMiB * opt.MiB,
		WriteBuffer:            32 * opt.MiB,
		DisableSeeksCompaction: true,
	}
}
