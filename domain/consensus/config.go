package consensus

import (
	"runtime"
	"time"

	"github.com/latticenet/latticed/domain/consensus/processes/blockprocessor"
	"github.com/latticenet/latticed/domain/dagconfig"
)

// Config is a descriptor for the ledger of a network together with the
// tuning values of the processes maintaining it
type Config struct {
	dagconfig.Params

	// BlockProcessor holds the tuning values of the block processor
	BlockProcessor blockprocessor.Config

	// SignatureCheckThreads is the number of goroutines verifying a
	// batch of signatures
	SignatureCheckThreads int

	// CementingBatchSize is the number of blocks the cementer stages
	// before writing them
	CementingBatchSize int

	// WriteQueueTimeout is how long a writer waits for the write gate
	// before reporting a stall and retrying
	WriteQueueTimeout time.Duration
}

// DefaultConfig returns the default Config of the network with the given params
func DefaultConfig(params *dagconfig.Params) *Config {
	return &Config{
		Params: *params,
		BlockProcessor: blockprocessor.Config{
			BatchSize:                256,
			BatchMaxTime:             500 * time.Millisecond,
			SignatureCheckBatchSize:  2048,
			FullSize:                 65536,
			RolledBackCacheSize:      1024,
			UncheckedCutoff:          4 * time.Hour,
			UncheckedCleanupInterval: 5 * time.Minute,
		},
		SignatureCheckThreads: runtime.NumCPU(),
		CementingBatchSize:    16384,
		WriteQueueTimeout:     5 * time.Second,
	}
}
