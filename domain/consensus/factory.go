package consensus

import (
	"os"

	"github.com/latticenet/latticed/domain/consensus/database"
	"github.com/latticenet/latticed/domain/consensus/datastructures/accountstore"
	"github.com/latticenet/latticed/domain/consensus/datastructures/blockstore"
	"github.com/latticenet/latticed/domain/consensus/datastructures/confirmationheightstore"
	"github.com/latticenet/latticed/domain/consensus/datastructures/pendingstore"
	"github.com/latticenet/latticed/domain/consensus/datastructures/uncheckedstore"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/model/testapi"
	"github.com/latticenet/latticed/domain/consensus/processes/blockprocessor"
	"github.com/latticenet/latticed/domain/consensus/processes/blockvalidator"
	"github.com/latticenet/latticed/domain/consensus/processes/confirmationheight"
	"github.com/latticenet/latticed/domain/consensus/processes/ledgerrollback"
	"github.com/latticenet/latticed/domain/consensus/processes/ledgerwriter"
	"github.com/latticenet/latticed/domain/consensus/processes/signatureverifier"
	"github.com/latticenet/latticed/domain/consensus/utils/work"
	"github.com/latticenet/latticed/domain/consensus/utils/writequeue"
	infrastructuredatabase "github.com/latticenet/latticed/infrastructure/db/database"
	"github.com/latticenet/latticed/infrastructure/db/database/ldb"
	"github.com/latticenet/latticed/infrastructure/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultTestLeveldbCacheSizeMiB = 8

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(config *Config, db infrastructuredatabase.Database, statsSink model.StatsSink) (
		externalapi.Consensus, error)
	NewTestConsensus(config *Config, testName string) (
		tc testapi.TestConsensus, teardown func(keepDataDir bool), err error)
}

type factory struct{}

// NewFactory creates a new Consensus factory
func NewFactory() Factory {
	return &factory{}
}

// NewConsensus instantiates a new Consensus
func (f *factory) NewConsensus(config *Config, db infrastructuredatabase.Database, statsSink model.StatsSink) (
	externalapi.Consensus, error) {

	return f.newConsensus(config, db, statsSink)
}

func (f *factory) newConsensus(config *Config, db infrastructuredatabase.Database, statsSink model.StatsSink) (
	*consensus, error) {

	dbManager := database.New(db)
	writeQueue := writequeue.New(config.WriteQueueTimeout)

	// Data Structures
	blockStore := blockstore.New()
	accountStore := accountstore.New()
	pendingStore := pendingstore.New()
	confirmationHeightStore := confirmationheightstore.New()
	uncheckedStore := uncheckedstore.New()

	// Processes
	workOracle := work.NewOracle(config.WorkThresholds)
	blockValidator := blockvalidator.New(
		&config.Params,
		workOracle,

		blockStore,
		accountStore,
		pendingStore)
	ledgerWriter := ledgerwriter.New(
		&config.Params,
		blockStore,
		accountStore,
		pendingStore,
		confirmationHeightStore)
	ledgerRollback := ledgerrollback.New(
		blockStore,
		accountStore,
		pendingStore,
		confirmationHeightStore)
	signatureVerifier := signatureverifier.New(&config.Params, config.SignatureCheckThreads)

	blockProcessor, err := blockprocessor.New(
		config.BlockProcessor,
		dbManager,
		writeQueue,
		workOracle,
		blockValidator,
		ledgerWriter,
		ledgerRollback,
		signatureVerifier,
		statsSink,

		blockStore,
		accountStore,
		uncheckedStore)
	if err != nil {
		return nil, err
	}

	confirmationHeightProcessor := confirmationheight.New(
		config.CementingBatchSize,
		dbManager,
		writeQueue,
		statsSink,
		blockStore,
		accountStore,
		confirmationHeightStore)

	return &consensus{
		params:          &config.Params,
		databaseContext: dbManager,
		writeQueue:      writeQueue,

		workOracle:                  workOracle,
		blockValidator:              blockValidator,
		ledgerWriter:                ledgerWriter,
		ledgerRollback:              ledgerRollback,
		blockProcessor:              blockProcessor,
		confirmationHeightProcessor: confirmationHeightProcessor,

		blockStore:              blockStore,
		accountStore:            accountStore,
		pendingStore:            pendingStore,
		confirmationHeightStore: confirmationHeightStore,
		uncheckedStore:          uncheckedStore,
	}, nil
}

// NewTestConsensus creates a started consensus over a leveldb database in
// a temporary directory, with the genesis block already inserted
func (f *factory) NewTestConsensus(config *Config, testName string) (
	tc testapi.TestConsensus, teardown func(keepDataDir bool), err error) {

	dataDir, err := os.MkdirTemp("", testName)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error creating temp dir")
	}
	db, err := ldb.NewLevelDB(dataDir, defaultTestLeveldbCacheSizeMiB)
	if err != nil {
		return nil, nil, err
	}

	statsSink, err := metrics.NewStatsSink(prometheus.NewRegistry())
	if err != nil {
		return nil, nil, err
	}
	consensusAsImplementation, err := f.newConsensus(config, db, statsSink)
	if err != nil {
		return nil, nil, err
	}
	err = consensusAsImplementation.Init()
	if err != nil {
		return nil, nil, err
	}
	consensusAsImplementation.Start()

	testConsensus := &testConsensus{
		consensus: consensusAsImplementation,
		statsSink: statsSink,
	}

	teardown = func(keepDataDir bool) {
		testConsensus.Stop()
		db.Close()
		if !keepDataDir {
			err := os.RemoveAll(dataDir)
			if err != nil {
				log.Errorf("Error removing data directory for test consensus: %s", err)
			}
		}
	}
	return testConsensus, teardown, nil
}
