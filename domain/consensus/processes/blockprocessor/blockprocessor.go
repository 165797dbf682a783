package blockprocessor

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/processes/blockprocessor/blocklogger"
	"github.com/latticenet/latticed/domain/consensus/ruleerrors"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/latticenet/latticed/domain/consensus/utils/writequeue"
	"github.com/latticenet/latticed/util/mstime"
	"github.com/pkg/errors"
)

// Config holds the tuning values of the BlockProcessor
type Config struct {
	// BatchSize is the maximum number of blocks written in one transaction
	BatchSize int

	// BatchMaxTime is the maximum time a write transaction is kept open
	BatchMaxTime time.Duration

	// SignatureCheckBatchSize is the maximum number of state blocks
	// whose signatures are verified together
	SignatureCheckBatchSize int

	// FullSize is the queue size above which producers should back off
	FullSize int

	// RolledBackCacheSize bounds the set of recently rolled back blocks
	RolledBackCacheSize int

	// UncheckedCutoff is the age after which parked blocks are dropped.
	// Zero disables the cleanup.
	UncheckedCutoff time.Duration

	// UncheckedCleanupInterval is how often parked blocks are checked
	// against UncheckedCutoff
	UncheckedCleanupInterval time.Duration
}

// queuedBlock is a block waiting in one of the processor lanes
type queuedBlock struct {
	block        externalapi.DomainBlock
	blockHash    externalapi.DomainHash
	source       externalapi.BlockSource
	verification externalapi.SignatureVerification
	arrival      int64
}

type blockProcessor struct {
	config Config

	databaseContext   model.DBManager
	writeQueue        *writequeue.WriteQueue
	workOracle        model.WorkOracle
	blockValidator    model.BlockValidator
	ledgerWriter      model.LedgerWriter
	ledgerRollback    model.LedgerRollback
	signatureVerifier model.SignatureVerifier
	statsSink         model.StatsSink
	blockLogger       *blocklogger.BlockLogger

	blockStore     model.BlockStore
	accountStore   model.AccountStore
	uncheckedStore model.UncheckedStore

	// recentlyRolledBack holds the hashes of blocks removed while
	// resolving forks. They are only accepted again if forced.
	recentlyRolledBack *lru.Cache

	lock          sync.Mutex
	cond          *sync.Cond
	forced        []*queuedBlock
	fastLane      []*queuedBlock
	signatureLane []*queuedBlock
	inFlight      int
	active        bool
	stopped       bool
	started       bool
	observers     []externalapi.BlockObserver

	stop chan struct{}
	wg   sync.WaitGroup
}

// New instantiates a new BlockProcessor
func New(config Config,
	databaseContext model.DBManager,
	writeQueue *writequeue.WriteQueue,
	workOracle model.WorkOracle,
	blockValidator model.BlockValidator,
	ledgerWriter model.LedgerWriter,
	ledgerRollback model.LedgerRollback,
	signatureVerifier model.SignatureVerifier,
	statsSink model.StatsSink,

	blockStore model.BlockStore,
	accountStore model.AccountStore,
	uncheckedStore model.UncheckedStore) (model.BlockProcessor, error) {

	recentlyRolledBack, err := lru.New(config.RolledBackCacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create the rolled back block cache")
	}

	bp := &blockProcessor{
		config: config,

		databaseContext:   databaseContext,
		writeQueue:        writeQueue,
		workOracle:        workOracle,
		blockValidator:    blockValidator,
		ledgerWriter:      ledgerWriter,
		ledgerRollback:    ledgerRollback,
		signatureVerifier: signatureVerifier,
		statsSink:         statsSink,
		blockLogger:       blocklogger.New(),

		blockStore:     blockStore,
		accountStore:   accountStore,
		uncheckedStore: uncheckedStore,

		recentlyRolledBack: recentlyRolledBack,
		stop:               make(chan struct{}),
	}
	bp.cond = sync.NewCond(&bp.lock)
	return bp, nil
}

// Add queues block for processing. Blocks whose proof of work can't
// reach the lowest threshold are rejected right away.
func (bp *blockProcessor) Add(block externalapi.DomainBlock, source externalapi.BlockSource) error {
	difficulty := bp.workOracle.Difficulty(block)
	threshold := bp.workOracle.ThresholdEntry(block)
	if difficulty < threshold {
		bp.statsSink.Inc(model.StatTypeBlockProcessor, ruleerrors.ErrInsufficientWork.Detail(), model.StatDirIn)
		return errors.Wrapf(ruleerrors.ErrInsufficientWork, "block %s has difficulty %016x, "+
			"which is lower than the entry threshold %016x", consensushashing.BlockHash(block), difficulty, threshold)
	}

	bp.enqueue(newQueuedBlock(block, source, externalapi.SignatureVerificationUnknown, mstime.NowUnixMilli()))
	return nil
}

// Force queues block to replace whatever block currently occupies its
// chain position
func (bp *blockProcessor) Force(block externalapi.DomainBlock) {
	item := newQueuedBlock(block, externalapi.BlockSourceForced, externalapi.SignatureVerificationUnknown, mstime.NowUnixMilli())

	bp.lock.Lock()
	defer bp.lock.Unlock()
	bp.forced = append(bp.forced, item)
	bp.cond.Broadcast()
}

func newQueuedBlock(block externalapi.DomainBlock, source externalapi.BlockSource,
	verification externalapi.SignatureVerification, arrival int64) *queuedBlock {

	return &queuedBlock{
		block:        block,
		blockHash:    consensushashing.BlockHash(block),
		source:       source,
		verification: verification,
		arrival:      arrival,
	}
}

func (bp *blockProcessor) enqueue(item *queuedBlock) {
	bp.lock.Lock()
	defer bp.lock.Unlock()

	if item.block.Type() == externalapi.BlockTypeState &&
		item.verification == externalapi.SignatureVerificationUnknown {

		bp.signatureLane = append(bp.signatureLane, item)
	} else {
		bp.fastLane = append(bp.fastLane, item)
	}
	bp.cond.Broadcast()
}

// Size returns the number of blocks waiting to be processed
func (bp *blockProcessor) Size() int {
	bp.lock.Lock()
	defer bp.lock.Unlock()
	return bp.size()
}

func (bp *blockProcessor) size() int {
	return len(bp.forced) + len(bp.fastLane) + len(bp.signatureLane) + bp.inFlight
}

// HalfFull returns whether producers should start slowing down
func (bp *blockProcessor) HalfFull() bool {
	return bp.Size() >= bp.config.FullSize/2
}

// Full returns whether producers should stop adding blocks
func (bp *blockProcessor) Full() bool {
	return bp.Size() >= bp.config.FullSize
}

// Flush blocks until every queued block was processed, and observers
// were notified about it
func (bp *blockProcessor) Flush() {
	bp.lock.Lock()
	defer bp.lock.Unlock()

	for !bp.stopped && (bp.size() > 0 || bp.active) {
		bp.cond.Wait()
	}
}

// Start starts the processing goroutines
func (bp *blockProcessor) Start() {
	bp.lock.Lock()
	defer bp.lock.Unlock()
	if bp.started {
		return
	}
	bp.started = true

	bp.wg.Add(1)
	spawn(bp.run)

	if bp.config.UncheckedCutoff > 0 && bp.config.UncheckedCleanupInterval > 0 {
		bp.wg.Add(1)
		spawn(bp.runUncheckedCleanup)
	}
}

// Stop lets the batch in flight complete and stops the processing
// goroutines. Blocks left in the queues are dropped.
func (bp *blockProcessor) Stop() {
	bp.lock.Lock()
	if bp.stopped {
		bp.lock.Unlock()
		return
	}
	bp.stopped = true
	close(bp.stop)
	bp.cond.Broadcast()
	bp.lock.Unlock()

	bp.wg.Wait()
}

// RegisterObserver registers an observer notified after each batch
func (bp *blockProcessor) RegisterObserver(observer externalapi.BlockObserver) {
	bp.lock.Lock()
	defer bp.lock.Unlock()
	bp.observers = append(bp.observers, observer)
}

func (bp *blockProcessor) blockObservers() []externalapi.BlockObserver {
	bp.lock.Lock()
	defer bp.lock.Unlock()
	observers := make([]externalapi.BlockObserver, len(bp.observers))
	copy(observers, bp.observers)
	return observers
}
