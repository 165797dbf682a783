package confirmationheight

import (
	"sync"
	"sync/atomic"

	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/writequeue"
	"github.com/pkg/errors"
)

// ErrBlockVanished indicates a block staged for cementing was removed
// from the ledger before it could be written. Nothing of the pass that
// ran into it is written.
var ErrBlockVanished = errors.New("block vanished before it was cemented")

// ErrStopped indicates a cementing pass was interrupted by Stop. Writes
// staged before the interruption are kept.
var ErrStopped = errors.New("confirmation height processor stopped")

type confirmationHeightProcessor struct {
	batchSize int

	databaseContext         model.DBManager
	writeQueue              *writequeue.WriteQueue
	statsSink               model.StatsSink
	blockStore              model.BlockStore
	accountStore            model.AccountStore
	confirmationHeightStore model.ConfirmationHeightStore

	lock       sync.Mutex
	cond       *sync.Cond
	queue      []externalapi.DomainHash
	queued     map[externalapi.DomainHash]struct{}
	processing externalapi.DomainHash
	active     bool
	started    bool
	observers  []externalapi.CementingObserver

	stopped atomic.Bool
	wg      sync.WaitGroup
}

// New instantiates a new ConfirmationHeightProcessor. batchSize is the
// number of blocks staged before they are written in one transaction,
// and bounds how many blocks of a chain are read at a time.
func New(batchSize int,
	databaseContext model.DBManager,
	writeQueue *writequeue.WriteQueue,
	statsSink model.StatsSink,
	blockStore model.BlockStore,
	accountStore model.AccountStore,
	confirmationHeightStore model.ConfirmationHeightStore) model.ConfirmationHeightProcessor {

	if batchSize < 1 {
		batchSize = 1
	}
	chp := &confirmationHeightProcessor{
		batchSize:               batchSize,
		databaseContext:         databaseContext,
		writeQueue:              writeQueue,
		statsSink:               statsSink,
		blockStore:              blockStore,
		accountStore:            accountStore,
		confirmationHeightStore: confirmationHeightStore,
		queued:                  make(map[externalapi.DomainHash]struct{}),
	}
	chp.cond = sync.NewCond(&chp.lock)
	return chp
}

// Add queues blockHash for cementing. Hashes already queued are ignored.
func (chp *confirmationHeightProcessor) Add(blockHash externalapi.DomainHash) {
	chp.lock.Lock()
	defer chp.lock.Unlock()

	if _, ok := chp.queued[blockHash]; ok {
		return
	}
	chp.queued[blockHash] = struct{}{}
	chp.queue = append(chp.queue, blockHash)
	chp.cond.Broadcast()
}

// Size returns the number of hashes waiting to be cemented, including
// the one being cemented
func (chp *confirmationHeightProcessor) Size() int {
	chp.lock.Lock()
	defer chp.lock.Unlock()

	size := len(chp.queue)
	if chp.active {
		size++
	}
	return size
}

// IsProcessing returns whether blockHash is the hash currently being
// cemented
func (chp *confirmationHeightProcessor) IsProcessing(blockHash externalapi.DomainHash) bool {
	chp.lock.Lock()
	defer chp.lock.Unlock()

	return chp.active && chp.processing == blockHash
}

// Flush blocks until every queued hash was cemented
func (chp *confirmationHeightProcessor) Flush() {
	chp.lock.Lock()
	defer chp.lock.Unlock()

	for !chp.stopped.Load() && (len(chp.queue) > 0 || chp.active) {
		chp.cond.Wait()
	}
}

// Start starts the cementing goroutine
func (chp *confirmationHeightProcessor) Start() {
	chp.lock.Lock()
	defer chp.lock.Unlock()
	if chp.started {
		return
	}
	chp.started = true

	chp.wg.Add(1)
	spawn(chp.run)
}

// Stop interrupts the running pass between two chain walk steps and
// stops the cementing goroutine
func (chp *confirmationHeightProcessor) Stop() {
	chp.lock.Lock()
	if chp.stopped.Load() {
		chp.lock.Unlock()
		return
	}
	chp.stopped.Store(true)
	chp.cond.Broadcast()
	chp.lock.Unlock()

	chp.wg.Wait()
}

// RegisterObserver registers an observer notified after every write
func (chp *confirmationHeightProcessor) RegisterObserver(observer externalapi.CementingObserver) {
	chp.lock.Lock()
	defer chp.lock.Unlock()
	chp.observers = append(chp.observers, observer)
}

func (chp *confirmationHeightProcessor) cementingObservers() []externalapi.CementingObserver {
	chp.lock.Lock()
	defer chp.lock.Unlock()
	observers := make([]externalapi.CementingObserver, len(chp.observers))
	copy(observers, chp.observers)
	return observers
}

func (chp *confirmationHeightProcessor) run() {
	defer chp.wg.Done()

	chp.lock.Lock()
	defer chp.lock.Unlock()

	for !chp.stopped.Load() {
		if len(chp.queue) == 0 {
			chp.cond.Wait()
			continue
		}

		blockHash := chp.queue[0]
		chp.queue = chp.queue[1:]
		delete(chp.queued, blockHash)
		chp.processing = blockHash
		chp.active = true
		chp.lock.Unlock()

		err := chp.CementBlock(blockHash)

		chp.lock.Lock()
		chp.active = false
		chp.processing = externalapi.ZeroHash
		chp.cond.Broadcast()

		switch {
		case err == nil:
		case errors.Is(err, ErrStopped):
			return
		case errors.Is(err, ErrBlockVanished):
			log.Warnf("Could not cement block %s: %s", blockHash, err)
			chp.statsSink.Inc(model.StatTypeCementing, "vanished", model.StatDirIn)
		default:
			panic(err)
		}
	}
}
