package writequeue

import (
	"sync"
	"time"
)

// Writer identifies the component holding the write gate
type Writer string

// Writer constants
const (
	WriterProcessor Writer = "block_processor"
	WriterCementer  Writer = "confirmation_height"
	WriterConsensus Writer = "consensus"
	WriterTesting   Writer = "testing"
)

// WriteQueue is a gate letting a single writer at a time open a write
// transaction. Waiting writers retry with a timeout so that a writer
// that holds the gate for too long is reported instead of silently
// stalling everyone.
type WriteQueue struct {
	gate    chan struct{}
	timeout time.Duration

	holderLock sync.Mutex
	holder     Writer
}

// New returns a WriteQueue whose waiting writers report a stall every
// timeout
func New(timeout time.Duration) *WriteQueue {
	return &WriteQueue{
		gate:    make(chan struct{}, 1),
		timeout: timeout,
	}
}

// Guard is the right to write, returned by Acquire
type Guard struct {
	queue    *WriteQueue
	released bool
}

// Acquire blocks until writer holds the gate
func (q *WriteQueue) Acquire(writer Writer) *Guard {
	for {
		guard, ok := q.TryAcquire(writer, q.timeout)
		if ok {
			return guard
		}
		log.Warnf("%s is waiting for the write gate, currently held by %s", writer, q.Holder())
	}
}

// TryAcquire waits up to timeout for the gate. It returns false if the
// gate was not acquired in time.
func (q *WriteQueue) TryAcquire(writer Writer, timeout time.Duration) (*Guard, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case q.gate <- struct{}{}:
		q.holderLock.Lock()
		defer q.holderLock.Unlock()
		q.holder = writer
		return &Guard{queue: q}, true
	case <-timer.C:
		return nil, false
	}
}

// Holder returns the writer currently holding the gate, or an empty
// Writer if nobody does
func (q *WriteQueue) Holder() Writer {
	q.holderLock.Lock()
	defer q.holderLock.Unlock()
	return q.holder
}

// Release gives the gate back. Releasing twice is a no-op.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true

	g.queue.holderLock.Lock()
	g.queue.holder = ""
	g.queue.holderLock.Unlock()

	<-g.queue.gate
}
