package filter

import (
	"sync"

	"github.com/golang-collections/collections/queue"

	"github.com/retro-framework/go-filter/framework/record"
)

// HoldSet is the ordered, unbounded sequence of records one stage held.
// The stage appends, a single restore consumer pops. Appending never
// blocks so an unconsumed restore can't stall the stage.
type HoldSet struct {
	mu      sync.Mutex
	q       *queue.Queue
	closed  bool
	dropped bool
	err     error

	// notify carries at most one pending wake-up for the consumer.
	notify chan struct{}
}

func newHoldSet() *HoldSet {
	return &HoldSet{q: queue.New(), notify: make(chan struct{}, 1)}
}

func (h *HoldSet) signal() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Push appends f, it is a no-op once the set was closed or released.
func (h *HoldSet) Push(f *record.File) {
	h.mu.Lock()
	if h.closed || h.dropped {
		h.mu.Unlock()
		return
	}
	h.q.Enqueue(f)
	h.mu.Unlock()
	h.signal()
}

func (h *HoldSet) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.q.Len()
}

// close marks the end of holding. A non-nil err discards whatever is
// still queued, the consumer sees err instead.
func (h *HoldSet) close(err error) {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		h.err = err
		if err != nil {
			h.q = queue.New()
		}
	}
	h.mu.Unlock()
	h.signal()
}

// release drops everything held and ignores further pushes, used once the
// consumer went away.
func (h *HoldSet) release() {
	h.mu.Lock()
	h.dropped = true
	h.q = queue.New()
	h.mu.Unlock()
}

// pop returns the oldest held record. When nothing is queued it reports
// whether holding has ended and how.
func (h *HoldSet) pop() (f *record.File, done bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.q.Len() > 0 {
		return h.q.Dequeue().(*record.File), false, nil
	}
	return nil, h.closed, h.err
}

// ended reports whether holding has finished, and how.
func (h *HoldSet) ended() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed, h.err
}
