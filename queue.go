package wheeltimer

import (
	"sync"

	"github.com/eapache/queue"
)

// submissionQueue hands new timeouts from any number of submitters to the
// worker goroutine.
type submissionQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

func newSubmissionQueue() *submissionQueue {
	return &submissionQueue{q: queue.New()}
}

func (sq *submissionQueue) push(t *Timeout) {
	sq.mu.Lock()
	sq.q.Add(t)
	sq.mu.Unlock()
}

// drain swaps out the queued timeouts and passes them to fn in submission
// order. fn runs without the lock held, so it may push again.
func (sq *submissionQueue) drain(fn func(*Timeout)) {
	sq.mu.Lock()
	q := sq.q
	if q.Length() == 0 {
		sq.mu.Unlock()
		return
	}
	sq.q = queue.New()
	sq.mu.Unlock()

	for q.Length() > 0 {
		fn(q.Remove().(*Timeout))
	}
}
