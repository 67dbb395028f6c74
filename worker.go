package wheeltimer

import (
	"github.com/andres-erbsen/clock"
)

// worker is one run of the wheel, from the first Submit to Shutdown. It is
// the only goroutine that touches the wheel and its buckets.
type worker struct {
	timer    *HashedWheelTimer
	clock    tickClock
	wheel    *wheel
	queue    *submissionQueue
	exec     *executor
	logger   Logger
	stopping bool // guarded by timer.mu
	stop     chan struct{}
	done     chan struct{}
}

func newWorker(tw *HashedWheelTimer) *worker {
	return &worker{
		timer:  tw,
		clock:  newTickClock(tw.Clock, tw.TickDuration),
		wheel:  newWheel(tw.WheelSize),
		queue:  newSubmissionQueue(),
		exec:   newExecutor(tw.Options),
		logger: tw.Logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (w *worker) loop() {
	defer close(w.done)

	ticker := w.clock.clk.Ticker(w.clock.tick)
	defer ticker.Stop()

	w.logger.Printf("wheel started with %d buckets, tick %v\n", w.wheel.size(), w.clock.tick)
	for n := int64(0); w.waitForTick(n, ticker); n++ {
		w.tick(n)
		if w.stopped() {
			break
		}
	}
	w.logger.Printf("wheel stopped at tick %d\n", w.timer.Tick())
}

func (w *worker) stopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

// waitForTick blocks until tick n begins. An overdue tick returns at once.
// It reports false if the worker was stopped while waiting.
func (w *worker) waitForTick(n int64, ticker *clock.Ticker) bool {
	for !w.clock.reached(n) {
		select {
		case <-ticker.C:
		case <-w.stop:
			return false
		}
	}
	return true
}

func (w *worker) tick(n int64) {
	w.timer.tick.Store(n)

	w.transfer(n)
	w.wheel.bucket(n).expireTimeouts(w.exec.execute)
	// tasks of this tick may have submitted again
	w.transfer(n + 1)

	w.timer.tick.Store(n + 1)
}

// transfer moves queued timeouts into the wheel. next is the first tick
// whose bucket has not been scanned.
func (w *worker) transfer(next int64) {
	w.queue.drain(func(t *Timeout) {
		if t.State() != StatePending {
			return
		}
		w.wheel.schedule(t, next)
	})
}

// unprocessed collects the timeouts that never fired. Only valid once the
// run loop has returned.
func (w *worker) unprocessed() []*Timeout {
	out := w.wheel.unprocessed(nil)
	w.queue.drain(func(t *Timeout) {
		if t.State() == StatePending {
			out = append(out, t)
		}
	})
	return out
}
