package wheeltimer

import (
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sys/cpu"
)

// HashedWheelTimer schedules tasks on a single-level hashed timing wheel.
//
// Submitted timeouts are queued and placed into the wheel by a background
// worker, which advances one bucket every tick and runs the tasks that are
// due. The worker starts on the first Submit and stops on Shutdown; a
// later Submit starts it again.
type HashedWheelTimer struct {
	Options // inherited options

	pending atomic.Int64 // outstanding timeouts
	_       cpu.CacheLinePad
	tick    atomic.Int64 // written by the worker only
	_       cpu.CacheLinePad

	mu  sync.RWMutex
	run *worker
}

// New creates a timer. Invalid option values are ignored.
func New(opts ...Option) *HashedWheelTimer {
	return &HashedWheelTimer{
		Options: NewOptions(opts...),
	}
}

// NewScheduler creates a timer that ticks every tickDuration over wheelSize
// buckets and allows at most maxPendingTimeouts outstanding timeouts, where
// zero means no limit.
func NewScheduler(tickDuration time.Duration, wheelSize, maxPendingTimeouts int, opts ...Option) (*HashedWheelTimer, error) {
	switch {
	case tickDuration <= 0:
		return nil, ErrInvalidTickDuration
	case wheelSize <= 0:
		return nil, ErrInvalidWheelSize
	case maxPendingTimeouts < 0:
		return nil, ErrInvalidMaxPending
	}

	opts = append(opts,
		WithTickDuration(tickDuration),
		WithWheelSize(wheelSize),
		WithMaxPendingTimeouts(maxPendingTimeouts),
	)
	return New(opts...), nil
}

// Submit schedules task to run once after delay, rounded up to whole ticks.
// A delay of zero or less fires on the next tick. Submit never blocks on
// the worker; it fails with ErrCapacityExceeded if the timer already holds
// MaxPendingTimeouts outstanding timeouts.
func (tw *HashedWheelTimer) Submit(task TimerTask, delay time.Duration) (*Timeout, error) {
	if task == nil {
		return nil, ErrNilTask
	}

	n := tw.pending.Inc()
	if tw.MaxPendingTimeouts > 0 && n > int64(tw.MaxPendingTimeouts) {
		tw.pending.Dec()
		return nil, ErrCapacityExceeded
	}

	for {
		tw.mu.RLock()
		if w := tw.run; w != nil {
			t := newTimeout(tw, task, w.clock.target(delay))
			w.queue.push(t)
			tw.mu.RUnlock()
			return t, nil
		}
		tw.mu.RUnlock()

		tw.start()
	}
}

// SubmitFunc is Submit for a plain function.
func (tw *HashedWheelTimer) SubmitFunc(fn func(t *Timeout), delay time.Duration) (*Timeout, error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return tw.Submit(TimerTaskFunc(fn), delay)
}

func (tw *HashedWheelTimer) start() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.run != nil {
		return
	}
	tw.tick.Store(0)
	tw.run = newWorker(tw)
	go tw.run.loop()
}

// Shutdown stops the worker once its current tick is done and waits for it,
// and for any tasks still running on the worker pool. It returns the
// timeouts that never fired; they stay pending but will not run.
// Calling Shutdown on a stopped timer returns nothing.
//
// Shutdown must not be called from inside a TimerTask.
func (tw *HashedWheelTimer) Shutdown() []*Timeout {
	tw.mu.Lock()
	w := tw.run
	if w == nil {
		tw.mu.Unlock()
		return nil
	}
	if w.stopping {
		tw.mu.Unlock()
		<-w.done
		return nil
	}
	w.stopping = true
	tw.mu.Unlock()

	close(w.stop)
	<-w.done
	w.exec.close()

	// Submits that raced with the last tick went to w.queue; collect them
	// under the write lock so none can slip in behind.
	tw.mu.Lock()
	tw.run = nil
	unfired := w.unprocessed()
	tw.mu.Unlock()

	for _, t := range unfired {
		t.release()
	}
	tw.Logger.Printf("wheel shut down with %d unfired timeouts\n", len(unfired))
	return unfired
}

// Pending returns the number of outstanding timeouts.
func (tw *HashedWheelTimer) Pending() int {
	return int(tw.pending.Load())
}

// Tick returns the tick being processed, or the next one while the worker
// waits.
func (tw *HashedWheelTimer) Tick() int64 {
	return tw.tick.Load()
}

// IsRunning reports whether the worker is running and not shutting down.
func (tw *HashedWheelTimer) IsRunning() bool {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.run != nil && !tw.run.stopping
}
