package wheeltimer

import (
	"fmt"

	"go.uber.org/atomic"
)

// State is the lifecycle state of a Timeout.
type State int32

// Pending is the only non-terminal state a caller can act on. Processing is
// held while the task runs, so a late Cancel cannot claim to have stopped it.
const (
	StatePending State = iota
	StateProcessing
	StateExpired
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProcessing:
		return "processing"
	case StateExpired:
		return "expired"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Timeout is the handle of a task submitted to a HashedWheelTimer.
type Timeout struct {
	timer    *HashedWheelTimer
	task     TimerTask
	deadline int64 // target tick
	state    atomic.Int32
	counted  atomic.Bool // holds a slot in timer.pending

	// owned by the worker goroutine
	rounds int64
	bucket *bucket
	prev   *Timeout
	next   *Timeout
}

func newTimeout(timer *HashedWheelTimer, task TimerTask, deadline int64) *Timeout {
	t := &Timeout{
		timer:    timer,
		task:     task,
		deadline: deadline,
	}
	t.counted.Store(true)
	return t
}

// Timer returns the timer that created this timeout.
func (t *Timeout) Timer() *HashedWheelTimer {
	return t.timer
}

// Task returns the task associated with this timeout.
func (t *Timeout) Task() TimerTask {
	return t.task
}

// Deadline returns the tick on which the timeout is due.
func (t *Timeout) Deadline() int64 {
	return t.deadline
}

// State returns the current state.
func (t *Timeout) State() State {
	return State(t.state.Load())
}

// IsExpired reports whether the task has run.
func (t *Timeout) IsExpired() bool {
	return t.State() == StateExpired
}

// IsCancelled reports whether the timeout was cancelled before it fired.
func (t *Timeout) IsCancelled() bool {
	return t.State() == StateCancelled
}

// Cancel prevents the task from running. It reports false if the task has
// already started or finished, or the timeout was already cancelled.
// The timeout stays in its bucket until the worker next scans it.
func (t *Timeout) Cancel() bool {
	if !t.transition(StatePending, StateCancelled) {
		return false
	}
	t.release()
	return true
}

func (t *Timeout) String() string {
	return fmt.Sprintf("Timeout(deadline: %d, state: %s)", t.deadline, t.State())
}

func (t *Timeout) transition(from, to State) bool {
	return t.state.CompareAndSwap(int32(from), int32(to))
}

// release gives back the timeout's slot in the pending counter, once.
func (t *Timeout) release() {
	if t.counted.CompareAndSwap(true, false) {
		t.timer.pending.Dec()
	}
}

// expire runs the task of a timeout the worker has moved to StateProcessing,
// then marks it expired whether or not the task panicked.
func (t *Timeout) expire(panicHandler PanicHandler) {
	defer t.state.Store(int32(StateExpired))
	defer func() {
		if r := recover(); r != nil {
			t.handlePanic(panicHandler, r)
		}
	}()
	t.task.Run(t)
}

// handlePanic passes a task panic to the handler. A panic raised by the
// handler itself is logged and dropped so the worker keeps ticking.
func (t *Timeout) handlePanic(panicHandler PanicHandler, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			t.timer.Logger.Printf("timeout %v: panic handler panicked: %v (task panic: %v)\n", t, r, recovered)
		}
	}()
	panicHandler(t, recovered)
}
