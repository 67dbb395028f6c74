package wheeltimer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateString(t *testing.T) {
	should := require.New(t)

	should.Equal("pending", StatePending.String())
	should.Equal("processing", StateProcessing.String())
	should.Equal("expired", StateExpired.String())
	should.Equal("cancelled", StateCancelled.String())
	should.Equal("State(9)", State(9).String())
}

func TestTimeoutCancel(t *testing.T) {
	should := require.New(t)
	tw := New()
	to := newTestTimeouts(tw, 1)[0]

	should.Same(tw, to.Timer())
	should.NotNil(to.Task())
	should.Equal(1, tw.Pending())

	should.True(to.Cancel())
	should.True(to.IsCancelled())
	should.Zero(tw.Pending())

	should.False(to.Cancel())
	should.Zero(tw.Pending())
	should.Contains(to.String(), "cancelled")
}

func TestTimeoutCancelWhileProcessing(t *testing.T) {
	should := require.New(t)
	tw := New()
	to := newTestTimeouts(tw, 1)[0]

	should.True(to.transition(StatePending, StateProcessing))
	should.False(to.Cancel())
	should.Equal(StateProcessing, to.State())
	should.Equal(1, tw.Pending())

	to.release()
	to.release()
	should.Zero(tw.Pending())
}

func TestTimeoutExpirePanics(t *testing.T) {
	should := require.New(t)
	tw := New()

	var recovered any
	to := newTimeout(tw, TimerTaskFunc(func(*Timeout) { panic("boom") }), 1)
	should.True(to.transition(StatePending, StateProcessing))
	to.expire(func(got *Timeout, v any) {
		should.Same(to, got)
		recovered = v
	})
	should.Equal("boom", recovered)
	should.True(to.IsExpired())
}

func TestTimeoutExpireHandlerPanics(t *testing.T) {
	should := require.New(t)

	var logged string
	tw := New(WithLogger(LoggerFunc(func(format string, args ...any) {
		logged = fmt.Sprintf(format, args...)
	})))

	to := newTimeout(tw, TimerTaskFunc(func(*Timeout) { panic("task") }), 1)
	should.True(to.transition(StatePending, StateProcessing))
	should.NotPanics(func() {
		to.expire(func(*Timeout, any) { panic("hook") })
	})
	should.True(to.IsExpired())
	should.Contains(logged, "hook")
	should.Contains(logged, "task")
}

func TestTimeoutCancelRace(t *testing.T) {
	should := require.New(t)
	tw := New()

	for i := 0; i < 100; i++ {
		to := newTestTimeouts(tw, 1)[0]
		var wins int32
		var wg sync.WaitGroup
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if to.Cancel() {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		claimed := to.transition(StatePending, StateProcessing)
		wg.Wait()
		if claimed {
			should.Zero(wins)
		} else {
			should.Equal(int32(1), wins)
		}
	}
}
