package wheeltimer

import (
	"math"
	"time"

	"github.com/andres-erbsen/clock"
)

// tickClock maps wall-clock instants to tick numbers. Tick n begins at
// start + n*tick.
type tickClock struct {
	clk   clock.Clock
	tick  time.Duration
	start time.Time
}

func newTickClock(clk clock.Clock, tick time.Duration) tickClock {
	return tickClock{clk: clk, tick: tick, start: clk.Now()}
}

// deadline returns the instant tick n begins.
func (c tickClock) deadline(n int64) time.Time {
	return c.start.Add(time.Duration(n) * c.tick)
}

// reached reports whether tick n has begun.
func (c tickClock) reached(n int64) bool {
	return !c.clk.Now().Before(c.deadline(n))
}

// ticksFor converts a delay to a number of ticks, rounding up.
// The result is never less than 1.
func (c tickClock) ticksFor(delay time.Duration) int64 {
	if delay <= 0 {
		return 1
	}
	return ceilTicks(delay, c.tick)
}

// currentTick returns the first tick that begins at or after now.
func (c tickClock) currentTick() int64 {
	elapsed := c.clk.Now().Sub(c.start)
	if elapsed <= 0 {
		return 0
	}
	return ceilTicks(elapsed, c.tick)
}

func ceilTicks(d, tick time.Duration) int64 {
	n := int64(d / tick)
	if d%tick != 0 {
		n++
	}
	return n
}

// target returns the tick on which a timeout submitted now with the given
// delay should fire.
func (c tickClock) target(delay time.Duration) int64 {
	cur, n := c.currentTick(), c.ticksFor(delay)
	if n > math.MaxInt64-cur {
		return math.MaxInt64
	}
	return cur + n
}
