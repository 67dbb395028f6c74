package wheeltimer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// len returns the number of timeouts linked into the wheel, cancelled ones
// included.
func (w *wheel) len() int {
	n := 0
	for i := range w.buckets {
		n += w.buckets[i].size
	}
	return n
}

func TestWheelSlot(t *testing.T) {
	should := require.New(t)

	pow2 := newWheel(8)
	should.Equal(int64(7), pow2.mask)
	should.Equal(0, pow2.slot(0))
	should.Equal(3, pow2.slot(11))
	should.Equal(7, pow2.slot(15))

	odd := newWheel(5)
	should.Equal(int64(-1), odd.mask)
	should.Equal(0, odd.slot(5))
	should.Equal(2, odd.slot(12))

	one := newWheel(1)
	should.Equal(0, one.slot(42))
}

func TestWheelSchedule(t *testing.T) {
	should := require.New(t)
	tw := New()
	w := newWheel(5)

	cases := []struct {
		deadline, next int64
		slot           int
		rounds         int64
	}{
		{deadline: 1, next: 0, slot: 1, rounds: 0},
		{deadline: 5, next: 0, slot: 0, rounds: 1}, // bucket 0 is scanned on tick 0 first
		{deadline: 5, next: 1, slot: 0, rounds: 0},
		{deadline: 10, next: 6, slot: 0, rounds: 0},
		{deadline: 12, next: 0, slot: 2, rounds: 2},
		{deadline: 3, next: 7, slot: 2, rounds: 0}, // overdue, moved up to tick 7
	}
	for _, c := range cases {
		to := newTimeout(tw, TimerTaskFunc(func(*Timeout) {}), c.deadline)
		w.schedule(to, c.next)
		should.Same(&w.buckets[c.slot], to.bucket, "deadline %d next %d", c.deadline, c.next)
		should.Equal(c.rounds, to.rounds, "deadline %d next %d", c.deadline, c.next)
	}
	should.Equal(len(cases), w.len())
}

func TestWheelUnprocessed(t *testing.T) {
	should := require.New(t)
	tw := New()
	w := newWheel(4)

	ts := newTestTimeouts(tw, 6)
	for _, to := range ts {
		w.schedule(to, 0)
	}
	should.True(ts[2].Cancel())

	out := w.unprocessed(nil)
	should.ElementsMatch([]*Timeout{ts[0], ts[1], ts[3], ts[4], ts[5]}, out)
	should.Zero(w.len())
}
