package wheeltimer

import (
	"math"
	"testing"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/stretchr/testify/require"
)

func TestTickClock(t *testing.T) {
	should := require.New(t)

	mock := clock.NewMock()
	c := newTickClock(mock, 100*time.Millisecond)

	should.Equal(c.start, c.deadline(0))
	should.Equal(c.start.Add(time.Second), c.deadline(10))
	should.True(c.reached(0))
	should.False(c.reached(1))

	should.Equal(int64(1), c.ticksFor(-time.Second))
	should.Equal(int64(1), c.ticksFor(0))
	should.Equal(int64(1), c.ticksFor(time.Nanosecond))
	should.Equal(int64(1), c.ticksFor(100*time.Millisecond))
	should.Equal(int64(2), c.ticksFor(101*time.Millisecond))
	should.Equal(int64(50), c.ticksFor(5*time.Second))

	should.Zero(c.currentTick())
	should.Equal(int64(3), c.target(250*time.Millisecond))

	mock.Add(150 * time.Millisecond)
	should.True(c.reached(1))
	should.False(c.reached(2))
	should.Equal(int64(2), c.currentTick())
	should.Equal(int64(3), c.target(0))

	mock.Add(50 * time.Millisecond)
	should.Equal(int64(2), c.currentTick())
	should.Equal(int64(4), c.target(200*time.Millisecond))

	fine := newTickClock(mock, time.Nanosecond)
	mock.Add(time.Nanosecond)
	should.Equal(int64(1), fine.currentTick())
	should.Equal(int64(math.MaxInt64), fine.target(time.Duration(math.MaxInt64)))
}
