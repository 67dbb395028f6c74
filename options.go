package wheeltimer

import (
	"time"

	"github.com/andres-erbsen/clock"
)

// default is a wheel of 512 slots ticking every 100 milliseconds, which covers
// a little over 51 seconds per revolution.
const (
	defaultWheelSize    = 512
	defaultTickDuration = 100 * time.Millisecond
)

// Options is common options
type Options struct {
	Logger             Logger
	PanicHandler       PanicHandler
	Clock              clock.Clock
	WheelSize          int
	TickDuration       time.Duration
	MaxPendingTimeouts int // 0 means unbounded
	WorkerPoolSize     int // 0 runs tasks on the worker goroutine
}

// NewOptions creates options with defaults.
func NewOptions(opts ...Option) Options {
	var options = Options{
		Logger:       defaultLogger,
		Clock:        clock.New(),
		WheelSize:    defaultWheelSize,
		TickDuration: defaultTickDuration,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.PanicHandler == nil {
		options.PanicHandler = defaultPanicHandler(options.Logger)
	}

	return options
}

// Option is for setting options.
type Option func(*Options)

// WithLogger sets logger.
func WithLogger(logger Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithPanicHandler sets the hook that receives panics escaping a task.
// By default they are reported through the logger.
func WithPanicHandler(h PanicHandler) Option {
	return func(o *Options) {
		o.PanicHandler = h
	}
}

// WithClock sets the time source, mostly useful for tests.
func WithClock(c clock.Clock) Option {
	return func(o *Options) {
		if c != nil {
			o.Clock = c
		}
	}
}

// WithWheelSize sets the number of buckets, must be greater than 0.
// If not, it will be ignored.
func WithWheelSize(num int) Option {
	return func(o *Options) {
		if num > 0 {
			o.WheelSize = num
		}
	}
}

// WithTickDuration sets tick duration, must be greater than 0.
// If not, it will be ignored.
func WithTickDuration(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.TickDuration = d
		}
	}
}

// WithMaxPendingTimeouts bounds the number of outstanding timeouts.
// Zero means unbounded, negative values are ignored.
func WithMaxPendingTimeouts(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.MaxPendingTimeouts = n
		}
	}
}

// WithWorkerPool runs expired tasks on a goroutine pool of the given size
// instead of on the worker goroutine. Tasks of the same tick are still
// dispatched in order, but may finish in any order.
func WithWorkerPool(size int) Option {
	return func(o *Options) {
		if size >= 0 {
			o.WorkerPoolSize = size
		}
	}
}
