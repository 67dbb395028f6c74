package wheeltimer

import "log"

// Logger receives the timer's operational messages: worker start and stop,
// the number of timeouts left unfired at shutdown, worker pool degradation
// to inline execution, and task panics when no PanicHandler is set.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts a printf-style function, such as logrus.Debugf, to Logger.
type LoggerFunc func(format string, args ...any)

// Printf calls f.
func (f LoggerFunc) Printf(format string, args ...any) { f(format, args...) }

// defaultLogger discards everything; a timer is silent unless WithLogger is
// given.
var defaultLogger = LoggerFunc(func(string, ...any) {})

// Printf sends timer messages to the standard library's log package.
var Printf = LoggerFunc(log.Printf)
