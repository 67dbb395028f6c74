package wheeltimer

// PanicHandler is called with the timeout whose task panicked and the value
// recovered from it. It runs on the goroutine that ran the task. If the
// handler panics in turn, that panic is logged through the timer's Logger
// and swallowed.
type PanicHandler func(t *Timeout, recovered any)

func defaultPanicHandler(logger Logger) PanicHandler {
	return func(t *Timeout, recovered any) {
		logger.Printf("timeout %v: task panicked: %v\n", t, recovered)
	}
}
