package wheeltimer

// TimerTask is a unit of deferred work. Run is called once, on the tick the
// timeout expires, with the timeout that fired it. A recurring task re-arms
// itself by submitting again through t.Timer().
type TimerTask interface {
	Run(t *Timeout)
}

// TimerTaskFunc is a function type that implements the TimerTask interface.
type TimerTaskFunc func(t *Timeout)

// Run calls f(t).
func (f TimerTaskFunc) Run(t *Timeout) {
	f(t)
}
