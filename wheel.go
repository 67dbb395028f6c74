package wheeltimer

// wheel is a fixed ring of buckets indexed by tick number.
type wheel struct {
	buckets []bucket
	mask    int64 // size-1 when size is a power of two, otherwise -1
}

func newWheel(size int) *wheel {
	w := &wheel{
		buckets: make([]bucket, size),
		mask:    -1,
	}
	if size&(size-1) == 0 {
		w.mask = int64(size - 1)
	}
	return w
}

func (w *wheel) size() int64 {
	return int64(len(w.buckets))
}

// slot maps a tick to its bucket index.
func (w *wheel) slot(tick int64) int {
	if w.mask >= 0 {
		return int(tick & w.mask)
	}
	return int(tick % w.size())
}

func (w *wheel) bucket(tick int64) *bucket {
	return &w.buckets[w.slot(tick)]
}

// schedule places t in the bucket of its deadline. next is the first tick
// whose bucket has not been scanned yet; a deadline behind it is moved up
// to it.
func (w *wheel) schedule(t *Timeout, next int64) {
	target := t.deadline
	if target < next {
		target = next
	}
	t.rounds = (target - next) / w.size()
	w.bucket(target).push(t)
}

// unprocessed empties every bucket and returns the pending timeouts found.
func (w *wheel) unprocessed(out []*Timeout) []*Timeout {
	for i := range w.buckets {
		out = w.buckets[i].drain(out)
	}
	return out
}
