package wheeltimer

// bucket is an intrusive doubly linked list of timeouts that share a wheel
// slot, kept in insertion order. Only the worker goroutine touches it.
type bucket struct {
	head *Timeout
	tail *Timeout
	size int
}

// push appends t to the bucket.
func (b *bucket) push(t *Timeout) {
	t.bucket = b
	t.prev = b.tail
	t.next = nil
	if b.tail == nil {
		b.head = t
	} else {
		b.tail.next = t
	}
	b.tail = t
	b.size++
}

// remove unlinks t and returns the timeout that followed it.
func (b *bucket) remove(t *Timeout) *Timeout {
	next := t.next
	if t.prev != nil {
		t.prev.next = next
	}
	if next != nil {
		next.prev = t.prev
	}
	if t == b.head {
		b.head = next
	}
	if t == b.tail {
		b.tail = t.prev
	}
	t.prev, t.next, t.bucket = nil, nil, nil
	b.size--
	return next
}

// expireTimeouts walks the bucket once. Cancelled timeouts are dropped,
// timeouts with rounds left are kept for a later revolution, and the rest
// are claimed, unlinked and handed to fire in insertion order.
func (b *bucket) expireTimeouts(fire func(*Timeout)) {
	for t := b.head; t != nil; {
		switch {
		case t.State() == StateCancelled:
			t = b.remove(t)
		case t.rounds > 0:
			t.rounds--
			t = t.next
		case t.transition(StatePending, StateProcessing):
			next := b.remove(t)
			t.release()
			fire(t)
			t = next
		default:
			// lost the race to Cancel
			t = b.remove(t)
		}
	}
}

// drain empties the bucket and returns the timeouts that are still pending.
func (b *bucket) drain(out []*Timeout) []*Timeout {
	for t := b.head; t != nil; {
		if t.State() == StatePending {
			out = append(out, t)
		}
		t = b.remove(t)
	}
	return out
}
