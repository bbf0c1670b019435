// Package queue implements the bounded byte queues that sit between the
// keyboard reader goroutine and the HID report loop. One queue carries
// keyboard codes, two more carry joystick data.
package queue

import "sync"

// Size is the queue capacity. It must be a power of two so the index
// arithmetic below can use a mask instead of a modulo.
const Size = 64

const mask = Size - 1

// Queue is a fixed-capacity FIFO of raw bytes. The producer index equals
// the consumer index iff the queue is empty; the producer one slot behind
// the consumer (mod Size) iff it is full. Safe for one producer and one
// consumer on different goroutines.
type Queue struct {
	mu   sync.Mutex
	prod uint
	cons uint
	data [Size]byte
}

// TryEnqueue appends v to the queue. It returns false and drops the byte
// if the queue is full; it never blocks.
func (q *Queue) TryEnqueue(v byte) bool {
	q.mu.Lock()
	ok := (q.prod+1)&mask != q.cons
	if ok {
		q.data[q.prod] = v
		q.prod = (q.prod + 1) & mask
	}
	q.mu.Unlock()
	return ok
}

// Dequeue returns the byte at the head of the queue, advancing past it
// when advance is true. The second return is false if the queue is empty.
func (q *Queue) Dequeue(advance bool) (byte, bool) {
	q.mu.Lock()
	if q.cons == q.prod {
		q.mu.Unlock()
		return 0, false
	}
	v := q.data[q.cons]
	if advance {
		q.cons = (q.cons + 1) & mask
	}
	q.mu.Unlock()
	return v, true
}

// Peek returns the head byte without consuming it.
func (q *Queue) Peek() (byte, bool) {
	return q.Dequeue(false)
}

// Get consumes and returns the head byte.
func (q *Queue) Get() (byte, bool) {
	return q.Dequeue(true)
}

// Drain discards all queued bytes.
func (q *Queue) Drain() {
	q.mu.Lock()
	q.prod = 0
	q.cons = 0
	q.mu.Unlock()
}

// EmptyUnlocked reports whether the queue looked empty at the instant of
// the call, without taking the lock. The report loop uses it as a cheap
// "any work to do?" probe before committing to locked dequeues.
func (q *Queue) EmptyUnlocked() bool {
	return q.cons == q.prod
}
