package store

import (
	"log"

	"github.com/pentaplets/chamber-control/internal/sensor"
)

// pendingQueue is a fixed-capacity FIFO holding readings that missed the
// primary target. Overflow drops the oldest entry and counts the loss.
// Not safe for concurrent use; the failover manager synchronizes.
type pendingQueue struct {
	buf      []sensor.Reading
	capacity int
	head     int // next write position
	count    int
	dropped  uint64
}

func newPendingQueue(capacity int) *pendingQueue {
	// A zero-length buffer would make push index into nothing.
	if capacity < 1 {
		capacity = 1
	}
	return &pendingQueue{
		buf:      make([]sensor.Reading, capacity),
		capacity: capacity,
	}
}

func (q *pendingQueue) push(r sensor.Reading) {
	if q.count == q.capacity {
		if q.dropped == 0 {
			log.Printf("store: pending queue full (%d readings), dropping oldest", q.capacity)
		}
		q.dropped++
		// Overwrite oldest: head is already pointing at it
		q.buf[q.head] = r
		q.head = (q.head + 1) % q.capacity
		// count stays at capacity
		return
	}
	q.buf[q.head] = r
	q.head = (q.head + 1) % q.capacity
	q.count++
}

// peek returns the oldest entry without removing it. The drain removes
// entries one at a time so an interrupted resync never restarts.
func (q *pendingQueue) peek() (sensor.Reading, bool) {
	if q.count == 0 {
		return sensor.Reading{}, false
	}
	start := (q.head - q.count + q.capacity) % q.capacity
	return q.buf[start], true
}

// pop removes the oldest entry.
func (q *pendingQueue) pop() {
	if q.count == 0 {
		return
	}
	start := (q.head - q.count + q.capacity) % q.capacity
	q.buf[start] = sensor.Reading{}
	q.count--
	if q.count == 0 {
		q.head = 0
	}
}

func (q *pendingQueue) len() int {
	return q.count
}

func (q *pendingQueue) drops() uint64 {
	return q.dropped
}
