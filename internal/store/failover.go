package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pentaplets/chamber-control/internal/sensor"
)

// Status is a point-in-time report of the failover manager.
type Status struct {
	Active        string
	PrimaryActive bool
	QueueDepth    int
	Dropped       uint64
	LastFailover  time.Time
	FallbackFault bool
}

// Failover owns the two persistence targets, decides which is active, and
// resynchronizes buffered readings after the primary recovers. The single
// mutex covers the pending queue and the active flag together, so the two
// always change atomically, and holds across a drain so submits arriving
// mid-drain queue up behind the batch instead of interleaving.
type Failover struct {
	mu            sync.Mutex
	primary       Target
	fallback      Target
	queue         *pendingQueue
	primaryActive bool
	lastFailover  time.Time
	fallbackFault bool
	now           func() time.Time
}

// NewFailover creates the manager. The primary starts inactive; run a
// HealthCheck once at startup to probe it.
func NewFailover(primary, fallback Target, queueCapacity int, now func() time.Time) *Failover {
	if now == nil {
		now = time.Now
	}
	return &Failover{
		primary:  primary,
		fallback: fallback,
		queue:    newPendingQueue(queueCapacity),
		now:      now,
	}
}

// Submit persists one reading. The fallback write is the durability floor:
// its failure is the only error returned. A primary failure is absorbed:
// the reading is buffered, the primary is marked inactive, and the caller's
// tick continues undisturbed.
func (f *Failover) Submit(ctx context.Context, r sensor.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fallback.Append(ctx, r); err != nil {
		f.fallbackFault = true
		return fmt.Errorf("fallback append: %w", err)
	}
	f.fallbackFault = false

	if !f.primaryActive {
		f.queue.push(r)
		return nil
	}

	if err := f.primary.Append(ctx, r); err != nil {
		f.primaryActive = false
		f.lastFailover = f.now()
		f.queue.push(r)
		log.Printf("store: primary %s write failed, failing over: %v", f.primary.Name(), err)
	}
	return nil
}

// HealthCheck probes the primary. On an inactive-to-active transition it
// drains the pending queue oldest-first, removing each entry only on a
// confirmed write, so an interrupted drain resumes where it stopped
// instead of replaying. The primary is marked active only once the queue
// is empty, keeping direct writes ordered after the drained backlog.
func (f *Failover) HealthCheck(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.primaryActive {
		if !f.primary.Available(ctx) {
			f.primaryActive = false
			f.lastFailover = f.now()
			log.Printf("store: primary %s unavailable, failing over", f.primary.Name())
		}
		return
	}

	if !f.primary.Available(ctx) {
		return
	}

	drained := 0
	for {
		if ctx.Err() != nil {
			// Shutdown mid-drain: everything popped so far is
			// confirmed written, the rest stays queued.
			log.Printf("store: resync interrupted after %d readings", drained)
			return
		}
		r, ok := f.queue.peek()
		if !ok {
			break
		}
		if err := f.primary.Append(ctx, r); err != nil {
			log.Printf("store: resync stalled after %d readings: %v", drained, err)
			return
		}
		f.queue.pop()
		drained++
	}

	f.primaryActive = true
	if drained > 0 {
		log.Printf("store: primary %s active, resynced %d buffered readings", f.primary.Name(), drained)
	} else {
		log.Printf("store: primary %s active", f.primary.Name())
	}
}

// Status reports the active target, queue depth, recorded drops, and the
// last failover timestamp.
func (f *Failover) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	active := f.fallback.Name()
	if f.primaryActive {
		active = f.primary.Name()
	}
	return Status{
		Active:        active,
		PrimaryActive: f.primaryActive,
		QueueDepth:    f.queue.len(),
		Dropped:       f.queue.drops(),
		LastFailover:  f.lastFailover,
		FallbackFault: f.fallbackFault,
	}
}
