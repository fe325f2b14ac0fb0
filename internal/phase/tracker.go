package phase

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrOutOfOrder is returned when a setPhase would move the phase earlier
// in the canonical order without the force flag.
var ErrOutOfOrder = errors.New("phase: backward transition requires force")

// Store persists the current phase across restarts. The fallback reading
// store's metadata bucket implements this.
type Store interface {
	// LoadPhase returns the persisted phase state, reporting ok=false
	// when none has been saved yet.
	LoadPhase() (name string, activatedAt time.Time, ok bool, err error)
	SavePhase(name string, activatedAt time.Time) error
}

// Tracker holds the current phase and its activation timestamp.
type Tracker struct {
	mu          sync.Mutex
	current     Phase
	activatedAt time.Time
	targets     map[Phase]Targets
	store       Store
	now         func() time.Time
}

// NewTracker creates a Tracker, restoring persisted state from store if
// present and otherwise starting at Inoculation.
func NewTracker(store Store, targets map[Phase]Targets, now func() time.Time) (*Tracker, error) {
	if now == nil {
		now = time.Now
	}
	t := &Tracker{
		current:     Inoculation,
		activatedAt: now(),
		targets:     targets,
		store:       store,
		now:         now,
	}

	if store != nil {
		name, at, ok, err := store.LoadPhase()
		if err != nil {
			return nil, fmt.Errorf("load phase state: %w", err)
		}
		if ok {
			p, err := Parse(name)
			if err != nil {
				return nil, fmt.Errorf("persisted phase: %w", err)
			}
			t.current = p
			t.activatedAt = at
		} else if err := store.SavePhase(t.current.String(), t.activatedAt); err != nil {
			return nil, fmt.Errorf("save initial phase state: %w", err)
		}
	}
	return t, nil
}

// Current returns the active phase and when it was activated.
func (t *Tracker) Current() (Phase, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.activatedAt
}

// Set activates the given phase. Backward transitions fail with
// ErrOutOfOrder unless force is set; the only expected forced regression
// is resetting to Inoculation for a new cultivation cycle.
func (t *Tracker) Set(p Phase, force bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p < t.current && !force {
		return ErrOutOfOrder
	}

	at := t.now()
	if t.store != nil {
		if err := t.store.SavePhase(p.String(), at); err != nil {
			return fmt.Errorf("persist phase state: %w", err)
		}
	}
	t.current = p
	t.activatedAt = at
	return nil
}

// Targets returns the environmental targets of the active phase.
func (t *Tracker) Targets() Targets {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.targets[t.current]
}

// AdvanceIfDue moves to the next phase when the active phase has run for
// its nominal duration. Fruiting never advances automatically: ending a
// cycle is an operator decision. Returns whether a transition happened.
func (t *Tracker) AdvanceIfDue() (bool, error) {
	t.mu.Lock()
	current := t.current
	activatedAt := t.activatedAt
	days := t.targets[current].DurationDays
	t.mu.Unlock()

	if current == Fruiting || days <= 0 {
		return false, nil
	}
	if t.now().Sub(activatedAt) < time.Duration(days)*24*time.Hour {
		return false, nil
	}

	next := current + 1
	if err := t.Set(next, false); err != nil {
		return false, err
	}
	log.Printf("phase: advanced %s -> %s after %d days", current, next, days)
	return true, nil
}
