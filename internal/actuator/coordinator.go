package actuator

import (
	"log"
	"sync"
	"time"

	"github.com/pentaplets/chamber-control/internal/logic"
)

// Coordinator applies desired states to the relay driver while enforcing
// the transition rules: Auto changes respect a minimum dwell time and are
// suspended while a manual override holds the channel; Manual changes take
// effect immediately. All writes to a channel's state pass through here.
type Coordinator struct {
	mu          sync.Mutex
	driver      Driver
	minDwell    time.Duration
	overrideDur time.Duration
	now         func() time.Time
	states      map[Channel]*State
	faults      map[Channel]uint64
}

// NewCoordinator creates a Coordinator. overrideDur is the override window
// used when a manual command does not specify one.
func NewCoordinator(driver Driver, minDwell, overrideDur time.Duration, now func() time.Time) *Coordinator {
	if now == nil {
		now = time.Now
	}
	states := make(map[Channel]*State, len(Channels))
	for _, ch := range Channels {
		states[ch] = &State{}
	}
	return &Coordinator{
		driver:      driver,
		minDwell:    minDwell,
		overrideDur: overrideDur,
		now:         now,
		states:      states,
		faults:      make(map[Channel]uint64, len(Channels)),
	}
}

// Apply requests an automatic transition. The request is dropped, not
// queued, when the channel is overridden or still inside its dwell window;
// the next poll cycle re-evaluates from fresh sensor data. Returns whether
// a transition was performed.
func (c *Coordinator) Apply(ch Channel, on bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.states[ch]
	now := c.now()

	if st.Overridden(now) {
		return false
	}
	if on == st.On {
		return false
	}
	if !st.LastTransition.IsZero() && now.Sub(st.LastTransition) < c.minDwell {
		return false
	}

	c.transition(ch, st, on, ReasonAuto, now)
	return true
}

// Override forces the channel to the given state immediately and suspends
// Auto control for d (the configured default when d <= 0). Returns whether
// a transition was performed; a same-state override only marks the channel
// Manual.
func (c *Coordinator) Override(ch Channel, on bool, d time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d <= 0 {
		d = c.overrideDur
	}
	st := c.states[ch]
	now := c.now()
	st.OverrideUntil = now.Add(d)
	if on != st.On {
		c.transition(ch, st, on, ReasonManual, now)
		return true
	}
	st.Reason = ReasonManual
	return false
}

// ResumeAuto lifts a manual override, returning the channel to automatic
// control on the next poll cycle.
func (c *Coordinator) ResumeAuto(ch Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[ch].OverrideUntil = time.Time{}
}

// State returns the recorded state of one channel.
func (c *Coordinator) State(ch Channel) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.states[ch]
}

// States returns a copy of all channel states.
func (c *Coordinator) States() map[Channel]State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Channel]State, len(c.states))
	for ch, st := range c.states {
		out[ch] = *st
	}
	return out
}

// OnStates returns the channel on/off view the decision engine evaluates
// hysteresis against.
func (c *Coordinator) OnStates() logic.ChannelStates {
	c.mu.Lock()
	defer c.mu.Unlock()
	return logic.ChannelStates{
		Fogger: c.states[Fogger].On,
		Fan:    c.states[Fan].On,
		Light:  c.states[Light].On,
	}
}

// Faults returns the per-channel relay write failure counts.
func (c *Coordinator) Faults() map[Channel]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Channel]uint64, len(c.faults))
	for ch, n := range c.faults {
		out[ch] = n
	}
	return out
}

// transition records the logical state and drives the relay. A relay write
// failure is a channel fault: it is counted and flagged but the logical
// state stands, so the divergence is observable rather than hidden.
func (c *Coordinator) transition(ch Channel, st *State, on bool, reason Reason, now time.Time) {
	st.On = on
	st.Reason = reason
	st.LastTransition = now

	if err := c.driver.Set(ch, on); err != nil {
		st.Faulted = true
		c.faults[ch]++
		log.Printf("actuator: %s relay write failed: %v", ch, err)
		return
	}
	st.Faulted = false
}
