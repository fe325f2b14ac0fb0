// Package status provides a thread-safe status tracker for the chamber
// daemon. It is read by the HTTP API and refreshed by the control loop.
package status

import (
	"sync"
	"time"

	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/logic"
	"github.com/pentaplets/chamber-control/internal/sensor"
	"github.com/pentaplets/chamber-control/internal/store"
)

// Config contains daemon configuration for display.
type Config struct {
	DeviceID    string
	PollMs      int64
	HealthMs    int64
	DwellMs     int64
	OverrideMs  int64
	Band        float64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Reading       sensor.Reading
	HaveReading   bool
	TempCondition logic.TempCondition

	Phase            string
	PhaseActivatedAt time.Time

	Actuators map[actuator.Channel]actuator.State
	Faults    map[actuator.Channel]uint64

	Persistence store.Status

	MQTTConnected bool
	TicksSkipped  uint64
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:     startTime,
			TempCondition: logic.TempOK,
			Config:        cfg,
		},
	}
}

// SetReading records the latest reading and its temperature assessment.
// Called from the control loop on every successful tick.
func (t *Tracker) SetReading(r sensor.Reading, cond logic.TempCondition) {
	t.mu.Lock()
	t.snap.Reading = r
	t.snap.HaveReading = true
	t.snap.TempCondition = cond
	t.mu.Unlock()
}

// SetPhase records the active phase.
func (t *Tracker) SetPhase(name string, activatedAt time.Time) {
	t.mu.Lock()
	t.snap.Phase = name
	t.snap.PhaseActivatedAt = activatedAt
	t.mu.Unlock()
}

// SetActuators records channel states and fault counts.
func (t *Tracker) SetActuators(states map[actuator.Channel]actuator.State, faults map[actuator.Channel]uint64) {
	t.mu.Lock()
	t.snap.Actuators = states
	t.snap.Faults = faults
	t.mu.Unlock()
}

// SetPersistence records the failover manager's status.
func (t *Tracker) SetPersistence(st store.Status) {
	t.mu.Lock()
	t.snap.Persistence = st
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// TickSkipped counts a control tick abandoned on a sensor fault.
func (t *Tracker) TickSkipped() {
	t.mu.Lock()
	t.snap.TicksSkipped++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
