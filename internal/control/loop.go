// Package control runs the chamber's periodic control tick and the
// independent persistence health check, and funnels dashboard commands
// into the same coordinators the automatic path uses.
package control

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/logic"
	"github.com/pentaplets/chamber-control/internal/phase"
	"github.com/pentaplets/chamber-control/internal/sensor"
	"github.com/pentaplets/chamber-control/internal/status"
	"github.com/pentaplets/chamber-control/internal/store"
	"github.com/pentaplets/chamber-control/internal/telemetry"
)

// Deps are the collaborators of the control loop.
type Deps struct {
	DeviceID string
	Sensor   sensor.Reader
	Store    *store.Failover
	Engine   logic.Engine
	Phases   *phase.Tracker
	Acts     *actuator.Coordinator
	Pub      telemetry.Publisher
	Conn     telemetry.ConnectionStatus
	Tracker  *status.Tracker

	// ReadTimeout bounds one sensor read; a slower read fails the tick.
	ReadTimeout time.Duration
	// Now is the clock, injectable for tests.
	Now func() time.Time
}

// Loop is the process-wide orchestrator.
type Loop struct {
	d Deps

	mu          sync.Mutex
	primaryUp   bool
	haveStoreSt bool
}

// New creates a Loop.
func New(d Deps) *Loop {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.ReadTimeout <= 0 {
		d.ReadTimeout = 5 * time.Second
	}
	return &Loop{d: d}
}

// Run processes ticks until ctx is cancelled. The in-flight tick finishes
// or is abandoned by its own timeouts; no further ticks are scheduled.
func (l *Loop) Run(ctx context.Context, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			log.Printf("control: shutting down")
			return nil
		case <-tick:
			l.Tick(ctx)
		}
	}
}

// Tick executes one control cycle: read, persist, decide, actuate. A
// sensor fault abandons the whole tick; the next tick re-evaluates from
// fresh data.
func (l *Loop) Tick(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, l.d.ReadTimeout)
	r, err := l.d.Sensor.Read(rctx)
	cancel()
	if err != nil {
		log.Printf("control: sensor read failed, skipping tick: %v", err)
		l.d.Tracker.TickSkipped()
		status.TicksSkipped.Inc()
		return
	}

	if r.ID == "" {
		r.ID = sensor.NewID()
	}
	if r.DeviceID == "" {
		r.DeviceID = l.d.DeviceID
	}
	if r.Taken.IsZero() {
		r.Taken = l.d.Now()
	}

	if err := l.d.Store.Submit(ctx, r); err != nil {
		// Fallback write failed: the durability floor is gone. Keep
		// controlling the environment, surface the degradation.
		log.Printf("control: fatal storage error: %v", err)
	} else {
		status.ReadingsStored.Inc()
	}

	targets := l.d.Phases.Targets()
	desired := l.d.Engine.Decide(logic.Input{
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Hour:        r.Taken.Hour(),
	}, targets.Ranges, l.d.Acts.OnStates())

	l.applyAuto(actuator.Fogger, desired.Fogger)
	l.applyAuto(actuator.Fan, desired.Fan)
	l.applyAuto(actuator.Light, desired.Light)

	if err := l.d.Pub.PublishReading(r); err != nil {
		log.Printf("control: reading publish failed: %v", err)
	}

	l.refreshStatus(r, logic.AssessTemperature(r.Temperature, targets.Ranges))
}

// HealthCheck probes the primary store and refreshes persistence status.
// Scheduled independently of the control tick.
func (l *Loop) HealthCheck(ctx context.Context) {
	l.d.Store.HealthCheck(ctx)
	l.publishPersistence()
}

// heartbeatEvery is the period of the retained liveness event on the
// system topic.
const heartbeatEvery = 15 * time.Minute

// StartJobs schedules the health check, the telemetry heartbeat, and,
// when enabled, the phase advancement check. Stop the returned cron on
// shutdown. ctx cancellation aborts an in-flight drain between entries,
// the same way it stops Run.
func (l *Loop) StartJobs(ctx context.Context, healthEvery time.Duration, autoAdvance bool) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", healthEvery), func() {
		l.HealthCheck(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule health check: %w", err)
	}
	_, err = c.AddFunc(fmt.Sprintf("@every %s", heartbeatEvery), func() {
		err := l.d.Pub.PublishSystem(telemetry.SystemEvent{
			Timestamp: l.d.Now(),
			Event:     "HEARTBEAT",
			Retained:  true,
		})
		if err != nil {
			log.Printf("control: heartbeat publish failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule heartbeat: %w", err)
	}
	if autoAdvance {
		_, err := c.AddFunc("@hourly", func() {
			advanced, err := l.d.Phases.AdvanceIfDue()
			if err != nil {
				log.Printf("control: phase advancement failed: %v", err)
				return
			}
			if advanced {
				p, at := l.d.Phases.Current()
				l.d.Tracker.SetPhase(p.String(), at)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule phase advancement: %w", err)
		}
	}
	c.Start()
	return c, nil
}

// SetPhase handles the dashboard phase command.
func (l *Loop) SetPhase(name string, force bool) error {
	p, err := phase.Parse(name)
	if err != nil {
		return err
	}
	if err := l.d.Phases.Set(p, force); err != nil {
		return err
	}
	cur, at := l.d.Phases.Current()
	l.d.Tracker.SetPhase(cur.String(), at)
	log.Printf("control: phase set to %s (force=%v)", cur, force)
	return nil
}

// Override handles the dashboard manual actuator command.
func (l *Loop) Override(ch actuator.Channel, on bool, d time.Duration) error {
	transitioned := l.d.Acts.Override(ch, on, d)
	st := l.d.Acts.State(ch)
	if transitioned {
		status.ActuatorTransitions.WithLabelValues(string(ch), string(actuator.ReasonManual)).Inc()
	}
	if err := l.d.Pub.PublishActuator(ch, st); err != nil {
		log.Printf("control: actuator publish failed: %v", err)
	}
	l.d.Tracker.SetActuators(l.d.Acts.States(), l.d.Acts.Faults())
	return nil
}

// ResumeAuto lifts a manual override from the dashboard.
func (l *Loop) ResumeAuto(ch actuator.Channel) error {
	l.d.Acts.ResumeAuto(ch)
	l.d.Tracker.SetActuators(l.d.Acts.States(), l.d.Acts.Faults())
	log.Printf("control: %s returned to automatic control", ch)
	return nil
}

func (l *Loop) applyAuto(ch actuator.Channel, on bool) {
	if !l.d.Acts.Apply(ch, on) {
		return
	}
	st := l.d.Acts.State(ch)
	status.ActuatorTransitions.WithLabelValues(string(ch), string(actuator.ReasonAuto)).Inc()
	log.Printf("control: %s -> %v (auto)", ch, on)
	if err := l.d.Pub.PublishActuator(ch, st); err != nil {
		log.Printf("control: actuator publish failed: %v", err)
	}
}

func (l *Loop) refreshStatus(r sensor.Reading, cond logic.TempCondition) {
	l.d.Tracker.SetReading(r, cond)
	p, at := l.d.Phases.Current()
	l.d.Tracker.SetPhase(p.String(), at)
	l.d.Tracker.SetActuators(l.d.Acts.States(), l.d.Acts.Faults())
	if l.d.Conn != nil {
		l.d.Tracker.SetMQTTConnected(l.d.Conn.IsConnected())
	}
	l.publishPersistence()

	for ch, n := range l.d.Acts.Faults() {
		status.ChannelFaults.WithLabelValues(string(ch)).Set(float64(n))
	}
}

func (l *Loop) publishPersistence() {
	st := l.d.Store.Status()
	l.d.Tracker.SetPersistence(st)
	status.PendingQueueDepth.Set(float64(st.QueueDepth))
	status.ReadingsDropped.Set(float64(st.Dropped))
	if st.PrimaryActive {
		status.PrimaryActive.Set(1)
	} else {
		status.PrimaryActive.Set(0)
	}

	l.mu.Lock()
	if l.haveStoreSt && l.primaryUp && !st.PrimaryActive {
		status.Failovers.Inc()
	}
	l.primaryUp = st.PrimaryActive
	l.haveStoreSt = true
	l.mu.Unlock()
}
