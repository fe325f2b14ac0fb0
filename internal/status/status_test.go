package status

import (
	"testing"
	"time"

	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/logic"
	"github.com/pentaplets/chamber-control/internal/sensor"
	"github.com/pentaplets/chamber-control/internal/store"
)

func TestTrackerSnapshotIsACopy(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{DeviceID: "chamber-01"})

	r := sensor.Reading{ID: "r1", Humidity: 88}
	tr.SetReading(r, logic.TempOK)

	snap := tr.Snapshot()
	if !snap.HaveReading || snap.Reading.ID != "r1" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	// Later updates must not leak into the taken snapshot.
	tr.SetReading(sensor.Reading{ID: "r2"}, logic.TempHigh)
	if snap.Reading.ID != "r1" {
		t.Error("snapshot mutated after a later update")
	}
}

func TestTrackerRecordsAllSections(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{DeviceID: "chamber-01", Broker: "tcp://broker:1883"})

	tr.SetPhase("pinning", start)
	tr.SetActuators(
		map[actuator.Channel]actuator.State{actuator.Fogger: {On: true, Reason: actuator.ReasonAuto}},
		map[actuator.Channel]uint64{actuator.Fogger: 2},
	)
	tr.SetPersistence(store.Status{Active: "local", QueueDepth: 3, Dropped: 1})
	tr.SetMQTTConnected(true)
	tr.TickSkipped()

	snap := tr.Snapshot()
	if snap.Phase != "pinning" {
		t.Errorf("expected phase pinning, got %s", snap.Phase)
	}
	if st, ok := snap.Actuators[actuator.Fogger]; !ok || !st.On {
		t.Errorf("expected fogger ON in snapshot, got %+v", snap.Actuators)
	}
	if snap.Faults[actuator.Fogger] != 2 {
		t.Errorf("expected 2 fogger faults, got %d", snap.Faults[actuator.Fogger])
	}
	if snap.Persistence.Active != "local" || snap.Persistence.QueueDepth != 3 {
		t.Errorf("unexpected persistence status: %+v", snap.Persistence)
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTT connected")
	}
	if snap.TicksSkipped != 1 {
		t.Errorf("expected 1 skipped tick, got %d", snap.TicksSkipped)
	}
	if snap.Config.Broker != "tcp://broker:1883" {
		t.Errorf("unexpected config: %+v", snap.Config)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, Config{})

	up := tr.Snapshot().Uptime()
	if up < 89*time.Second || up > 92*time.Second {
		t.Errorf("expected ~90s uptime, got %v", up)
	}
}
