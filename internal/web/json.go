package web

import (
	"encoding/json"
	"time"

	"github.com/pentaplets/chamber-control/internal/sensor"
	"github.com/pentaplets/chamber-control/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Phase            string                  `json:"phase"`
	PhaseActivatedAt string                  `json:"phase_activated_at,omitempty"`
	Reading          *ReadingJSON            `json:"reading,omitempty"`
	TempCondition    string                  `json:"temp_condition"`
	Actuators        map[string]ActuatorJSON `json:"actuators"`
	Persistence      PersistenceJSON         `json:"persistence"`
	MQTT             MQTTStatus              `json:"mqtt"`
	TicksSkipped     uint64                  `json:"ticks_skipped"`
	UptimeSeconds    int64                   `json:"uptime_seconds"`
	StartTime        string                  `json:"start_time"`
	Timestamp        string                  `json:"timestamp"`
	Config           ConfigJSON              `json:"config"`
}

// ReadingJSON is the JSON representation of one sensor reading.
type ReadingJSON struct {
	ID          string  `json:"id"`
	DeviceID    string  `json:"device_id"`
	Taken       string  `json:"taken"`
	Temperature float64 `json:"temperature_c"`
	Humidity    float64 `json:"humidity_pct"`
	LightLux    float64 `json:"light_lux"`
	CO2PPM      float64 `json:"co2_ppm"`
}

// ActuatorJSON is the JSON representation of one channel's state.
type ActuatorJSON struct {
	On             bool   `json:"on"`
	Reason         string `json:"reason"`
	LastTransition string `json:"last_transition,omitempty"`
	OverrideUntil  string `json:"override_until,omitempty"`
	Faulted        bool   `json:"faulted"`
	FaultCount     uint64 `json:"fault_count"`
}

// PersistenceJSON reports the dual-store failover state.
type PersistenceJSON struct {
	Active        string `json:"active"`
	PrimaryActive bool   `json:"primary_active"`
	QueueDepth    int    `json:"queue_depth"`
	Dropped       uint64 `json:"dropped"`
	LastFailover  string `json:"last_failover,omitempty"`
	FallbackFault bool   `json:"fallback_fault"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	DeviceID   string  `json:"device_id"`
	PollMs     int64   `json:"poll_ms"`
	HealthMs   int64   `json:"health_check_ms"`
	DwellMs    int64   `json:"min_dwell_ms"`
	OverrideMs int64   `json:"override_ms"`
	Band       float64 `json:"hysteresis_band"`
	HTTPAddr   string  `json:"http_addr"`
}

func formatReading(r sensor.Reading) *ReadingJSON {
	return &ReadingJSON{
		ID:          r.ID,
		DeviceID:    r.DeviceID,
		Taken:       r.Taken.UTC().Format(time.RFC3339),
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		LightLux:    r.LightLux,
		CO2PPM:      r.CO2PPM,
	}
}

func formatJSON(snap status.Snapshot) []byte {
	actuators := make(map[string]ActuatorJSON, len(snap.Actuators))
	for ch, st := range snap.Actuators {
		aj := ActuatorJSON{
			On:         st.On,
			Reason:     string(st.Reason),
			Faulted:    st.Faulted,
			FaultCount: snap.Faults[ch],
		}
		if !st.LastTransition.IsZero() {
			aj.LastTransition = st.LastTransition.UTC().Format(time.RFC3339)
		}
		if !st.OverrideUntil.IsZero() {
			aj.OverrideUntil = st.OverrideUntil.UTC().Format(time.RFC3339)
		}
		actuators[string(ch)] = aj
	}

	persistence := PersistenceJSON{
		Active:        snap.Persistence.Active,
		PrimaryActive: snap.Persistence.PrimaryActive,
		QueueDepth:    snap.Persistence.QueueDepth,
		Dropped:       snap.Persistence.Dropped,
		FallbackFault: snap.Persistence.FallbackFault,
	}
	if !snap.Persistence.LastFailover.IsZero() {
		persistence.LastFailover = snap.Persistence.LastFailover.UTC().Format(time.RFC3339)
	}

	sj := StatusJSON{
		Status: StatusInner{
			Phase:         snap.Phase,
			TempCondition: string(snap.TempCondition),
			Actuators:     actuators,
			Persistence:   persistence,
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			TicksSkipped:  snap.TicksSkipped,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			Config: ConfigJSON{
				DeviceID:   snap.Config.DeviceID,
				PollMs:     snap.Config.PollMs,
				HealthMs:   snap.Config.HealthMs,
				DwellMs:    snap.Config.DwellMs,
				OverrideMs: snap.Config.OverrideMs,
				Band:       snap.Config.Band,
				HTTPAddr:   snap.Config.HTTPAddr,
			},
		},
	}
	if snap.HaveReading {
		sj.Status.Reading = formatReading(snap.Reading)
	}
	if !snap.PhaseActivatedAt.IsZero() {
		sj.Status.PhaseActivatedAt = snap.PhaseActivatedAt.UTC().Format(time.RFC3339)
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
