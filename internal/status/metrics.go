package status

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the chamber daemon. The control loop updates
// these alongside the tracker; /metrics on the API server exposes them.
var (
	ReadingsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamber_readings_stored_total",
		Help: "Readings submitted to the persistence layer.",
	})

	TicksSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamber_ticks_skipped_total",
		Help: "Control ticks abandoned on sensor faults.",
	})

	PendingQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chamber_pending_queue_depth",
		Help: "Readings buffered for the primary store.",
	})

	ReadingsDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chamber_readings_dropped_total",
		Help: "Readings lost to pending queue overflow.",
	})

	PrimaryActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chamber_primary_store_active",
		Help: "1 when the primary store is taking writes.",
	})

	Failovers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamber_failovers_total",
		Help: "Times the primary store was marked inactive.",
	})

	ActuatorTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chamber_actuator_transitions_total",
		Help: "Accepted actuator transitions.",
	}, []string{"channel", "reason"})

	ChannelFaults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chamber_channel_faults_total",
		Help: "Relay write failures per channel.",
	}, []string{"channel"})
)
