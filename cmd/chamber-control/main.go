// Command chamber-control keeps a mushroom fruiting chamber inside its
// phase targets: it polls the environment sensor, switches the fogger,
// fan, and light relays, persists readings to Postgres with a local
// fallback, and serves the dashboard API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/config"
	"github.com/pentaplets/chamber-control/internal/control"
	"github.com/pentaplets/chamber-control/internal/logic"
	"github.com/pentaplets/chamber-control/internal/phase"
	"github.com/pentaplets/chamber-control/internal/sensor"
	"github.com/pentaplets/chamber-control/internal/status"
	"github.com/pentaplets/chamber-control/internal/store"
	"github.com/pentaplets/chamber-control/internal/telemetry"
	"github.com/pentaplets/chamber-control/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (empty for defaults)")
	simulate := flag.Bool("sim", false, "Force simulated sensor and relays")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	httpAddr := flag.String("http", "", "Dashboard API address (overrides config)")
	postgresURL := flag.String("postgres", "", "Postgres URL (overrides config)")
	boltPath := flag.String("bolt", "", "Local store path (overrides config)")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *simulate {
		cfg.Simulate = true
	}
	if *broker != "" {
		cfg.Broker = *broker
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *postgresURL != "" {
		cfg.PostgresURL = *postgresURL
	}
	if *boltPath != "" {
		cfg.BoltPath = *boltPath
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config) error {
	// The local store is the durability floor. Refuse to start without it.
	bolt, err := store.OpenBolt(cfg.BoltPath)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer bolt.Close()

	postgres, err := store.OpenPostgres(cfg.PostgresURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("configure postgres: %w", err)
	}
	defer postgres.Close()

	failover := store.NewFailover(postgres, bolt, cfg.QueueCapacity, time.Now)

	targets, err := cfg.PhaseTargets()
	if err != nil {
		return fmt.Errorf("phase targets: %w", err)
	}
	phases, err := phase.NewTracker(bolt, targets, time.Now)
	if err != nil {
		return fmt.Errorf("restore phase: %w", err)
	}

	reader, driver, err := buildCapabilities(cfg)
	if err != nil {
		return err
	}
	defer reader.Close()
	defer driver.Close()

	acts := actuator.NewCoordinator(driver, cfg.MinDwell(), cfg.OverrideDuration(), time.Now)

	publisher, err := telemetry.NewRealPublisher(cfg.Broker, cfg.DeviceID)
	if err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		DeviceID:   cfg.DeviceID,
		PollMs:     cfg.Poll().Milliseconds(),
		HealthMs:   cfg.HealthInterval().Milliseconds(),
		DwellMs:    cfg.MinDwell().Milliseconds(),
		OverrideMs: cfg.OverrideDuration().Milliseconds(),
		Band:       cfg.HysteresisBand,
		Broker:     cfg.Broker,
		HTTPAddr:   cfg.HTTPAddr,
	})
	cur, activated := phases.Current()
	tracker.SetPhase(cur.String(), activated)
	log.Printf("active phase: %s (since %s)", cur, activated.UTC().Format(time.RFC3339))

	loop := control.New(control.Deps{
		DeviceID: cfg.DeviceID,
		Sensor:   reader,
		Store:    failover,
		Engine:   logic.NewEngine(cfg.HysteresisBand),
		Phases:   phases,
		Acts:     acts,
		Pub:      publisher,
		Conn:     publisher,
		Tracker:  tracker,
	})

	// Probe the primary once so the first tick knows where it stands.
	loop.HealthCheck(context.Background())

	if err := publisher.PublishSystem(telemetry.SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Retained:  true,
	}); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, bolt, loop)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("dashboard api listening on %s", cfg.HTTPAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs, err := loop.StartJobs(ctx, cfg.HealthInterval(), cfg.AutoAdvance)
	if err != nil {
		return fmt.Errorf("schedule jobs: %w", err)
	}
	defer jobs.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		log.Printf("received %v, shutting down", s)
		if err := publisher.PublishSystem(telemetry.SystemEvent{
			Timestamp: time.Now(),
			Event:     "SHUTDOWN",
			Reason:    signalName(s),
			Retained:  true,
		}); err != nil {
			log.Printf("failed to publish shutdown event: %v", err)
		}
		cancel()
	}()

	log.Printf("started: device=%s poll=%v band=%.1f broker=%s", cfg.DeviceID, cfg.Poll(), cfg.HysteresisBand, cfg.Broker)

	ticker := time.NewTicker(cfg.Poll())
	defer ticker.Stop()

	return loop.Run(ctx, ticker.C)
}

// buildCapabilities selects the sensor and relay implementations as a
// pair: simulated readings must never drive real relays. Until a hardware
// Reader lands (SCD40/BH1750 behind sensor.Reader, paired with
// actuator.NewRelays(cfg.ChannelPins())), only simulation mode can start.
func buildCapabilities(cfg config.Config) (sensor.Reader, actuator.Driver, error) {
	if !cfg.Simulate {
		return nil, nil, errors.New("no hardware sensor driver is wired; set simulate: true or pass -sim")
	}
	log.Printf("running in simulation mode")
	return sensor.NewSim(cfg.DeviceID, time.Now), actuator.NewSimDriver(), nil
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
