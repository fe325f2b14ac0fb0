package main

import (
	"testing"

	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/config"
	"github.com/pentaplets/chamber-control/internal/sensor"
)

func TestBuildCapabilitiesSimulated(t *testing.T) {
	cfg := config.Default()
	cfg.Simulate = true

	reader, driver, err := buildCapabilities(cfg)
	if err != nil {
		t.Fatalf("buildCapabilities: %v", err)
	}
	defer reader.Close()
	defer driver.Close()

	if _, ok := reader.(*sensor.SimReader); !ok {
		t.Errorf("expected simulated reader, got %T", reader)
	}
	if _, ok := driver.(*actuator.SimDriver); !ok {
		t.Errorf("expected simulated driver, got %T", driver)
	}
}

func TestBuildCapabilitiesRefusesRelaysWithoutHardwareSensor(t *testing.T) {
	cfg := config.Default()
	cfg.Simulate = false

	reader, driver, err := buildCapabilities(cfg)
	if err == nil {
		t.Fatalf("expected error, got reader=%T driver=%T", reader, driver)
	}
	if reader != nil || driver != nil {
		t.Errorf("expected nil capabilities on error, got %T/%T", reader, driver)
	}
}
