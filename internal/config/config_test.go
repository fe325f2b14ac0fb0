package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pentaplets/chamber-control/internal/phase"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Poll() != 10*time.Second {
		t.Errorf("expected 10s poll, got %v", cfg.Poll())
	}
	if cfg.HysteresisBand != 3 {
		t.Errorf("expected band 3, got %v", cfg.HysteresisBand)
	}
	if cfg.MinDwell() != time.Minute {
		t.Errorf("expected 60s dwell, got %v", cfg.MinDwell())
	}
	if cfg.AutoAdvance {
		t.Error("auto advancement must default to off")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DeviceID != "chamber-01" {
		t.Errorf("expected default device id, got %s", cfg.DeviceID)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chamber.yaml")
	data := `
device_id: chamber-02
poll_seconds: 5
hysteresis_band: 2.5
broker: tcp://broker.lan:1883
phases:
  pinning:
    temp_min: 17
    temp_max: 19
    humidity_min: 88
    humidity_max: 96
    light_required: true
    light_on_hour: 7
    light_off_hour: 19
    duration_days: 8
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DeviceID != "chamber-02" {
		t.Errorf("expected chamber-02, got %s", cfg.DeviceID)
	}
	if cfg.Poll() != 5*time.Second {
		t.Errorf("expected 5s poll, got %v", cfg.Poll())
	}
	if cfg.HysteresisBand != 2.5 {
		t.Errorf("expected band 2.5, got %v", cfg.HysteresisBand)
	}

	// Untouched keys keep their defaults.
	if cfg.HealthSeconds != 30 {
		t.Errorf("expected default health interval, got %d", cfg.HealthSeconds)
	}

	targets, err := cfg.PhaseTargets()
	if err != nil {
		t.Fatalf("PhaseTargets: %v", err)
	}
	pin := targets[phase.Pinning]
	if pin.Ranges.HumidityMin != 88 || pin.Ranges.LightOnHour != 7 || pin.DurationDays != 8 {
		t.Errorf("pinning override not applied: %+v", pin)
	}
	// Other phases keep the stock table.
	if targets[phase.Fruiting].Ranges.HumidityMin != 80 {
		t.Errorf("fruiting should keep defaults: %+v", targets[phase.Fruiting])
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero band", func(c *Config) { c.HysteresisBand = 0 }},
		{"negative poll", func(c *Config) { c.PollSeconds = -1 }},
		{"zero dwell", func(c *Config) { c.MinDwellSeconds = 0 }},
		{"zero queue", func(c *Config) { c.QueueCapacity = 0 }},
		{"empty device", func(c *Config) { c.DeviceID = "" }},
		{"missing phase", func(c *Config) { delete(c.Phases, "pinning") }},
		{"bad light hour", func(c *Config) {
			pc := c.Phases["pinning"]
			pc.LightOnHour = 25
			c.Phases["pinning"] = pc
		}},
		{"missing pin", func(c *Config) { delete(c.Pins, "fan") }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
