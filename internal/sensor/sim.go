package sensor

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// SimReader generates plausible chamber readings without hardware:
// temperature follows a daily cycle, humidity a 12-hour cycle, light tracks
// the configured photoperiod and CO2 drifts on an hourly cycle.
type SimReader struct {
	deviceID string
	now      func() time.Time
	rng      *rand.Rand
}

// NewSim creates a simulated sensor for the given device.
func NewSim(deviceID string, now func() time.Time) *SimReader {
	if now == nil {
		now = time.Now
	}
	return &SimReader{
		deviceID: deviceID,
		now:      now,
		rng:      rand.New(rand.NewSource(now().UnixNano())),
	}
}

// Read returns the next simulated reading.
func (s *SimReader) Read(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}

	t := s.now()
	secs := float64(t.Unix())

	temp := 21 + 2*math.Sin(secs/86400) + s.jitter(0.5)
	humidity := 82.5 + 5*math.Sin(secs/43200) + s.jitter(2)
	co2 := 800 + 200*math.Sin(secs/3600) + s.jitter(50)

	// Light follows a 06:00-18:00 day; near-dark at night.
	var light float64
	hour := t.Hour()
	if hour >= 6 && hour < 18 {
		light = 500 + 300*math.Sin(float64(hour-6)*math.Pi/12) + s.jitter(50)
	} else {
		light = s.rng.Float64() * 50
	}

	return Reading{
		ID:          NewID(),
		DeviceID:    s.deviceID,
		Taken:       t,
		Temperature: round1(temp),
		Humidity:    round1(humidity),
		LightLux:    round1(light),
		CO2PPM:      round1(co2),
	}, nil
}

// Close is a no-op for the simulator.
func (s *SimReader) Close() error {
	return nil
}

func (s *SimReader) jitter(scale float64) float64 {
	return (s.rng.Float64()*2 - 1) * scale
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
