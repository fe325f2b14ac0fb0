// Package logic contains pure decision logic for chamber environmental control.
// This package has NO external dependencies (no GPIO, DB, MQTT, OS, or time.Sleep).
// Time is always injectable: the caller passes the wall-clock hour.
package logic

// Ranges are the target environmental ranges of the active growth phase.
// Both ranges are closed intervals [Min, Max].
type Ranges struct {
	TempMin     float64
	TempMax     float64
	HumidityMin float64
	HumidityMax float64

	// LightRequired enables the photoperiod for this phase.
	LightRequired bool
	// Lights are on when LightOnHour <= hour < LightOffHour.
	LightOnHour  int
	LightOffHour int
}

// ChannelStates holds the on/off state of the three controlled channels.
type ChannelStates struct {
	Fogger bool
	Fan    bool
	Light  bool
}

// Input is a single evaluation sample.
type Input struct {
	Temperature float64 // °C
	Humidity    float64 // %RH
	Hour        int     // local wall-clock hour, 0-23
}

// TempCondition is the advisory temperature assessment. No heating channel
// is modeled, so out-of-range temperature is surfaced but drives nothing.
type TempCondition string

const (
	TempOK   TempCondition = "OK"
	TempLow  TempCondition = "LOW"
	TempHigh TempCondition = "HIGH"
)
