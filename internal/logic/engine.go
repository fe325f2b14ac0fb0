package logic

// Engine computes desired channel states from a sample and the active
// phase's target ranges. Decide is a pure function: the hysteresis state
// lives in the caller's current channel states, not here.
type Engine struct {
	// Band is the hysteresis dead zone in %RH. Must be > 0 so opposite
	// transitions on one channel cannot chase sensor noise at a boundary.
	Band float64
}

// NewEngine creates an engine with the given hysteresis band.
func NewEngine(band float64) Engine {
	return Engine{Band: band}
}

// Decide returns the desired channel states for the given sample.
//
// Fogger: on below HumidityMin, off at or above HumidityMin+Band,
// otherwise unchanged. Fan: on above HumidityMax, off at or below
// HumidityMax-Band, otherwise unchanged. If both would be on (malformed
// ranges or noise), Fan wins: drying is the safer default against
// condensation. Light follows the photoperiod only.
func (e Engine) Decide(in Input, t Ranges, cur ChannelStates) ChannelStates {
	next := cur

	switch {
	case in.Humidity < t.HumidityMin:
		next.Fogger = true
	case in.Humidity >= t.HumidityMin+e.Band:
		next.Fogger = false
	}

	switch {
	case in.Humidity > t.HumidityMax:
		next.Fan = true
	case in.Humidity <= t.HumidityMax-e.Band:
		next.Fan = false
	}

	// Fan takes precedence: never run both.
	if next.Fan && next.Fogger {
		next.Fogger = false
	}

	next.Light = t.LightRequired && hourWithin(in.Hour, t.LightOnHour, t.LightOffHour)

	return next
}

// AssessTemperature reports the advisory temperature condition against the
// closed interval [TempMin, TempMax].
func AssessTemperature(temp float64, t Ranges) TempCondition {
	if temp < t.TempMin {
		return TempLow
	}
	if temp > t.TempMax {
		return TempHigh
	}
	return TempOK
}

// hourWithin reports whether hour falls in [on, off). A window with
// off <= on wraps past midnight.
func hourWithin(hour, on, off int) bool {
	if on == off {
		return false
	}
	if on < off {
		return hour >= on && hour < off
	}
	return hour >= on || hour < off
}
