package protocol

import (
	"math"

	"github.com/walkingpad/padctl/internal/byteutil"
	"github.com/walkingpad/padctl/internal/clamp"
)

const (
	ftmsMinSpeedKmh = 0.5
	ftmsMaxSpeedKmh = 6.0
)

// ftmsField describes one optional treadmill-data field, in the fixed
// order the FTMS flags word gates them.
type ftmsField struct {
	bit   uint16 // bit position within the flags word
	width int    // byte width on the wire
}

var ftmsFields = []ftmsField{
	{bit: 1, width: 2}, // average speed (skipped)
	{bit: 2, width: 3}, // total distance (parsed)
	{bit: 3, width: 4}, // inclination + ramp angle (skipped)
	{bit: 4, width: 2}, // elevation gain (skipped)
	{bit: 5, width: 1}, // instantaneous pace (skipped)
	{bit: 6, width: 1}, // average pace (skipped)
	{bit: 7, width: 5}, // expended energy (skipped)
	{bit: 8, width: 1}, // heart rate (skipped)
	{bit: 9, width: 1}, // metabolic equivalent (skipped)
	{bit: 10, width: 2}, // elapsed time (parsed)
}

const (
	ftmsBitTotalDistance = 2
	ftmsBitElapsedTime   = 10
)

// FTMS implements Codec for the Bluetooth Fitness Machine Service.
type FTMS struct{}

// Name identifies this codec variant.
func (FTMS) Name() string { return "ftms" }

// AskStats returns nil: FTMS is purely notification-driven and has no
// poll command, which is how the poll manager opts it out of polling.
func (FTMS) AskStats() []byte {
	return nil
}

// Start builds an FTMS control-point start/resume command.
func (FTMS) Start() []byte {
	return []byte{0x07}
}

// Stop builds an FTMS control-point stop/pause command.
func (FTMS) Stop() []byte {
	return []byte{0x08, 0x01}
}

// SetSpeed builds an FTMS set-target-speed command for v km/h. v must be
// finite and within [0.5, 6.0]; any other value fails with
// SpeedOutOfRange.
func (FTMS) SetSpeed(v float64) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < ftmsMinSpeedKmh || v > ftmsMaxSpeedKmh {
		return nil, &SpeedOutOfRange{Value: v, Min: ftmsMinSpeedKmh, Max: ftmsMaxSpeedKmh}
	}
	raw := uint16(math.Round(v * 100))
	return []byte{0x02, byte(raw), byte(raw >> 8)}, nil
}

// RequestControl builds the FTMS control-point take-control command,
// required once before any other control-point command is accepted.
func (FTMS) RequestControl() []byte {
	return []byte{0x00}
}

// ParseTreadmillData decodes an FTMS treadmill-data notification. Inputs
// shorter than 2 bytes (no flags word) or 4 bytes (no instantaneous
// speed) yield the default state. Optional fields are consumed in their
// fixed protocol order only when their flag bit is set; if a flagged
// field would exceed the buffer, parsing halts immediately and returns
// whatever was accumulated so far.
func (FTMS) ParseTreadmillData(buf []byte) TreadmillState {
	if len(buf) < 2 {
		return DefaultState()
	}
	flags := byteutil.U16LE(buf, 0)
	if len(buf) < 4 {
		return DefaultState()
	}

	speed := clamp.Speed(float64(byteutil.U16LE(buf, 2)) / 100.0)
	state := TreadmillState{
		DeviceState: clampDeviceState(boolToFloat(speed > 0)),
		ControlMode: clampControlMode(boolToFloat(speed > 0)),
		SpeedKmh:    speed,
		IsRunning:   speed > 0,
	}

	offset := 4
	for _, f := range ftmsFields {
		if flags&(1<<f.bit) == 0 {
			continue
		}
		if offset+f.width > len(buf) {
			return state
		}
		switch f.bit {
		case ftmsBitTotalDistance:
			meters := byteutil.U24LE(buf, offset)
			state.DistanceKm = clamp.Distance(float64(meters) / 1000.0)
		case ftmsBitElapsedTime:
			state.TimeSeconds = int(clamp.Time(float64(byteutil.U16LE(buf, offset))))
		}
		offset += f.width
	}

	if offset+2 <= len(buf) {
		state.Steps = int(clamp.Steps(float64(byteutil.U16LE(buf, offset))))
	}

	return state
}

// ParseStatus satisfies Codec by delegating to ParseTreadmillData; FTMS
// status and notification packets share the same wire layout.
func (c FTMS) ParseStatus(buf []byte) TreadmillState {
	return c.ParseTreadmillData(buf)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
