package protocol

import (
	"math"

	"github.com/walkingpad/padctl/internal/byteutil"
	"github.com/walkingpad/padctl/internal/clamp"
)

const (
	standardHeader1 = 0xF7
	standardHeader2 = 0xA2
	standardSuffix  = 0xFD

	standardMinSpeedKmh = 0.5
	standardMaxSpeedKmh = 6.0
	standardMinStatusLen = 16
)

// Standard implements Codec for the proprietary framed protocol used by
// legacy WalkingPad models: [0xF7, 0xA2, <body...>, checksum, 0xFD].
type Standard struct{}

// buildFrame wraps body in the standard header/checksum/suffix envelope.
// The checksum is the sum of every byte from the second header byte
// through the last body byte, mod 256 — the suffix and the checksum
// byte itself are excluded.
func buildFrame(body []byte) []byte {
	frame := make([]byte, 0, len(body)+4)
	frame = append(frame, standardHeader1, standardHeader2)
	frame = append(frame, body...)

	sum := 0
	for _, b := range frame[1:] {
		sum += int(b)
	}
	checksum := byte(sum % 256)

	frame = append(frame, checksum, standardSuffix)
	return frame
}

// Name identifies this codec variant.
func (Standard) Name() string { return "standard" }

// AskStats builds a status-request command.
func (Standard) AskStats() []byte {
	return buildFrame([]byte{0x00})
}

// Start builds a start-walking command.
func (Standard) Start() []byte {
	return buildFrame([]byte{0x04, 0x01})
}

// Stop builds a stop-walking command.
func (Standard) Stop() []byte {
	return buildFrame([]byte{0x04, 0x00})
}

// SetSpeed builds a set-speed command for v km/h. v must be finite and
// within [0.5, 6.0]; any other value fails with SpeedOutOfRange.
func (Standard) SetSpeed(v float64) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < standardMinSpeedKmh || v > standardMaxSpeedKmh {
		return nil, &SpeedOutOfRange{Value: v, Min: standardMinSpeedKmh, Max: standardMaxSpeedKmh}
	}
	return buildFrame([]byte{0x03, byte(math.Round(v * 10))}), nil
}

// RequestControl is a no-op for this protocol: no handshake command is
// required before issuing other commands.
func (Standard) RequestControl() []byte {
	return nil
}

// ParseStatus decodes a status/notification packet into a TreadmillState.
// Inputs shorter than 16 bytes yield the default state verbatim; offsets
// beyond that length guard are read unchecked, matching the wire layout.
func (Standard) ParseStatus(buf []byte) TreadmillState {
	if len(buf) < standardMinStatusLen {
		return DefaultState()
	}

	state := clampDeviceState(float64(byteutil.U8(buf, 2)))
	speed := clamp.Speed(float64(byteutil.U8(buf, 3)) / 10.0)
	mode := clampControlMode(float64(byteutil.U8(buf, 4)))
	timeSeconds := int(clamp.Time(float64(byteutil.U24BE(buf, 5))))
	distanceKm := clamp.Distance(float64(byteutil.U24BE(buf, 8)) / 100.0)
	steps := int(clamp.Steps(float64(byteutil.U24BE(buf, 11))))

	return TreadmillState{
		DeviceState: state,
		ControlMode: mode,
		SpeedKmh:    speed,
		TimeSeconds: timeSeconds,
		DistanceKm:  distanceKm,
		Steps:       steps,
		IsRunning:   speed > 0 || state == DeviceRunning,
	}
}
