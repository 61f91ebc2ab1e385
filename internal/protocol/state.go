// Package protocol implements the two wire-compatible treadmill dialects:
// the proprietary framed "standard" protocol and Bluetooth's Fitness
// Machine Service (FTMS). Both codecs parse into the same TreadmillState
// snapshot and are exposed behind the Codec interface so the orchestrator
// never branches on which one it is talking to.
package protocol

import "github.com/walkingpad/padctl/internal/clamp"

// DeviceState mirrors the treadmill's reported run state.
type DeviceState int

const (
	DeviceIdle DeviceState = iota
	DeviceRunning
	DeviceStarting
	DevicePaused
)

// ControlMode mirrors who is driving the treadmill's speed.
type ControlMode int

const (
	ModeStandby ControlMode = iota
	ModeManual
	ModeAuto
)

// TreadmillState is the observable snapshot published on every parsed
// status/notification packet. It is always clamped into valid ranges
// before being handed to a caller.
type TreadmillState struct {
	DeviceState DeviceState
	ControlMode ControlMode
	SpeedKmh    float64
	TimeSeconds int
	DistanceKm  float64
	Steps       int
	IsRunning   bool
}

// DefaultState returns a fresh all-zero/false snapshot. Callers must
// never share or mutate a cached instance; every parse produces its own.
func DefaultState() TreadmillState {
	return TreadmillState{}
}

func clampDeviceState(raw float64) DeviceState {
	return DeviceState(clamp.DeviceState(raw))
}

func clampControlMode(raw float64) ControlMode {
	return ControlMode(clamp.ControlMode(raw))
}
