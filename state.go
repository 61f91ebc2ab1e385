// Package walkingpad is the public control library for WalkingPad-family
// treadmills: connect over BLE, drive start/stop/set-speed, and observe
// live state — with the wire-protocol and GATT-role detail handled
// entirely by the internal packages this type aliases and composes.
package walkingpad

import (
	"github.com/walkingpad/padctl/internal/protocol"
	"github.com/walkingpad/padctl/internal/statemachine"
)

// TreadmillState is the observable state snapshot published on every
// parsed status/notification packet.
type TreadmillState = protocol.TreadmillState

// DeviceState is the treadmill's reported run state.
type DeviceState = protocol.DeviceState

// ControlMode is who is currently driving the treadmill's speed.
type ControlMode = protocol.ControlMode

const (
	DeviceIdle     = protocol.DeviceIdle
	DeviceRunning  = protocol.DeviceRunning
	DeviceStarting = protocol.DeviceStarting
	DevicePaused   = protocol.DevicePaused

	ModeStandby = protocol.ModeStandby
	ModeManual  = protocol.ModeManual
	ModeAuto    = protocol.ModeAuto
)

// ConnectionState is one of disconnected/connecting/connected/error.
type ConnectionState = statemachine.State

const (
	Disconnected = statemachine.Disconnected
	Connecting   = statemachine.Connecting
	Connected    = statemachine.Connected
	Error        = statemachine.Error
)

// ConnectionStateChange is published on every accepted state transition.
type ConnectionStateChange struct {
	From ConnectionState
	To   ConnectionState
}

// SessionInfo describes the live connection. Only returned while the
// client is Connected.
type SessionInfo struct {
	CodecName    string
	ServiceUUIDs []string
}
