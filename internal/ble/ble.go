// Package ble declares the minimal BLE stack contract the orchestrator
// depends on (spec §6): opening/reusing a device connection, listing
// primary services and their characteristics, and writing to or
// subscribing on a characteristic. internal/gatt and the orchestrator
// depend only on these interfaces; tinygo_adapter.go and fake_adapter.go
// are its two implementations (real hardware, in-memory test double).
package ble

import "context"

// Filter selects candidate peripherals by advertised local-name prefix,
// matching the spec's default-device-picker criterion.
type Filter struct {
	NamePrefix string
}

// ConnectParams configures a fresh device selection.
type ConnectParams struct {
	Filters          []Filter
	OptionalServices []string
	RememberDevice   bool
}

// Adapter opens or resumes a peripheral connection. A single Adapter
// instance is process-lifetime; Connect may prompt a user-visible device
// picker when no cached identity exists.
type Adapter interface {
	// Connect opens a new device selection (or reuses a cached one, stack
	// dependent) and returns a live Session.
	Connect(ctx context.Context, params ConnectParams) (Session, error)

	// Reconnect resumes the most recently connected device's cached
	// identity. Returns a nil Session and nil error if the stack has no
	// cached identity or does not support reconnection; the orchestrator
	// treats that as a clean failure rather than an error.
	Reconnect(ctx context.Context) (Session, error)
}

// Session is a single live peripheral connection.
type Session interface {
	// DeviceID returns a stable identifier for the connected peripheral
	// (e.g. its BLE address), suitable for the device-id persistence
	// slot. May be empty if the stack exposes no stable identity.
	DeviceID() string

	// PrimaryServices lists the peripheral's top-level GATT services.
	PrimaryServices(ctx context.Context) ([]Service, error)

	// Disconnect tears down the connection. Idempotent.
	Disconnect() error

	// OnDisconnect registers a callback fired once if the peripheral
	// disconnects unexpectedly (not in response to our own Disconnect
	// call). Returns an unsubscribe function; a stack that cannot detect
	// unsolicited disconnects may leave this unimplemented by never
	// invoking the callback.
	OnDisconnect(callback func()) (unsubscribe func())
}

// Service is one GATT primary service.
type Service interface {
	UUID() string
	Characteristics(ctx context.Context) ([]Characteristic, error)
}

// Characteristic is one GATT characteristic: a single addressed value
// with a property set and, optionally, server-initiated updates.
type Characteristic interface {
	UUID() string

	CanNotify() bool
	CanIndicate() bool
	CanWrite() bool
	CanWriteWithoutResponse() bool

	// WriteWithResponse performs a write-with-response, blocking until the
	// peripheral acknowledges or ctx is done.
	WriteWithResponse(ctx context.Context, data []byte) error

	// WriteWithoutResponse performs a fire-and-forget write.
	WriteWithoutResponse(ctx context.Context, data []byte) error

	// StartNotifications enables server-initiated value updates and
	// registers the handler invoked on each one. Only one handler may be
	// active at a time; a second call replaces the first.
	StartNotifications(ctx context.Context, handler func(value []byte)) error

	// StopNotifications disables updates and clears the handler.
	StopNotifications() error

	// CurrentValue returns a defensive copy of the characteristic's last
	// known value. Safe to retain; never a view over stack-owned memory.
	CurrentValue() []byte
}
