package walkingpad

import (
	"errors"

	"github.com/walkingpad/padctl/internal/gatt"
	"github.com/walkingpad/padctl/internal/protocol"
	"github.com/walkingpad/padctl/internal/transport"
)

// ErrDiscoveryFailed is surfaced when GATT discovery cannot assign both
// a write and a notify characteristic on a freshly connected peripheral.
var ErrDiscoveryFailed = gatt.ErrDiscoveryFailed

// NotConnected is returned by start/stop/set-speed when the connection
// state check — taken before and re-taken after the write — fails
// either side of the I/O.
var NotConnected = errors.New("walkingpad: not connected")

// ConnectionAborted is returned by Connect/Reconnect when their context
// is cancelled before the connection completes.
var ConnectionAborted = errors.New("walkingpad: connection aborted")

// ErrRangeError is returned by Connect and Reconnect when poll-interval-ms
// is non-finite or negative. A value of exactly 0 selects the default
// interval instead.
var ErrRangeError = errors.New("walkingpad: poll-interval-ms must be finite and > 0")

// SpeedOutOfRange is raised by SetSpeed for a non-finite or
// protocol-out-of-range value. It is a type alias of the codec-layer
// error so callers never need to import internal/protocol to type-assert
// on it.
type SpeedOutOfRange = protocol.SpeedOutOfRange

// TimeoutError is raised when a bounded BLE operation (write, enable
// notifications, connect) exceeds its deadline.
type TimeoutError = transport.TimeoutError
