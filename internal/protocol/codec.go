package protocol

// Codec translates between TreadmillState/commands and wire bytes for one
// of the two supported dialects. Implementations are stateless process
// singletons; see StandardCodec, FTMSCodec and Detect in registry.go for
// how instances are obtained and memoized.
type Codec interface {
	// Name identifies the codec ("standard" or "ftms") for session info
	// and logging.
	Name() string

	// AskStats builds a status-request payload, or nil if this protocol
	// has no explicit poll command (FTMS is notification-driven).
	AskStats() []byte

	// Start builds a start/resume command.
	Start() []byte

	// Stop builds a stop/pause command.
	Stop() []byte

	// SetSpeed builds a set-target-speed command for v km/h, or fails
	// with *SpeedOutOfRange if v is non-finite or outside the protocol's
	// accepted range.
	SetSpeed(v float64) ([]byte, error)

	// RequestControl builds a control handshake payload, or nil if this
	// protocol requires none.
	RequestControl() []byte

	// ParseStatus decodes a status/notification packet into a state
	// snapshot, returning the default snapshot for undersized input.
	ParseStatus(buf []byte) TreadmillState
}
