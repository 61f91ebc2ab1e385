// Package poll implements the legacy-protocol status-request loop (spec
// §4.8): a periodic ask-stats write, fenced against restarts by a
// session token and stopped once its consecutive-error budget is spent.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/walkingpad/padctl/internal/ble"
	"github.com/walkingpad/padctl/internal/logging"
	"github.com/walkingpad/padctl/internal/protocol"
	"github.com/walkingpad/padctl/internal/transport"
)

const (
	DefaultInterval            = 3 * time.Second
	DefaultMaxConsecutiveError = 3

	// maxSessionToken bounds the token counter so it never grows without
	// bound across a long-lived process; it wraps rather than overflows.
	maxSessionToken = 1 << 30
)

// Manager runs one ask-stats write per tick against a session/codec pair
// supplied at Start. Timer callbacks hold only the plain Go references
// given to them (no separate handle retains the session once Stop has
// run); the session token is the mechanism that actually prevents a
// late-firing timer from doing anything once superseded.
type Manager struct {
	logger      logging.Logger
	onWriteFail func(error)

	mu                  sync.Mutex
	token               int
	timer               *time.Timer
	consecutiveErrors   int
	maxConsecutiveError int
}

// New creates a Manager. onWriteFail is invoked (outside any lock) once
// per failed write, used by the orchestrator to emit an error event;
// nil is accepted and simply drops the notification.
func New(logger logging.Logger, onWriteFail func(error)) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{
		logger:              logger,
		onWriteFail:         onWriteFail,
		maxConsecutiveError: DefaultMaxConsecutiveError,
	}
}

// SetMaxConsecutiveErrors overrides the default error budget.
func (m *Manager) SetMaxConsecutiveErrors(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > 0 {
		m.maxConsecutiveError = n
	}
}

// Start begins polling session/codec at interval (<= 0 selects
// DefaultInterval), implicitly stopping any run already in progress.
func (m *Manager) Start(session ble.Session, writeChar ble.Characteristic, codec protocol.Codec, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	m.mu.Lock()
	m.stopLocked()
	m.consecutiveErrors = 0
	myToken := m.token
	m.mu.Unlock()

	m.schedule(myToken, session, writeChar, codec, interval)
}

// Stop idempotently halts polling: clears any pending timer and bumps
// the session token so any already-fired-but-not-yet-run callback
// observes a mismatch and no-ops.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.token = (m.token + 1) % maxSessionToken
}

func (m *Manager) schedule(token int, session ble.Session, writeChar ble.Characteristic, codec protocol.Codec, interval time.Duration) {
	m.mu.Lock()
	if token != m.token {
		m.mu.Unlock()
		return
	}
	m.timer = time.AfterFunc(interval, func() {
		m.tick(token, session, writeChar, codec, interval)
	})
	m.mu.Unlock()
}

func (m *Manager) tick(token int, session ble.Session, writeChar ble.Characteristic, codec protocol.Codec, interval time.Duration) {
	m.mu.Lock()
	if token != m.token {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	if session == nil || writeChar == nil || codec == nil {
		m.Stop()
		return
	}

	payload := codec.AskStats()
	if len(payload) == 0 {
		// FTMS opts out of polling this way; reschedule and keep waiting
		// in case a future Codec variant publishes one.
		m.schedule(token, session, writeChar, codec, interval)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), transport.DefaultWriteTimeout)
	err := transport.Write(ctx, writeChar, payload, transport.DefaultWriteTimeout)
	cancel()

	if err == nil {
		m.mu.Lock()
		m.consecutiveErrors = 0
		m.mu.Unlock()
		m.schedule(token, session, writeChar, codec, interval)
		return
	}

	m.mu.Lock()
	m.consecutiveErrors++
	exceeded := m.consecutiveErrors >= m.maxConsecutiveError
	m.mu.Unlock()

	if m.onWriteFail != nil {
		m.onWriteFail(err)
	}

	if exceeded {
		m.logger.Warn("poll: stopping after %d consecutive write failures: %v", m.maxConsecutiveError, err)
		m.Stop()
		return
	}

	m.schedule(token, session, writeChar, codec, interval)
}
