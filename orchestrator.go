package walkingpad

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/walkingpad/padctl/internal/asyncutil"
	"github.com/walkingpad/padctl/internal/ble"
	"github.com/walkingpad/padctl/internal/events"
	"github.com/walkingpad/padctl/internal/gatt"
	"github.com/walkingpad/padctl/internal/logging"
	"github.com/walkingpad/padctl/internal/poll"
	"github.com/walkingpad/padctl/internal/protocol"
	"github.com/walkingpad/padctl/internal/statemachine"
	"github.com/walkingpad/padctl/internal/storage"
	"github.com/walkingpad/padctl/internal/transport"
)

// defaultPollIntervalMs is substituted for a zero-value ConnectOptions
// field so the struct's zero value stays a usable default, matching this
// library's other "0 selects the package default" options.
const defaultPollIntervalMs = 3000

// defaultConnectionTimeout bounds a GATT connect (spec §5) when
// ConnectOptions.ConnectionTimeout is 0, the same "0 selects the
// package default" rule transport.Write/Subscribe apply to their own
// deadlines.
const defaultConnectionTimeout = 20 * time.Second

// Client is a single treadmill connection: one Client manages at most one
// live session at a time. Two independent mutexes serialize its two
// categories of work — connMu around connect/reconnect/disconnect and the
// peer-disconnect cleanup they share with, cmdMu around start/stop/
// set-speed — so commands serialize against each other separately from
// lifecycle operations. Lifecycle operations never take cmdMu; a command
// takes connMu briefly (see handles) to snapshot the session, so a command
// issued while a connect, reconnect or disconnect holds connMu waits for
// that operation to finish before it runs its state check.
type Client struct {
	adapter ble.Adapter
	logger  logging.Logger
	store   storage.DeviceIDStore
	machine *statemachine.Machine

	stateEvents     *events.Emitter[TreadmillState]
	errorEvents     *events.Emitter[error]
	connStateEvents *events.Emitter[ConnectionStateChange]

	connMu sync.Mutex
	cmdMu  sync.Mutex

	// fields below are only mutated under connMu, and only read under
	// connMu (commands take a snapshot via handles()).
	session   ble.Session
	roles     *gatt.Roles
	codec     protocol.Codec
	pollMgr   *poll.Manager
	teardowns []func()
}

// NewClient creates a Client driving peripherals through adapter. A nil
// logger falls back to logging.Default(); a nil store falls back to an
// in-memory store (no device id persists across process restarts).
func NewClient(adapter ble.Adapter, logger logging.Logger, store storage.DeviceIDStore) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}

	c := &Client{
		adapter:         adapter,
		logger:          logger,
		store:           store,
		machine:         statemachine.New(logger),
		stateEvents:     events.NewEmitter[TreadmillState](),
		errorEvents:     events.NewEmitter[error](),
		connStateEvents: events.NewEmitter[ConnectionStateChange](),
	}
	c.machine.Observe(func(from, to ConnectionState) {
		c.connStateEvents.Emit(ConnectionStateChange{From: from, To: to}, c.onListenerPanic)
	})
	return c
}

// OnState subscribes to every parsed status/notification snapshot.
func (c *Client) OnState(fn func(TreadmillState)) func() { return c.stateEvents.Subscribe(fn) }

// OnError subscribes to error events: connect/reconnect failures,
// session disconnect failures, and poll-loop write failures. Listener
// panics are logged, not emitted here.
func (c *Client) OnError(fn func(error)) func() { return c.errorEvents.Subscribe(fn) }

// OnConnectionStateChange subscribes to every accepted connection-state
// transition.
func (c *Client) OnConnectionStateChange(fn func(ConnectionStateChange)) func() {
	return c.connStateEvents.Subscribe(fn)
}

// ConnectionState returns the current connection state.
func (c *Client) ConnectionState() ConnectionState { return c.machine.State() }

// SessionInfo describes the live connection. The second return value is
// false unless the client is Connected.
func (c *Client) SessionInfo() (SessionInfo, bool) {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.machine.State() != Connected || c.codec == nil || c.roles == nil {
		return SessionInfo{}, false
	}
	return SessionInfo{CodecName: c.codec.Name(), ServiceUUIDs: c.roles.ServiceUUIDs}, true
}

func (c *Client) onListenerPanic(r interface{}) {
	c.logger.Error("walkingpad: event listener panic: %v", r)
}

// emitError fans err out to every OnError subscriber. With no subscribers
// the error would otherwise vanish silently, so it is routed to the
// logger's error sink instead.
func (c *Client) emitError(err error) {
	if err == nil {
		return
	}
	if c.errorEvents.ListenerCount() == 0 {
		c.logger.Error("walkingpad: %v", err)
		return
	}
	c.errorEvents.Emit(err, c.onListenerPanic)
}

// Connect opens a fresh device selection and brings the client to
// Connected. It tears down and replaces any existing connection first.
func (c *Client) Connect(ctx context.Context, opts ConnectOptions) error {
	interval, err := resolvePollInterval(opts.PollIntervalMs)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return ConnectionAborted
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if err := ctx.Err(); err != nil {
		return ConnectionAborted
	}

	if state := c.machine.State(); state == Connected || state == Connecting {
		c.cleanupLocked()
		if c.machine.State() != Disconnected {
			c.machine.Transition(Disconnected)
		}
	}

	c.machine.Transition(Connecting)

	connTimeout := resolveConnectionTimeout(opts.ConnectionTimeout)
	raceCtx, cancel := context.WithTimeout(ctx, connTimeout)
	defer cancel()

	session, aborted, timeoutErr, err := c.raceConnect(ctx, raceCtx, connTimeout, func(dialCtx context.Context) (ble.Session, error) {
		return c.adapter.Connect(dialCtx, ble.ConnectParams{
			Filters:          defaultFilters(opts),
			OptionalServices: defaultOptionalServices(opts),
			RememberDevice:   opts.RememberDevice,
		})
	})
	if aborted {
		c.machine.Transition(Disconnected)
		return ConnectionAborted
	}
	if timeoutErr != nil {
		c.logger.Warn("walkingpad: connect failed: %v", timeoutErr)
		c.machine.Transition(Error)
		c.emitError(timeoutErr)
		return timeoutErr
	}
	if err != nil {
		c.logger.Warn("walkingpad: connect failed: %v", err)
		c.machine.Transition(Error)
		c.emitError(err)
		return err
	}

	if err := ctx.Err(); err != nil {
		_ = session.Disconnect()
		c.machine.Transition(Disconnected)
		return ConnectionAborted
	}

	if err := c.finishConnectLocked(session, opts, interval); err != nil {
		c.logger.Warn("walkingpad: connect setup failed: %v", err)
		c.machine.Transition(Error)
		c.emitError(err)
		return err
	}

	if opts.RememberDevice {
		if id := session.DeviceID(); id != "" {
			c.store.Set(id)
		}
	}

	c.machine.Transition(Connected)
	return nil
}

// Reconnect resumes the most recently connected device's cached identity.
// If the client is already Connected or Connecting, it returns
// immediately without consulting the BLE stack.
func (c *Client) Reconnect(ctx context.Context, opts ConnectOptions) error {
	interval, err := resolvePollInterval(opts.PollIntervalMs)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return ConnectionAborted
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if state := c.machine.State(); state == Connected || state == Connecting {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return ConnectionAborted
	}

	c.machine.Transition(Connecting)

	connTimeout := resolveConnectionTimeout(opts.ConnectionTimeout)
	raceCtx, cancel := context.WithTimeout(ctx, connTimeout)
	defer cancel()

	session, aborted, timeoutErr, err := c.raceConnect(ctx, raceCtx, connTimeout, func(dialCtx context.Context) (ble.Session, error) {
		return c.adapter.Reconnect(dialCtx)
	})
	if aborted {
		c.machine.Transition(Disconnected)
		return ConnectionAborted
	}
	if timeoutErr != nil {
		c.logger.Warn("walkingpad: reconnect failed: %v", timeoutErr)
		c.machine.Transition(Error)
		c.emitError(timeoutErr)
		return timeoutErr
	}
	if err != nil {
		c.logger.Warn("walkingpad: reconnect failed: %v", err)
		c.machine.Transition(Error)
		c.emitError(err)
		return err
	}
	if session == nil {
		c.machine.Transition(Disconnected)
		return fmt.Errorf("walkingpad: no cached device to reconnect to")
	}

	if err := ctx.Err(); err != nil {
		_ = session.Disconnect()
		c.machine.Transition(Disconnected)
		return ConnectionAborted
	}

	if err := c.finishConnectLocked(session, opts, interval); err != nil {
		c.logger.Warn("walkingpad: reconnect setup failed: %v", err)
		c.machine.Transition(Error)
		c.emitError(err)
		return err
	}

	if opts.RememberDevice {
		if id := session.DeviceID(); id != "" {
			c.store.Set(id)
		}
	}

	c.machine.Transition(Connected)
	return nil
}

// raceConnect runs dial against raceCtx, a timeout bounded on top of
// parentCtx. Either way, when raceCtx fires first, dial's eventual result
// is discarded (and any session it produced is disconnected) rather than
// awaited inline, since the BLE stack gives no way to cancel a connect
// attempt already in flight. The two ways raceCtx can fire first are
// distinguished by consulting parentCtx: if parentCtx itself is also
// done, this is a caller-initiated abort; otherwise only the timeout
// grafted on top fired, which is a connect-timeout in the spec §5 sense,
// not an abort.
func (c *Client) raceConnect(parentCtx, raceCtx context.Context, timeout time.Duration, dial func(context.Context) (ble.Session, error)) (session ble.Session, aborted bool, timeoutErr error, err error) {
	type result struct {
		session ble.Session
		err     error
	}
	resultCh := make(chan result, 1)
	asyncutil.SafeGo(c.logger, func() {
		s, err := dial(raceCtx)
		resultCh <- result{s, err}
	})

	select {
	case res := <-resultCh:
		return res.session, false, nil, res.err
	case <-raceCtx.Done():
		asyncutil.SafeGo(c.logger, func() {
			res := <-resultCh
			if res.err == nil && res.session != nil {
				_ = res.session.Disconnect()
			}
		})
		if parentCtx.Err() != nil {
			return nil, true, nil, nil
		}
		return nil, false, &transport.TimeoutError{Operation: "connect", Limit: timeout}, nil
	}
}

// finishConnectLocked runs GATT discovery, codec detection, notification
// subscriptions, the control handshake, and poll-manager startup. Called
// with connMu held and the machine already in Connecting. On any error it
// tears down everything it had set up and disconnects session; the caller
// is responsible for the resulting state transition.
func (c *Client) finishConnectLocked(session ble.Session, opts ConnectOptions, pollInterval time.Duration) error {
	roles, err := gatt.Discover(context.Background(), session)
	if err != nil {
		// gatt.Discover only disconnects session itself on the
		// could-not-assign-roles path; every other failure (listing
		// services/characteristics) leaves that to the caller.
		_ = session.Disconnect()
		return err
	}

	codec := protocol.Detect(roles.ServiceUUIDs)

	var teardowns []func()
	abort := func(cause error) error {
		for i := len(teardowns) - 1; i >= 0; i-- {
			teardowns[i]()
		}
		_ = session.Disconnect()
		return cause
	}

	notifyTimeout := time.Duration(opts.NotificationTimeout) * time.Millisecond
	writeTimeout := time.Duration(opts.WriteTimeout) * time.Millisecond

	notifyTeardown, err := transport.Subscribe(context.Background(), roles.Notify, func(buf []byte) {
		c.logger.Debug("walkingpad: [%s] received %d bytes: %v", codec.Name(), len(buf), buf)
		c.stateEvents.Emit(codec.ParseStatus(buf), c.onListenerPanic)
	}, notifyTimeout, c.logger)
	if err != nil {
		return abort(fmt.Errorf("walkingpad: subscribe to status notifications: %w", err))
	}
	teardowns = append(teardowns, transport.Teardown(notifyTeardown))

	if roles.ControlPoint != nil {
		if payload := codec.RequestControl(); len(payload) > 0 {
			if roles.ControlPointNotify != nil {
				cpTeardown, err := transport.Subscribe(context.Background(), roles.ControlPointNotify, func([]byte) {
					// Control-point indications carry no state this
					// library surfaces; subscribing only satisfies
					// peripherals that require an active indication
					// subscription before accepting writes.
				}, notifyTimeout, c.logger)
				if err != nil {
					return abort(fmt.Errorf("walkingpad: subscribe to control point: %w", err))
				}
				teardowns = append(teardowns, transport.Teardown(cpTeardown))
			}
			if err := transport.RouteWrite(context.Background(), roles.ControlPoint, roles.Write, payload, writeTimeout); err != nil {
				return abort(fmt.Errorf("walkingpad: request control: %w", err))
			}
		}
	}

	var pollMgr *poll.Manager
	if codec.Name() == "standard" {
		pollMgr = poll.New(c.logger, c.emitError)
		pollMgr.Start(session, roles.Write, codec, pollInterval)
	}

	peerDisconnectUnsub := session.OnDisconnect(func() {
		asyncutil.SafeGo(c.logger, c.handlePeerDisconnect)
	})
	teardowns = append(teardowns, peerDisconnectUnsub)

	c.session = session
	c.roles = roles
	c.codec = codec
	c.pollMgr = pollMgr
	c.teardowns = teardowns
	return nil
}

// handlePeerDisconnect runs when the BLE stack reports the peripheral
// dropped the link on its own, not in response to our own Disconnect.
func (c *Client) handlePeerDisconnect() {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.machine.State() != Connected {
		return
	}
	c.cleanupLocked()
	c.machine.Transition(Disconnected)
}

// cleanupLocked stops polling, tears down every subscription and the
// peer-disconnect listener, disconnects the session, and clears all
// session-scoped fields. Safe to call repeatedly; a no-op once already
// clean. Does not itself transition the state machine.
func (c *Client) cleanupLocked() {
	if c.pollMgr != nil {
		c.pollMgr.Stop()
		c.pollMgr = nil
	}
	for i := len(c.teardowns) - 1; i >= 0; i-- {
		c.teardowns[i]()
	}
	c.teardowns = nil
	if c.session != nil {
		if err := c.session.Disconnect(); err != nil {
			c.logger.Warn("walkingpad: disconnect: %v", err)
			c.emitError(err)
		}
	}
	c.session = nil
	c.roles = nil
	c.codec = nil
}

// Disconnect tears down the current connection. Idempotent: a no-op if
// already Disconnected.
func (c *Client) Disconnect() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.machine.State() == Disconnected {
		return nil
	}
	c.cleanupLocked()
	c.machine.Transition(Disconnected)
	return nil
}

// handles snapshots the fields a command needs under connMu. It blocks
// while a connect, reconnect or disconnect holds connMu.
type connectionHandles struct {
	state     ConnectionState
	session   ble.Session
	roles     *gatt.Roles
	codec     protocol.Codec
	connected bool
}

func (c *Client) handles() connectionHandles {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	state := c.machine.State()
	return connectionHandles{
		state:     state,
		session:   c.session,
		roles:     c.roles,
		codec:     c.codec,
		connected: state == Connected && c.session != nil && c.codec != nil && c.roles != nil,
	}
}

// runCommand snapshots the connection, fails fast if it is not usable,
// builds the wire payload via build, writes it (unless build returns an
// empty payload, which is a successful no-op), and fails if the
// connection state changed out from under the write.
func (c *Client) runCommand(build func(protocol.Codec) ([]byte, error)) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	h := c.handles()
	if !h.connected {
		return NotConnected
	}

	payload, err := build(h.codec)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}

	c.logger.Debug("walkingpad: [%s] sending %d bytes: %v", h.codec.Name(), len(payload), payload)
	if err := transport.RouteWrite(context.Background(), h.roles.ControlPoint, h.roles.Write, payload, transport.DefaultWriteTimeout); err != nil {
		return err
	}

	if c.ConnectionState() != Connected {
		return NotConnected
	}
	return nil
}

// Start sends the protocol's start/resume command.
func (c *Client) Start() error {
	return c.runCommand(func(codec protocol.Codec) ([]byte, error) { return codec.Start(), nil })
}

// Stop sends the protocol's stop/pause command.
func (c *Client) Stop() error {
	return c.runCommand(func(codec protocol.Codec) ([]byte, error) { return codec.Stop(), nil })
}

// SetSpeed sends a set-target-speed command for v km/h.
func (c *Client) SetSpeed(v float64) error {
	return c.runCommand(func(codec protocol.Codec) ([]byte, error) { return codec.SetSpeed(v) })
}

// resolveConnectionTimeout converts ms to a time.Duration, substituting
// defaultConnectionTimeout when ms <= 0 so a GATT connect always has a
// deadline (spec §5) — the same "0 selects the package default" rule
// transport.Write/Subscribe apply to their own deadlines.
func resolveConnectionTimeout(ms float64) time.Duration {
	if ms <= 0 {
		return defaultConnectionTimeout
	}
	return time.Duration(ms * float64(time.Millisecond))
}

func resolvePollInterval(ms float64) (time.Duration, error) {
	if ms == 0 {
		ms = defaultPollIntervalMs
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms <= 0 {
		return 0, ErrRangeError
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}
