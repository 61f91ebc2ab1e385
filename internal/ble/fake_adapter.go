package ble

import (
	"context"
	"sync"
)

// FakeAdapter is an in-memory Adapter double for exercising the
// orchestrator, gatt discovery, and poll manager without real hardware.
// It is a direct simplification of the teacher's MockBTDevice: the same
// idea (a scriptable stand-in peripheral that records writes and lets a
// test push notification bytes) minus the HTTP inspection server, which
// nothing in this library's test suite needs.
type FakeAdapter struct {
	mu             sync.Mutex
	services       []*FakeService
	connectErr     error
	reconnectable  bool
	connectCount   int
	reconnectCount int
	lastSession    *FakeSession
	nextDeviceID   string
}

// NewFakeAdapter creates an adapter that will hand out sessions exposing
// services.
func NewFakeAdapter(services ...*FakeService) *FakeAdapter {
	return &FakeAdapter{services: services}
}

// SetConnectError makes every future Connect call fail with err.
func (a *FakeAdapter) SetConnectError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connectErr = err
}

// SetReconnectable controls whether Reconnect returns a session (true)
// or (nil, nil) as if the stack had no cached device identity (false,
// the default).
func (a *FakeAdapter) SetReconnectable(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reconnectable = v
}

// ConnectCount and ReconnectCount report how many times each method was
// called, for assertions like "reconnect never touches the stack when
// already connected".
func (a *FakeAdapter) ConnectCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connectCount
}

func (a *FakeAdapter) ReconnectCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reconnectCount
}

// LastSession returns the most recently produced session, for tests that
// want to push notifications or inspect writes after Connect returns.
func (a *FakeAdapter) LastSession() *FakeSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSession
}

// SetNextDeviceID makes every session produced from now on report id from
// DeviceID, for tests exercising device-id persistence on connect.
func (a *FakeAdapter) SetNextDeviceID(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextDeviceID = id
}

func (a *FakeAdapter) Connect(ctx context.Context, params ConnectParams) (Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connectCount++
	if a.connectErr != nil {
		return nil, a.connectErr
	}
	session := newFakeSession(a.services)
	session.id = a.nextDeviceID
	a.lastSession = session
	return session, nil
}

func (a *FakeAdapter) Reconnect(ctx context.Context) (Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reconnectCount++
	if !a.reconnectable {
		return nil, nil
	}
	if a.connectErr != nil {
		return nil, a.connectErr
	}
	session := newFakeSession(a.services)
	session.id = a.nextDeviceID
	a.lastSession = session
	return session, nil
}

// FakeSession is an in-memory Session.
type FakeSession struct {
	services []*FakeService
	id       string

	mu              sync.Mutex
	disconnected    bool
	disconnectHooks []func()
	disconnectErr   error
}

func newFakeSession(services []*FakeService) *FakeSession {
	return &FakeSession{services: services}
}

// DeviceID returns the id set by SetDeviceID or, for a session produced by
// a FakeAdapter, by the adapter's SetNextDeviceID; "" if neither was set.
func (s *FakeSession) DeviceID() string { return s.id }

// SetDeviceID sets the value DeviceID returns, for tests exercising
// device-id persistence on connect.
func (s *FakeSession) SetDeviceID(id string) { s.id = id }

// SetDisconnectError makes the next Disconnect call fail with err instead
// of succeeding, for tests exercising disconnect-error propagation.
func (s *FakeSession) SetDisconnectError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnectErr = err
}

func (s *FakeSession) PrimaryServices(ctx context.Context) ([]Service, error) {
	out := make([]Service, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, svc)
	}
	return out, nil
}

func (s *FakeSession) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disconnectErr != nil {
		err := s.disconnectErr
		s.disconnectErr = nil
		return err
	}
	s.disconnected = true
	return nil
}

// IsDisconnected reports whether Disconnect has been called.
func (s *FakeSession) IsDisconnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnected
}

func (s *FakeSession) OnDisconnect(callback func()) func() {
	s.mu.Lock()
	s.disconnectHooks = append(s.disconnectHooks, callback)
	idx := len(s.disconnectHooks) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.disconnectHooks) {
			s.disconnectHooks[idx] = func() {}
		}
	}
}

// SimulatePeerDisconnect fires every registered OnDisconnect hook, as if
// the peripheral had dropped the link on its own.
func (s *FakeSession) SimulatePeerDisconnect() {
	s.mu.Lock()
	hooks := make([]func(), len(s.disconnectHooks))
	copy(hooks, s.disconnectHooks)
	s.mu.Unlock()
	for _, h := range hooks {
		h()
	}
}

// FakeService is an in-memory Service.
type FakeService struct {
	ServiceUUID     string
	ServiceChars    []*FakeCharacteristic
}

// NewFakeService creates a service exposing chars.
func NewFakeService(uuid string, chars ...*FakeCharacteristic) *FakeService {
	return &FakeService{ServiceUUID: uuid, ServiceChars: chars}
}

func (s *FakeService) UUID() string { return s.ServiceUUID }

func (s *FakeService) Characteristics(ctx context.Context) ([]Characteristic, error) {
	out := make([]Characteristic, 0, len(s.ServiceChars))
	for _, c := range s.ServiceChars {
		out = append(out, c)
	}
	return out, nil
}

// FakeCharacteristic is an in-memory Characteristic a test can both
// drive (push notification bytes) and inspect (recorded writes).
type FakeCharacteristic struct {
	CharUUID    string
	Notify      bool
	Indicate    bool
	Write       bool
	WriteNoResp bool

	mu         sync.Mutex
	notifying  bool
	handler    func([]byte)
	lastValue  []byte
	writes     [][]byte
	writeErr   error
}

// NewFakeCharacteristic creates a characteristic with the given property
// flags.
func NewFakeCharacteristic(uuid string, notify, indicate, write, writeNoResp bool) *FakeCharacteristic {
	return &FakeCharacteristic{
		CharUUID:    uuid,
		Notify:      notify,
		Indicate:    indicate,
		Write:       write,
		WriteNoResp: writeNoResp,
	}
}

func (c *FakeCharacteristic) UUID() string                    { return c.CharUUID }
func (c *FakeCharacteristic) CanNotify() bool                  { return c.Notify }
func (c *FakeCharacteristic) CanIndicate() bool                { return c.Indicate }
func (c *FakeCharacteristic) CanWrite() bool                   { return c.Write }
func (c *FakeCharacteristic) CanWriteWithoutResponse() bool    { return c.WriteNoResp }

// SetWriteError makes every future write fail with err.
func (c *FakeCharacteristic) SetWriteError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

// Writes returns every payload written so far, in order.
func (c *FakeCharacteristic) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.writes))
	copy(out, c.writes)
	return out
}

func (c *FakeCharacteristic) record(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	owned := make([]byte, len(data))
	copy(owned, data)
	c.writes = append(c.writes, owned)
	return nil
}

func (c *FakeCharacteristic) WriteWithResponse(ctx context.Context, data []byte) error {
	return c.record(data)
}

func (c *FakeCharacteristic) WriteWithoutResponse(ctx context.Context, data []byte) error {
	return c.record(data)
}

func (c *FakeCharacteristic) StartNotifications(ctx context.Context, handler func(value []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifying = true
	c.handler = handler
	return nil
}

func (c *FakeCharacteristic) StopNotifications() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifying = false
	c.handler = nil
	return nil
}

func (c *FakeCharacteristic) CurrentValue() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, len(c.lastValue))
	copy(out, c.lastValue)
	return out
}

// PushNotification delivers value to the registered handler, as a
// hardware peripheral would on a characteristic value-change event. A
// zero-length value or no active subscription is a silent no-op,
// mirroring the detached-buffer/drop-on-failure rule in spec §4.12.
func (c *FakeCharacteristic) PushNotification(value []byte) {
	c.mu.Lock()
	if !c.notifying || c.handler == nil || len(value) == 0 {
		c.mu.Unlock()
		return
	}
	owned := make([]byte, len(value))
	copy(owned, value)
	c.lastValue = owned
	handler := c.handler
	c.mu.Unlock()
	handler(owned)
}
