package ble

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/walkingpad/padctl/internal/logging"
	"tinygo.org/x/bluetooth"
)

// TinygoAdapter implements Adapter against a real BLE radio via
// tinygo.org/x/bluetooth. It caches discovered services and
// characteristics per session the way the teacher's btDeviceImpl caches
// them, so repeated command writes never re-trigger GATT discovery.
type TinygoAdapter struct {
	adapter    *bluetooth.Adapter
	logger     logging.Logger
	scanWindow time.Duration

	mu           sync.Mutex
	lastAddress  *bluetooth.Address
	handlerOnce  sync.Once
	disconnectMu sync.Mutex
	onPeerGone   map[string][]func()
}

// NewTinygoAdapter wraps adapter (typically bluetooth.DefaultAdapter).
// scanWindow bounds how long Connect scans for a matching advertisement
// before giving up, independent of ctx's own deadline.
func NewTinygoAdapter(adapter *bluetooth.Adapter, logger logging.Logger, scanWindow time.Duration) *TinygoAdapter {
	if logger == nil {
		logger = logging.Default()
	}
	if scanWindow <= 0 {
		scanWindow = 20 * time.Second
	}
	return &TinygoAdapter{
		adapter:    adapter,
		logger:     logger,
		scanWindow: scanWindow,
		onPeerGone: make(map[string][]func()),
	}
}

func (a *TinygoAdapter) ensureConnectHandler() {
	a.handlerOnce.Do(func() {
		a.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
			if connected {
				return
			}
			addr := device.Address.String()
			a.disconnectMu.Lock()
			callbacks := a.onPeerGone[addr]
			delete(a.onPeerGone, addr)
			a.disconnectMu.Unlock()
			for _, cb := range callbacks {
				cb()
			}
		})
	})
}

// Connect enables the adapter if needed, scans until a matching
// advertisement is seen (or ctx/scanWindow expires), connects, and
// returns a live Session.
func (a *TinygoAdapter) Connect(ctx context.Context, params ConnectParams) (Session, error) {
	a.ensureConnectHandler()

	if err := a.adapter.Enable(); err != nil {
		return nil, fmt.Errorf("ble: enable adapter: %w", err)
	}

	scanCtx, cancel := context.WithTimeout(ctx, a.scanWindow)
	defer cancel()

	found := make(chan bluetooth.ScanResult, 1)
	scanErr := make(chan error, 1)

	go func() {
		err := a.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !matchesFilters(result, params.Filters) {
				return
			}
			select {
			case found <- result:
				adapter.StopScan()
			default:
			}
		})
		scanErr <- err
	}()

	var result bluetooth.ScanResult
	select {
	case result = <-found:
	case err := <-scanErr:
		if err != nil {
			return nil, fmt.Errorf("ble: scan: %w", err)
		}
		return nil, fmt.Errorf("ble: scan ended with no match")
	case <-scanCtx.Done():
		a.adapter.StopScan()
		return nil, fmt.Errorf("ble: scan: %w", scanCtx.Err())
	}

	device, err := a.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("ble: connect: %w", err)
	}

	a.mu.Lock()
	addr := result.Address
	a.lastAddress = &addr
	a.mu.Unlock()

	return newTinygoSession(a, device, result.Address), nil
}

// Reconnect retries the most recently connected address, if any. A stack
// with no memory of a prior device returns (nil, nil).
func (a *TinygoAdapter) Reconnect(ctx context.Context) (Session, error) {
	a.mu.Lock()
	addr := a.lastAddress
	a.mu.Unlock()
	if addr == nil {
		return nil, nil
	}

	a.ensureConnectHandler()
	device, err := a.adapter.Connect(*addr, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("ble: reconnect: %w", err)
	}
	return newTinygoSession(a, device, *addr), nil
}

func matchesFilters(result bluetooth.ScanResult, filters []Filter) bool {
	if len(filters) == 0 {
		return true
	}
	name := result.LocalName()
	for _, f := range filters {
		if f.NamePrefix == "" || strings.HasPrefix(name, f.NamePrefix) {
			return true
		}
	}
	return false
}

// tinygoSession is a live peripheral connection.
type tinygoSession struct {
	adapter *TinygoAdapter
	device  bluetooth.Device
	address bluetooth.Address

	mu                  sync.Mutex
	serviceByUUID       map[string]*bluetooth.DeviceService
	allServicesDiscover bool
}

func newTinygoSession(adapter *TinygoAdapter, device bluetooth.Device, address bluetooth.Address) *tinygoSession {
	return &tinygoSession{
		adapter:       adapter,
		device:        device,
		address:       address,
		serviceByUUID: make(map[string]*bluetooth.DeviceService),
	}
}

func (s *tinygoSession) DeviceID() string {
	return s.address.String()
}

func (s *tinygoSession) PrimaryServices(ctx context.Context) ([]Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.allServicesDiscover {
		discovered, err := s.device.DiscoverServices(nil)
		if err != nil {
			return nil, fmt.Errorf("ble: discover services: %w", err)
		}
		for i := range discovered {
			svc := &discovered[i]
			s.serviceByUUID[svc.UUID().String()] = svc
		}
		s.allServicesDiscover = true
	}

	out := make([]Service, 0, len(s.serviceByUUID))
	for _, svc := range s.serviceByUUID {
		out = append(out, &tinygoService{logger: s.adapter.logger, svc: svc})
	}
	return out, nil
}

func (s *tinygoSession) Disconnect() error {
	return s.device.Disconnect()
}

func (s *tinygoSession) OnDisconnect(callback func()) func() {
	addr := s.address.String()
	s.adapter.disconnectMu.Lock()
	s.adapter.onPeerGone[addr] = append(s.adapter.onPeerGone[addr], callback)
	idx := len(s.adapter.onPeerGone[addr]) - 1
	s.adapter.disconnectMu.Unlock()

	return func() {
		s.adapter.disconnectMu.Lock()
		defer s.adapter.disconnectMu.Unlock()
		cbs := s.adapter.onPeerGone[addr]
		if idx < len(cbs) {
			cbs[idx] = func() {}
		}
	}
}

type tinygoService struct {
	logger logging.Logger
	svc    *bluetooth.DeviceService

	mu                sync.Mutex
	charByUUID        map[string]*bluetooth.DeviceCharacteristic
	allCharsDiscover  bool
}

func (s *tinygoService) UUID() string {
	return s.svc.UUID().String()
}

func (s *tinygoService) Characteristics(ctx context.Context) ([]Characteristic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.charByUUID == nil {
		s.charByUUID = make(map[string]*bluetooth.DeviceCharacteristic)
	}

	if !s.allCharsDiscover {
		discovered, err := s.svc.DiscoverCharacteristics(nil)
		if err != nil {
			return nil, fmt.Errorf("ble: discover characteristics: %w", err)
		}
		for i := range discovered {
			ch := &discovered[i]
			s.charByUUID[ch.UUID().String()] = ch
		}
		s.allCharsDiscover = true
	}

	out := make([]Characteristic, 0, len(s.charByUUID))
	for _, ch := range s.charByUUID {
		out = append(out, newTinygoCharacteristic(s.logger, ch))
	}
	return out, nil
}

type tinygoCharacteristic struct {
	logger logging.Logger
	char   *bluetooth.DeviceCharacteristic

	mu           sync.Mutex
	lastValue    []byte
	notifying    bool
}

func newTinygoCharacteristic(logger logging.Logger, char *bluetooth.DeviceCharacteristic) *tinygoCharacteristic {
	return &tinygoCharacteristic{logger: logger, char: char}
}

func (c *tinygoCharacteristic) UUID() string { return c.char.UUID().String() }

func (c *tinygoCharacteristic) properties() bluetooth.CharacteristicPermissions {
	return c.char.Properties()
}

func (c *tinygoCharacteristic) CanNotify() bool {
	return c.properties()&bluetooth.CharacteristicNotifyPermission != 0
}

func (c *tinygoCharacteristic) CanIndicate() bool {
	return c.properties()&bluetooth.CharacteristicIndicatePermission != 0
}

func (c *tinygoCharacteristic) CanWrite() bool {
	return c.properties()&bluetooth.CharacteristicWritePermission != 0
}

func (c *tinygoCharacteristic) CanWriteWithoutResponse() bool {
	return c.properties()&bluetooth.CharacteristicWriteWithoutResponsePermission != 0
}

func (c *tinygoCharacteristic) WriteWithResponse(ctx context.Context, data []byte) error {
	_, err := c.char.Write(data)
	return err
}

func (c *tinygoCharacteristic) WriteWithoutResponse(ctx context.Context, data []byte) error {
	_, err := c.char.WriteWithoutResponse(data)
	return err
}

func (c *tinygoCharacteristic) StartNotifications(ctx context.Context, handler func(value []byte)) error {
	err := c.char.EnableNotifications(func(buf []byte) {
		// defensive copy: the stack may invalidate buf's backing array
		// once this callback returns (spec §4.12).
		if len(buf) == 0 {
			return
		}
		owned := make([]byte, len(buf))
		copy(owned, buf)

		c.mu.Lock()
		c.lastValue = owned
		c.mu.Unlock()

		handler(owned)
	})
	if err != nil {
		return fmt.Errorf("ble: enable notifications: %w", err)
	}
	c.mu.Lock()
	c.notifying = true
	c.mu.Unlock()
	return nil
}

func (c *tinygoCharacteristic) StopNotifications() error {
	c.mu.Lock()
	c.notifying = false
	c.mu.Unlock()
	if err := c.char.EnableNotifications(nil); err != nil {
		return fmt.Errorf("ble: disable notifications: %w", err)
	}
	return nil
}

func (c *tinygoCharacteristic) CurrentValue() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastValue == nil {
		return nil
	}
	out := make([]byte, len(c.lastValue))
	copy(out, c.lastValue)
	return out
}
