// Package transport implements the bounded write and notification
// primitives every codec command and status listener is built on (spec
// §4.7): a deadline-bounded write, a route-aware write that prefers a
// control-point characteristic when one exists, and a subscribe
// operation that returns a deterministic teardown thunk.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/walkingpad/padctl/internal/ble"
	"github.com/walkingpad/padctl/internal/logging"
)

const (
	DefaultWriteTimeout        = 10 * time.Second
	DefaultNotificationTimeout = 15 * time.Second
)

// ErrEmptyPayload is returned by Write when given a zero-length payload.
var ErrEmptyPayload = errors.New("transport: payload cannot be empty")

// TimeoutError is returned when a bounded operation exceeds its
// deadline. The underlying BLE operation is not guaranteed to have been
// cancelled; callers must re-check connection state before trusting any
// side effect it may still produce.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transport: %s timed out after %s", e.Operation, e.Limit)
}

// Write performs a bounded write-with-response against char. timeout <=
// 0 selects DefaultWriteTimeout. An empty payload is rejected outright
// without touching the stack.
func Write(ctx context.Context, char ble.Characteristic, data []byte, timeout time.Duration) error {
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- char.WriteWithResponse(ctx, data) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return &TimeoutError{Operation: "write", Limit: timeout}
	}
}

// RouteWrite prefers controlPoint when non-nil, otherwise falls back to
// write. FTMS commands always route through a control-point; standard
// commands have none and fall through to the plain write characteristic.
func RouteWrite(ctx context.Context, controlPoint, write ble.Characteristic, data []byte, timeout time.Duration) error {
	target := write
	if controlPoint != nil {
		target = controlPoint
	}
	return Write(ctx, target, data, timeout)
}

// Teardown removes a notification listener. Calling it more than once is
// safe; the second call is a no-op.
type Teardown func()

// Subscribe enables notifications on char with a deadline (timeout <= 0
// selects DefaultNotificationTimeout). Every received value is passed to
// handler as an independently-owned copy. Returns a teardown thunk that
// unconditionally issues a stop-notifications call; errors from stopping
// are logged, never propagated, since by the time a caller tears down
// they have already moved past needing the subscription to succeed.
func Subscribe(ctx context.Context, char ble.Characteristic, handler func([]byte), timeout time.Duration, logger logging.Logger) (Teardown, error) {
	if timeout <= 0 {
		timeout = DefaultNotificationTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}

	enableCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	owned := func(value []byte) {
		buf := make([]byte, len(value))
		copy(buf, value)
		handler(buf)
	}

	done := make(chan error, 1)
	go func() { done <- char.StartNotifications(enableCtx, owned) }()

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
	case <-enableCtx.Done():
		return nil, &TimeoutError{Operation: "enable notifications", Limit: timeout}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := char.StopNotifications(); err != nil {
				logger.Warn("transport: stop notifications on %s: %v", char.UUID(), err)
			}
		})
	}, nil
}
