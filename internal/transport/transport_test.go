package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walkingpad/padctl/internal/ble"
)

func TestWriteRejectsEmptyPayload(t *testing.T) {
	char := ble.NewFakeCharacteristic("fe01", false, false, true, false)
	err := Write(context.Background(), char, nil, 0)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestWriteSucceeds(t *testing.T) {
	char := ble.NewFakeCharacteristic("fe01", false, false, true, false)
	err := Write(context.Background(), char, []byte{1, 2, 3}, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{1, 2, 3}}, char.Writes())
}

func TestWritePropagatesUnderlyingError(t *testing.T) {
	char := ble.NewFakeCharacteristic("fe01", false, false, true, false)
	char.SetWriteError(errors.New("gatt write failed"))

	err := Write(context.Background(), char, []byte{1}, 0)
	assert.Error(t, err)
}

// slowCharacteristic wraps a FakeCharacteristic's write in an artificial
// delay so timeout behavior can be exercised deterministically.
type slowCharacteristic struct {
	*ble.FakeCharacteristic
	delay time.Duration
}

func (c *slowCharacteristic) WriteWithResponse(ctx context.Context, data []byte) error {
	select {
	case <-time.After(c.delay):
		return c.FakeCharacteristic.WriteWithResponse(ctx, data)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestWriteTimesOut(t *testing.T) {
	char := &slowCharacteristic{
		FakeCharacteristic: ble.NewFakeCharacteristic("fe01", false, false, true, false),
		delay:              time.Second,
	}
	err := Write(context.Background(), char, []byte{1}, 10*time.Millisecond)

	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "write", timeoutErr.Operation)
}

func TestRouteWritePrefersControlPoint(t *testing.T) {
	control := ble.NewFakeCharacteristic("2ad9", false, true, true, false)
	plain := ble.NewFakeCharacteristic("fe01", false, false, true, false)

	require.NoError(t, RouteWrite(context.Background(), control, plain, []byte{9}, 0))
	assert.Len(t, control.Writes(), 1)
	assert.Empty(t, plain.Writes())
}

func TestRouteWriteFallsBackToPlainWrite(t *testing.T) {
	plain := ble.NewFakeCharacteristic("fe01", false, false, true, false)
	require.NoError(t, RouteWrite(context.Background(), nil, plain, []byte{9}, 0))
	assert.Len(t, plain.Writes(), 1)
}

func TestSubscribeDeliversAndTearsDown(t *testing.T) {
	char := ble.NewFakeCharacteristic("2acd", true, false, false, false)

	var received []byte
	teardown, err := Subscribe(context.Background(), char, func(v []byte) {
		received = v
	}, 0, nil)
	require.NoError(t, err)

	char.PushNotification([]byte{0x01, 0x02})
	assert.Equal(t, []byte{0x01, 0x02}, received)

	teardown()
	received = nil
	char.PushNotification([]byte{0x03})
	assert.Nil(t, received)

	// calling teardown twice must not panic or double-invoke Stop.
	assert.NotPanics(t, teardown)
}
