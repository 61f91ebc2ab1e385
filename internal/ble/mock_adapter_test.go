package ble_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/walkingpad/padctl/internal/ble"
)

func TestMockAdapterConnectReturnsConfiguredError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := ble.NewMockAdapter(ctrl)

	wantErr := errors.New("no device found")
	mock.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, wantErr).
		Times(1)

	session, err := mock.Connect(context.Background(), ble.ConnectParams{})
	assert.Nil(t, session)
	assert.Equal(t, wantErr, err)
}

func TestMockSessionDeviceIDReturnsConfiguredValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := ble.NewMockSession(ctrl)

	mock.EXPECT().DeviceID().Return("aa:bb:cc").Times(1)

	assert.Equal(t, "aa:bb:cc", mock.DeviceID())
}

func TestMockAdapterReconnectCalledExactlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := ble.NewMockAdapter(ctrl)

	mock.EXPECT().Reconnect(gomock.Any()).Return(nil, nil).Times(1)

	session, err := mock.Reconnect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

var (
	_ ble.Adapter = (*ble.MockAdapter)(nil)
	_ ble.Session = (*ble.MockSession)(nil)
)
