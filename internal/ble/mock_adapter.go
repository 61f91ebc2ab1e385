package ble

// Hand-authored in the github.com/golang/mock / go.uber.org/mock mockgen
// output shape (this tree never runs go generate), pairing the scriptable
// FakeAdapter with an expectation-based double for tests that want to
// assert exact call sequences rather than drive a stateful fake. Only
// mock_adapter_test.go uses it; the orchestrator tests use FakeAdapter.

import (
	context "context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockAdapter is a mock of the Adapter interface.
type MockAdapter struct {
	ctrl     *gomock.Controller
	recorder *MockAdapterMockRecorder
}

// MockAdapterMockRecorder records expected calls on MockAdapter.
type MockAdapterMockRecorder struct {
	mock *MockAdapter
}

// NewMockAdapter creates a new MockAdapter.
func NewMockAdapter(ctrl *gomock.Controller) *MockAdapter {
	mock := &MockAdapter{ctrl: ctrl}
	mock.recorder = &MockAdapterMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAdapter) EXPECT() *MockAdapterMockRecorder {
	return m.recorder
}

// Connect mocks base method.
func (m *MockAdapter) Connect(ctx context.Context, params ConnectParams) (Session, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Connect", ctx, params)
	ret0, _ := ret[0].(Session)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Connect indicates an expected call of Connect.
func (mr *MockAdapterMockRecorder) Connect(ctx, params interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Connect", reflect.TypeOf((*MockAdapter)(nil).Connect), ctx, params)
}

// Reconnect mocks base method.
func (m *MockAdapter) Reconnect(ctx context.Context) (Session, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Reconnect", ctx)
	ret0, _ := ret[0].(Session)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Reconnect indicates an expected call of Reconnect.
func (mr *MockAdapterMockRecorder) Reconnect(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Reconnect", reflect.TypeOf((*MockAdapter)(nil).Reconnect), ctx)
}

// MockSession is a mock of the Session interface.
type MockSession struct {
	ctrl     *gomock.Controller
	recorder *MockSessionMockRecorder
}

// MockSessionMockRecorder records expected calls on MockSession.
type MockSessionMockRecorder struct {
	mock *MockSession
}

// NewMockSession creates a new MockSession.
func NewMockSession(ctrl *gomock.Controller) *MockSession {
	mock := &MockSession{ctrl: ctrl}
	mock.recorder = &MockSessionMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSession) EXPECT() *MockSessionMockRecorder {
	return m.recorder
}

// DeviceID mocks base method.
func (m *MockSession) DeviceID() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeviceID")
	ret0, _ := ret[0].(string)
	return ret0
}

// DeviceID indicates an expected call of DeviceID.
func (mr *MockSessionMockRecorder) DeviceID() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeviceID", reflect.TypeOf((*MockSession)(nil).DeviceID))
}

// PrimaryServices mocks base method.
func (m *MockSession) PrimaryServices(ctx context.Context) ([]Service, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PrimaryServices", ctx)
	ret0, _ := ret[0].([]Service)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// PrimaryServices indicates an expected call of PrimaryServices.
func (mr *MockSessionMockRecorder) PrimaryServices(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PrimaryServices", reflect.TypeOf((*MockSession)(nil).PrimaryServices), ctx)
}

// Disconnect mocks base method.
func (m *MockSession) Disconnect() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Disconnect")
	ret0, _ := ret[0].(error)
	return ret0
}

// Disconnect indicates an expected call of Disconnect.
func (mr *MockSessionMockRecorder) Disconnect() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Disconnect", reflect.TypeOf((*MockSession)(nil).Disconnect))
}

// OnDisconnect mocks base method.
func (m *MockSession) OnDisconnect(callback func()) func() {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnDisconnect", callback)
	ret0, _ := ret[0].(func())
	return ret0
}

// OnDisconnect indicates an expected call of OnDisconnect.
func (mr *MockSessionMockRecorder) OnDisconnect(callback interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnDisconnect", reflect.TypeOf((*MockSession)(nil).OnDisconnect), callback)
}
