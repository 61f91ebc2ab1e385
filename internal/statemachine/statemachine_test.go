package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialStateIsDisconnected(t *testing.T) {
	m := New(nil)
	assert.Equal(t, Disconnected, m.State())
}

func TestValidTransitionSequence(t *testing.T) {
	m := New(nil)
	require.NotPanics(t, func() { m.Transition(Connecting) })
	require.NotPanics(t, func() { m.Transition(Connected) })
	require.NotPanics(t, func() { m.Transition(Disconnected) })
	assert.Equal(t, Disconnected, m.State())
}

func TestErrorRecoversToConnectingOrDisconnected(t *testing.T) {
	m := New(nil)
	m.Transition(Connecting)
	m.Transition(Error)
	require.NotPanics(t, func() { m.Transition(Connecting) })
}

func TestInvalidTransitionPanics(t *testing.T) {
	m := New(nil)
	assert.Panics(t, func() { m.Transition(Connected) })

	m.Transition(Connecting)
	m.Transition(Connected)
	assert.Panics(t, func() { m.Transition(Connecting) })
}

func TestObserversCalledExactlyOncePerTransition(t *testing.T) {
	m := New(nil)
	var calls [][2]State
	unsub := m.Observe(func(from, to State) {
		calls = append(calls, [2]State{from, to})
	})
	defer unsub()

	m.Transition(Connecting)
	m.Transition(Connected)

	require.Len(t, calls, 2)
	assert.Equal(t, [2]State{Disconnected, Connecting}, calls[0])
	assert.Equal(t, [2]State{Connecting, Connected}, calls[1])
}

func TestObserverPanicDoesNotPropagateOrBlockOthers(t *testing.T) {
	m := New(nil)
	secondCalled := false

	m.Observe(func(from, to State) { panic("boom") })
	m.Observe(func(from, to State) { secondCalled = true })

	assert.NotPanics(t, func() { m.Transition(Connecting) })
	assert.True(t, secondCalled)
}

func TestUnsubscribeStopsFutureNotifications(t *testing.T) {
	m := New(nil)
	count := 0
	unsub := m.Observe(func(from, to State) { count++ })
	m.Transition(Connecting)
	unsub()
	m.Transition(Connected)
	assert.Equal(t, 1, count)
}
