package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetListenReceivesEmittedValues(t *testing.T) {
	e := NewEmitter[int]()
	target := NewTarget(e)

	ch := make(chan int, 4)
	target.Listen(ch)

	e.Emit(1, nil)
	e.Emit(2, nil)

	assert.Equal(t, 1, <-ch)
	assert.Equal(t, 2, <-ch)
}

func TestTargetSubscribesUpstreamOnlyWhileListenersExist(t *testing.T) {
	e := NewEmitter[int]()
	target := NewTarget(e)
	require.Equal(t, 0, e.ListenerCount())

	ch := make(chan int, 1)
	unregister := target.Listen(ch)
	assert.Equal(t, 1, e.ListenerCount())

	unregister()
	assert.Equal(t, 0, e.ListenerCount())
}

func TestTargetDeduplicatesIdenticalChannelReferences(t *testing.T) {
	e := NewEmitter[int]()
	target := NewTarget(e)

	ch := make(chan int, 4)
	unregisterA := target.Listen(ch)
	unregisterB := target.Listen(ch)

	assert.Equal(t, 1, target.ListenerCount())
	assert.Equal(t, 2, target.SubscriptionCount(ch))
	assert.Equal(t, 1, e.ListenerCount())

	e.Emit(7, nil)
	assert.Equal(t, 7, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("expected exactly one delivery per emit, got second value %d", v)
	default:
	}

	unregisterA()
	assert.Equal(t, 1, target.SubscriptionCount(ch))
	assert.Equal(t, 1, e.ListenerCount())

	unregisterB()
	assert.Equal(t, 0, target.ListenerCount())
	assert.Equal(t, 0, e.ListenerCount())
}

func TestTargetUnregisterIsIdempotent(t *testing.T) {
	e := NewEmitter[int]()
	target := NewTarget(e)

	ch := make(chan int, 1)
	unregister := target.Listen(ch)
	unregister()
	assert.NotPanics(t, unregister)
	assert.Equal(t, 0, e.ListenerCount())
}

func TestTargetNonBlockingSendDoesNotStallOtherListeners(t *testing.T) {
	e := NewEmitter[int]()
	target := NewTarget(e)

	full := make(chan int) // unbuffered, nobody reading: sends would block
	target.Listen(full)

	drained := make(chan int, 1)
	target.Listen(drained)

	done := make(chan struct{})
	go func() {
		e.Emit(42, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full listener channel")
	}

	assert.Equal(t, 42, <-drained)
}
