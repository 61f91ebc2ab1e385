// Package statemachine implements the four-state connection lifecycle
// shared by every transport the orchestrator manages. It is deliberately
// small and synchronous: callers serialize calls to Transition themselves
// (the orchestrator does so under its connection mutex).
package statemachine

import (
	"fmt"
	"sync"

	"github.com/walkingpad/padctl/internal/logging"
)

// State is one of the four connection states.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Error
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

var validTransitions = map[State]map[State]bool{
	Disconnected: {Connecting: true},
	Connecting:   {Connected: true, Error: true, Disconnected: true},
	Connected:    {Disconnected: true},
	Error:        {Disconnected: true, Connecting: true},
}

// Observer is called with (from, to) on every accepted transition.
type Observer func(from, to State)

// Machine is the connection state machine. The zero value is ready to use
// and starts in Disconnected.
type Machine struct {
	mu        sync.Mutex
	state     State
	observers map[uint64]Observer
	nextID    uint64
	logger    logging.Logger
}

// New creates a machine starting in Disconnected, logging observer panics
// through logger (a nil logger falls back to logging.Default()).
func New(logger logging.Logger) *Machine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Machine{
		state:     Disconnected,
		observers: make(map[uint64]Observer),
		logger:    logger,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Observe registers an observer, called with (from, to) on every accepted
// transition. Returns a deregistration function.
func (m *Machine) Observe(obs Observer) func() {
	if obs == nil {
		panic("statemachine: observer cannot be nil")
	}
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.observers[id] = obs
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// Transition moves the machine from its current state to to. It panics
// (a programmer error, per spec) if the transition is not in the valid
// table. Every accepted transition invokes every registered observer
// exactly once with (from, to); an observer panic is recovered and logged,
// never propagated, and never prevents other observers from running.
func (m *Machine) Transition(to State) {
	m.mu.Lock()
	from := m.state
	allowed := validTransitions[from][to]
	if !allowed {
		m.mu.Unlock()
		panic(fmt.Sprintf("statemachine: invalid transition %s -> %s", from, to))
	}
	m.state = to

	observersCopy := make([]Observer, 0, len(m.observers))
	for _, obs := range m.observers {
		observersCopy = append(observersCopy, obs)
	}
	m.mu.Unlock()

	for _, obs := range observersCopy {
		m.invokeObserver(obs, from, to)
	}
}

func (m *Machine) invokeObserver(obs Observer, from, to State) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("statemachine: observer panic on %s -> %s: %v", from, to, r)
		}
	}()
	obs(from, to)
}
