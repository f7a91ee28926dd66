package screen

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/localchat/internal/bus"
)

// Screen is one page of the client.
type Screen string

const (
	Welcome      Screen = "WELCOME"
	Chats        Screen = "CHATS"
	Conversation Screen = "CONVERSATION"
	Friends      Screen = "FRIENDS"
	Requests     Screen = "REQUESTS"
	Search       Screen = "SEARCH"
	Profile      Screen = "PROFILE"
)

var signedIn = []Screen{Chats, Conversation, Friends, Requests, Search, Profile}

// validTransitions defines allowed screen changes. Every signed-in screen can
// reach every other one and log out; Welcome only leads into the chat list.
var validTransitions = map[Screen][]Screen{
	Welcome:      {Chats},
	Chats:        append(slices.Clone(signedIn), Welcome),
	Conversation: append(slices.Clone(signedIn), Welcome),
	Friends:      append(slices.Clone(signedIn), Welcome),
	Requests:     append(slices.Clone(signedIn), Welcome),
	Search:       append(slices.Clone(signedIn), Welcome),
	Profile:      append(slices.Clone(signedIn), Welcome),
}

// Machine tracks and enforces the current screen.
type Machine struct {
	mu      sync.RWMutex
	current Screen
	bus     *bus.Bus
}

// NewMachine creates a machine on the Welcome screen.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Welcome,
		bus:     b,
	}
}

// Current returns the current screen.
func (m *Machine) Current() Screen {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SignedIn reports whether the current screen belongs to a signed-in session.
func (m *Machine) SignedIn() bool {
	return m.Current() != Welcome
}

// Transition moves to a new screen. Moving to the current screen is allowed
// for signed-in screens and publishes nothing.
func (m *Machine) Transition(to Screen) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	if from == to {
		return nil
	}
	m.current = to
	m.bus.Emit(bus.KindScreenChanged, Change{From: from, To: to})
	return nil
}

// Reset returns to Welcome from any screen.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == Welcome {
		return
	}
	from := m.current
	m.current = Welcome
	m.bus.Emit(bus.KindScreenChanged, Change{From: from, To: Welcome})
}

// Change is the payload for screen change events.
type Change struct {
	From Screen
	To   Screen
}
