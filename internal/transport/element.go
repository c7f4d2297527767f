package transport

import "sync"

// State is a snapshot of a media element.
type State struct {
	Playing  bool    `json:"playing"`
	Position float64 `json:"position"`
}

// Element is an in-memory media element. Observers are told about every
// change so that a remote player (the browser page) can mirror it, and the
// remote player reports its real state back through Sync.
type Element struct {
	mu        sync.Mutex
	state     State
	observers []func(State)
}

// NewElement creates a paused element at position 0.
func NewElement() *Element {
	return &Element{}
}

// Observe registers fn to be called after every change. fn runs on the
// goroutine that made the change and must not call back into the element.
func (e *Element) Observe(fn func(State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Play implements Media.
func (e *Element) Play() error {
	e.update(func(s *State) { s.Playing = true })
	return nil
}

// Pause implements Media.
func (e *Element) Pause() error {
	e.update(func(s *State) { s.Playing = false })
	return nil
}

// Position implements Media.
func (e *Element) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Position
}

// SetPosition implements Media. The position is not clamped to a track
// length; the remote player clamps and syncs back.
func (e *Element) SetPosition(sec float64) error {
	if sec < 0 {
		sec = 0
	}
	e.update(func(s *State) { s.Position = sec })
	return nil
}

// State returns the current snapshot.
func (e *Element) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Sync replaces the state with what the remote player reports without
// notifying observers.
func (e *Element) Sync(s State) {
	if s.Position < 0 {
		s.Position = 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = s
}

func (e *Element) update(fn func(*State)) {
	e.mu.Lock()
	fn(&e.state)
	s := e.state
	observers := make([]func(State), len(e.observers))
	copy(observers, e.observers)
	e.mu.Unlock()

	for _, o := range observers {
		o(s)
	}
}

var _ Media = (*Element)(nil)
