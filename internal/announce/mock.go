package announce

import (
	"context"
	"sync"
)

// MockCall records a Speaker invocation.
type MockCall struct {
	Method    string
	Utterance Utterance
}

// MockSpeaker records calls for tests. If Block is set, Speak waits until
// its context is cancelled.
type MockSpeaker struct {
	Block bool
	Err   error

	mu    sync.Mutex
	calls []MockCall
}

// NewMockSpeaker creates a MockSpeaker that returns immediately.
func NewMockSpeaker() *MockSpeaker {
	return &MockSpeaker{}
}

// Speak implements Speaker.
func (m *MockSpeaker) Speak(ctx context.Context, u Utterance) error {
	m.record(MockCall{Method: "Speak", Utterance: u})
	if m.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.Err
}

// Cancel implements Speaker.
func (m *MockSpeaker) Cancel() {
	m.record(MockCall{Method: "Cancel"})
}

// Calls returns a copy of the recorded calls.
func (m *MockSpeaker) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Spoken returns the text of every Speak call in order.
func (m *MockSpeaker) Spoken() []string {
	var out []string
	for _, c := range m.Calls() {
		if c.Method == "Speak" {
			out = append(out, c.Utterance.Text)
		}
	}
	return out
}

func (m *MockSpeaker) record(c MockCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

var _ Speaker = (*MockSpeaker)(nil)
