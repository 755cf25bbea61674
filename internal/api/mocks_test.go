package api_test

import (
	"context"
	"sync"

	"github.com/persistorai/mindmap/internal/state"
)

// mockSession implements api.Session for testing.
type mockSession struct {
	mu         sync.Mutex
	state      state.State
	dispatched []state.Event
	dispatchFn func(ctx context.Context, evt state.Event) (state.State, bool, error)
}

func (m *mockSession) State() state.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

func (m *mockSession) Dispatch(ctx context.Context, evt state.Event) (state.State, bool, error) {
	m.mu.Lock()
	m.dispatched = append(m.dispatched, evt)
	s := m.state
	m.mu.Unlock()

	if m.dispatchFn != nil {
		return m.dispatchFn(ctx, evt)
	}

	return s, false, nil
}

func (m *mockSession) events() []state.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]state.Event(nil), m.dispatched...)
}
