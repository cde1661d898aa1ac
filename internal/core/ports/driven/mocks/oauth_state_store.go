package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// MockOAuthStateStore is a mock implementation of OAuthStateStore for testing
type MockOAuthStateStore struct {
	mu     sync.Mutex
	states map[string]*driven.OAuthState

	// SaveErr is returned by Save when set
	SaveErr error
}

// NewMockOAuthStateStore creates a new MockOAuthStateStore
func NewMockOAuthStateStore() *MockOAuthStateStore {
	return &MockOAuthStateStore{
		states: make(map[string]*driven.OAuthState),
	}
}

func (m *MockOAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	copied := *state
	m.states[state.State] = &copied
	return nil
}

func (m *MockOAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[state]
	if !ok {
		return nil, nil
	}
	delete(m.states, state)
	if s.IsExpired(time.Now()) {
		return nil, nil
	}
	return s, nil
}

func (m *MockOAuthStateStore) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for k, v := range m.states {
		if v.IsExpired(now) {
			delete(m.states, k)
		}
	}
	return nil
}

// Len returns the number of pending states
func (m *MockOAuthStateStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}

// Peek returns a pending state without consuming it
func (m *MockOAuthStateStore) Peek(state string) *driven.OAuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[state]
}
