package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// MockCredentialStore is a mock implementation of CredentialStore for testing
type MockCredentialStore struct {
	mu    sync.RWMutex
	creds map[string]map[domain.Platform]*domain.PlatformCredential

	// Err is returned by every method when set
	Err error
}

// NewMockCredentialStore creates a new MockCredentialStore
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{
		creds: make(map[string]map[domain.Platform]*domain.PlatformCredential),
	}
}

func (m *MockCredentialStore) Get(ctx context.Context, userID string, platform domain.Platform) (*domain.PlatformCredential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.creds[userID][platform], nil
}

func (m *MockCredentialStore) Set(ctx context.Context, userID string, platform domain.Platform, cred *domain.PlatformCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.creds[userID] == nil {
		m.creds[userID] = make(map[domain.Platform]*domain.PlatformCredential)
	}
	cred.Platform = platform
	cred.ConnectedAt = time.Now()
	m.creds[userID][platform] = cred
	return nil
}

func (m *MockCredentialStore) Remove(ctx context.Context, userID string, platform domain.Platform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.creds[userID], platform)
	return nil
}

func (m *MockCredentialStore) GetAll(ctx context.Context, userID string) (map[domain.Platform]*domain.PlatformCredential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[domain.Platform]*domain.PlatformCredential, len(m.creds[userID]))
	for p, c := range m.creds[userID] {
		out[p] = c
	}
	return out, nil
}

func (m *MockCredentialStore) IsConnected(ctx context.Context, userID string, platform domain.Platform) (bool, error) {
	cred, err := m.Get(ctx, userID, platform)
	if err != nil {
		return false, err
	}
	return cred.IsConnected(), nil
}
