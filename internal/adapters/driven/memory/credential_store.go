package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore keeps credentials in a map guarded by a RWMutex.
// Contents are lost on restart.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]map[domain.Platform]domain.PlatformCredential
	now   func() time.Time
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		creds: make(map[string]map[domain.Platform]domain.PlatformCredential),
		now:   time.Now,
	}
}

// Get returns a copy of the credential, or nil, nil if none is stored.
func (s *CredentialStore) Get(ctx context.Context, userID string, platform domain.Platform) (*domain.PlatformCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.creds[userID][platform]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

// Set replaces the credential for the pair and stamps ConnectedAt.
func (s *CredentialStore) Set(ctx context.Context, userID string, platform domain.Platform, cred *domain.PlatformCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred.Platform = platform
	cred.ConnectedAt = s.now()

	user, ok := s.creds[userID]
	if !ok {
		user = make(map[domain.Platform]domain.PlatformCredential)
		s.creds[userID] = user
	}
	stored := *cred
	stored.Pages = append([]domain.FacebookPage(nil), cred.Pages...)
	user[platform] = stored
	return nil
}

// Remove deletes the credential.
func (s *CredentialStore) Remove(ctx context.Context, userID string, platform domain.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.creds[userID]
	if !ok {
		return nil
	}
	delete(user, platform)
	if len(user) == 0 {
		delete(s.creds, userID)
	}
	return nil
}

// GetAll returns copies of every credential stored for the user.
func (s *CredentialStore) GetAll(ctx context.Context, userID string) (map[domain.Platform]*domain.PlatformCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.Platform]*domain.PlatformCredential, len(s.creds[userID]))
	for platform, cred := range s.creds[userID] {
		c := cred
		out[platform] = &c
	}
	return out, nil
}

// IsConnected reports whether a usable credential exists.
func (s *CredentialStore) IsConnected(ctx context.Context, userID string, platform domain.Platform) (bool, error) {
	cred, err := s.Get(ctx, userID, platform)
	if err != nil {
		return false, err
	}
	return cred.IsConnected(), nil
}
