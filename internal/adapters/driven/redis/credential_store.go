package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/crypto"
	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CredentialStore = (*CredentialStore)(nil)

const credentialPrefix = "ai2aim:credentials:"

// CredentialStore keeps one hash per user; each field is a platform and
// each value an encrypted credential blob.
type CredentialStore struct {
	client    *redis.Client
	encryptor *crypto.SecretEncryptor
}

// NewCredentialStore creates a Redis-backed credential store.
func NewCredentialStore(client *redis.Client, encryptor *crypto.SecretEncryptor) *CredentialStore {
	return &CredentialStore{client: client, encryptor: encryptor}
}

func credentialKey(userID string) string {
	return credentialPrefix + userID
}

// Get returns the credential, or nil, nil if none is stored.
func (s *CredentialStore) Get(ctx context.Context, userID string, platform domain.Platform) (*domain.PlatformCredential, error) {
	blob, err := s.client.HGet(ctx, credentialKey(userID), string(platform)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return s.open(blob)
}

// Set replaces the credential for the pair and stamps ConnectedAt.
func (s *CredentialStore) Set(ctx context.Context, userID string, platform domain.Platform, cred *domain.PlatformCredential) error {
	cred.Platform = platform
	cred.ConnectedAt = time.Now().UTC()

	blob, err := s.encryptor.Encrypt(cred)
	if err != nil {
		return fmt.Errorf("encrypt credential: %w", err)
	}
	if err := s.client.HSet(ctx, credentialKey(userID), string(platform), blob).Err(); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Remove deletes the credential.
func (s *CredentialStore) Remove(ctx context.Context, userID string, platform domain.Platform) error {
	if err := s.client.HDel(ctx, credentialKey(userID), string(platform)).Err(); err != nil {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}

// GetAll returns every credential stored for the user.
func (s *CredentialStore) GetAll(ctx context.Context, userID string) (map[domain.Platform]*domain.PlatformCredential, error) {
	fields, err := s.client.HGetAll(ctx, credentialKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	out := make(map[domain.Platform]*domain.PlatformCredential, len(fields))
	for field, blob := range fields {
		cred, err := s.open([]byte(blob))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		out[domain.Platform(field)] = cred
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

// Ping checks if the Redis backend is healthy.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CredentialStore) open(blob []byte) (*domain.PlatformCredential, error) {
	var cred domain.PlatformCredential
	if err := s.encryptor.Decrypt(blob, &cred); err != nil {
		return nil, fmt.Errorf("decrypt credential: %w", err)
	}
	return &cred, nil
}
