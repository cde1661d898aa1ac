package redis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/crypto"
	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

func newTestCredentialStore(t *testing.T) (*CredentialStore, func(key string) string) {
	t.Helper()
	client, mr := setupTestRedis(t)
	enc, err := crypto.NewSecretEncryptor([]byte("01234567890123456789012345678901"))
	require.NoError(t, err)
	return NewCredentialStore(client, enc), func(platform string) string {
		return mr.HGet(credentialKey("u1"), platform)
	}
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	store, raw := newTestCredentialStore(t)
	ctx := context.Background()

	err := store.Set(ctx, "u1", domain.PlatformFacebook, &domain.PlatformCredential{
		AccessToken: "FB-TOKEN",
		ProfileName: "Ada",
		Pages:       []domain.FacebookPage{{ID: "p1", Name: "Ada's Page", AccessToken: "PAGE-TOKEN"}},
	})
	require.NoError(t, err)

	stored := raw(string(domain.PlatformFacebook))
	require.NotEmpty(t, stored)
	assert.False(t, strings.Contains(stored, "FB-TOKEN"), "access token stored in plaintext")

	got, err := store.Get(ctx, "u1", domain.PlatformFacebook)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "FB-TOKEN", got.AccessToken)
	assert.Equal(t, domain.PlatformFacebook, got.Platform)
	require.Len(t, got.Pages, 1)
	assert.Equal(t, "PAGE-TOKEN", got.Pages[0].AccessToken)
	assert.False(t, got.ConnectedAt.IsZero())
}

func TestCredentialStore_GetAllAndRemove(t *testing.T) {
	store, _ := newTestCredentialStore(t)
	ctx := context.Background()

	missing, err := store.Get(ctx, "u1", domain.PlatformTwitter)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Set(ctx, "u1", domain.PlatformTwitter, &domain.PlatformCredential{AccessToken: "T"}))
	require.NoError(t, store.Set(ctx, "u1", domain.PlatformLinkedIn, &domain.PlatformCredential{AccessToken: "L"}))

	all, err := store.GetAll(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "L", all[domain.PlatformLinkedIn].AccessToken)

	require.NoError(t, store.Remove(ctx, "u1", domain.PlatformTwitter))
	connected, err := store.IsConnected(ctx, "u1", domain.PlatformTwitter)
	require.NoError(t, err)
	assert.False(t, connected)

	connected, err = store.IsConnected(ctx, "u1", domain.PlatformLinkedIn)
	require.NoError(t, err)
	assert.True(t, connected)

	none, err := store.GetAll(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCredentialStore_WrongKey(t *testing.T) {
	client, _ := setupTestRedis(t)
	enc1, _ := crypto.NewSecretEncryptor([]byte("01234567890123456789012345678901"))
	enc2, _ := crypto.NewSecretEncryptor([]byte("10987654321098765432109876543210"))
	ctx := context.Background()

	require.NoError(t, NewCredentialStore(client, enc1).Set(ctx, "u1", domain.PlatformTwitter, &domain.PlatformCredential{AccessToken: "T"}))

	_, err := NewCredentialStore(client, enc2).Get(ctx, "u1", domain.PlatformTwitter)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}
