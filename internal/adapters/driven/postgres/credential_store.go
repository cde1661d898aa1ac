package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/crypto"
	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore implements driven.CredentialStore using PostgreSQL.
// The whole credential is sealed into secret_blob; profile columns are
// kept in the clear for operators.
type CredentialStore struct {
	db        *sql.DB
	encryptor *crypto.SecretEncryptor
}

// NewCredentialStore creates a PostgreSQL-backed credential store.
func NewCredentialStore(db *sql.DB, encryptor *crypto.SecretEncryptor) *CredentialStore {
	return &CredentialStore{db: db, encryptor: encryptor}
}

// Get returns the credential, or nil, nil if none is stored.
func (s *CredentialStore) Get(ctx context.Context, userID string, platform domain.Platform) (*domain.PlatformCredential, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT secret_blob FROM platform_credentials WHERE user_id = $1 AND platform = $2`,
		userID, string(platform),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
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

	query := `
		INSERT INTO platform_credentials (user_id, platform, secret_blob, profile_id, profile_name, expires_at, connected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, platform) DO UPDATE SET
			secret_blob = EXCLUDED.secret_blob,
			profile_id = EXCLUDED.profile_id,
			profile_name = EXCLUDED.profile_name,
			expires_at = EXCLUDED.expires_at,
			connected_at = EXCLUDED.connected_at
	`
	_, err = s.db.ExecContext(ctx, query,
		userID,
		string(platform),
		blob,
		cred.ProfileID,
		cred.DisplayName(),
		NullTime(cred.ExpiresAt()),
		cred.ConnectedAt,
	)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Remove deletes the credential.
func (s *CredentialStore) Remove(ctx context.Context, userID string, platform domain.Platform) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM platform_credentials WHERE user_id = $1 AND platform = $2`,
		userID, string(platform),
	)
	if err != nil {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}

// GetAll returns every credential stored for the user.
func (s *CredentialStore) GetAll(ctx context.Context, userID string) (map[domain.Platform]*domain.PlatformCredential, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, secret_blob FROM platform_credentials WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.Platform]*domain.PlatformCredential)
	for rows.Next() {
		var (
			platform string
			blob     []byte
		)
		if err := rows.Scan(&platform, &blob); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		cred, err := s.open(blob)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", platform, err)
		}
		out[domain.Platform(platform)] = cred
	}
	return out, rows.Err()
}

// IsConnected reports whether a usable credential exists.
func (s *CredentialStore) IsConnected(ctx context.Context, userID string, platform domain.Platform) (bool, error) {
	cred, err := s.Get(ctx, userID, platform)
	if err != nil {
		return false, err
	}
	return cred.IsConnected(), nil
}

func (s *CredentialStore) open(blob []byte) (*domain.PlatformCredential, error) {
	var cred domain.PlatformCredential
	if err := s.encryptor.Decrypt(blob, &cred); err != nil {
		return nil, fmt.Errorf("decrypt credential: %w", err)
	}
	return &cred, nil
}
