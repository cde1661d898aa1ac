package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Ensure OAuthStateStore implements the interface.
var _ driven.OAuthStateStore = (*OAuthStateStore)(nil)

// OAuthStateStore implements driven.OAuthStateStore using PostgreSQL.
// Expired rows linger until Cleanup runs but can never be redeemed.
type OAuthStateStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewOAuthStateStore creates a PostgreSQL-backed OAuth state store.
func NewOAuthStateStore(db *sql.DB, ttl time.Duration) *OAuthStateStore {
	return &OAuthStateStore{db: db, ttl: ttl}
}

// Save stores a new OAuth state.
func (s *OAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	if state.ExpiresAt.IsZero() {
		state.ExpiresAt = now.Add(s.ttl)
	}

	query := `
		INSERT INTO oauth_states (state, platform, user_id, code_verifier, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		state.State,
		string(state.Platform),
		state.UserID,
		state.CodeVerifier,
		state.CreatedAt,
		state.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// GetAndDelete atomically retrieves and deletes the state.
// DELETE ... RETURNING gives single-use semantics across instances.
func (s *OAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	query := `
		DELETE FROM oauth_states
		WHERE state = $1 AND expires_at > NOW()
		RETURNING state, platform, user_id, code_verifier, created_at, expires_at
	`

	var (
		oauthState driven.OAuthState
		platform   string
	)
	err := s.db.QueryRowContext(ctx, query, state).Scan(
		&oauthState.State,
		&platform,
		&oauthState.UserID,
		&oauthState.CodeVerifier,
		&oauthState.CreatedAt,
		&oauthState.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get and delete oauth state: %w", err)
	}
	oauthState.Platform = domain.Platform(platform)
	return &oauthState, nil
}

// Cleanup removes expired states.
func (s *OAuthStateStore) Cleanup(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM oauth_states WHERE expires_at <= NOW()`); err != nil {
		return fmt.Errorf("cleanup oauth states: %w", err)
	}
	return nil
}
