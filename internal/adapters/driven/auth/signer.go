package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Ensure Signer implements IdentitySigner
var _ driven.IdentitySigner = (*Signer)(nil)

// DefaultTokenTTL is how long a login token stays valid. The frontend
// exchanges it right after the redirect, so it is short.
const DefaultTokenTTL = 5 * time.Minute

const issuer = "ai2aim-core"

// identityClaims carries a domain.Identity inside a JWT
type identityClaims struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// Signer signs login identities as HS256 JWTs
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a signer with the given key
func NewSigner(secret []byte, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{secret: secret, ttl: ttl, now: time.Now}
}

// Sign creates a signed token for the identity
func (s *Signer) Sign(identity *domain.Identity) (string, error) {
	if identity == nil || identity.ID == "" {
		return "", fmt.Errorf("identity id is required")
	}

	now := s.now()
	claims := identityClaims{
		Email:    identity.Email,
		Name:     identity.Name,
		Picture:  identity.Picture,
		Provider: identity.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and extracts the identity
func (s *Signer) Verify(tokenString string) (*domain.Identity, error) {
	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: expired", domain.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Identity{
		ID:       claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
		Provider: claims.Provider,
	}, nil
}
