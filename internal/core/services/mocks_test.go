package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// MockConnector is a mock implementation of driven.ProviderConnector
type MockConnector struct {
	mock.Mock
	platform   domain.Platform
	pkce       bool
	configured bool
}

func newMockConnector(platform domain.Platform, pkce bool) *MockConnector {
	return &MockConnector{platform: platform, pkce: pkce, configured: true}
}

func (m *MockConnector) Platform() domain.Platform { return m.platform }
func (m *MockConnector) Configured() bool          { return m.configured }
func (m *MockConnector) UsesPKCE() bool            { return m.pkce }

func (m *MockConnector) AuthCodeURL(state, codeChallenge string) string {
	u := "https://provider.example/authorize?state=" + state
	if codeChallenge != "" {
		u += "&code_challenge=" + codeChallenge + "&code_challenge_method=S256"
	}
	return u
}

func (m *MockConnector) ExchangeCode(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error) {
	args := m.Called(ctx, code, codeVerifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driven.OAuthToken), args.Error(1)
}

func (m *MockConnector) FetchProfile(ctx context.Context, token *driven.OAuthToken) (*driven.Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driven.Profile), args.Error(1)
}

// connectorMap is a map-backed driven.ConnectorRegistry
type connectorMap map[domain.Platform]driven.ProviderConnector

func (r connectorMap) Get(platform domain.Platform) driven.ProviderConnector {
	return r[platform]
}

func (r connectorMap) Platforms() []domain.Platform {
	out := make([]domain.Platform, 0, len(r))
	for p := range r {
		out = append(out, p)
	}
	return out
}

// MockPublisher is a mock implementation of driven.Publisher
type MockPublisher struct {
	mock.Mock
	platform domain.Platform
}

func (m *MockPublisher) Platform() domain.Platform { return m.platform }

func (m *MockPublisher) Publish(ctx context.Context, cred *domain.PlatformCredential, post domain.Post) (*domain.PublishResult, error) {
	args := m.Called(ctx, cred, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishResult), args.Error(1)
}

// MockContentGenerator is a mock implementation of driven.ContentGenerator
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func (m *MockContentGenerator) Model() string { return "test-model" }

// stubSigner signs identities as "signed:<id>"
type stubSigner struct {
	identities map[string]*domain.Identity
}

func newStubSigner() *stubSigner {
	return &stubSigner{identities: make(map[string]*domain.Identity)}
}

func (s *stubSigner) Sign(identity *domain.Identity) (string, error) {
	token := "signed:" + identity.ID
	s.identities[token] = identity
	return token, nil
}

func (s *stubSigner) Verify(token string) (*domain.Identity, error) {
	identity, ok := s.identities[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return identity, nil
}
