package http

import (
	"context"
	"errors"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driving"
)

// Mock services for testing

type mockOAuthService struct {
	authorizeFn func(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error)
	callbackFn  func(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResponse, error)
}

func (m *mockOAuthService) Authorize(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error) {
	if m.authorizeFn != nil {
		return m.authorizeFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOAuthService) Callback(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
	if m.callbackFn != nil {
		return m.callbackFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

type mockLoginService struct {
	beginFn    func(ctx context.Context) (*driving.AuthorizeResponse, error)
	completeFn func(ctx context.Context, req driving.CallbackRequest) (*driving.LoginResponse, error)
	verifyFn   func(ctx context.Context, token string) (*domain.Identity, error)
}

func (m *mockLoginService) Begin(ctx context.Context) (*driving.AuthorizeResponse, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockLoginService) Complete(ctx context.Context, req driving.CallbackRequest) (*driving.LoginResponse, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockLoginService) VerifySession(ctx context.Context, token string) (*domain.Identity, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, token)
	}
	return nil, errors.New("not implemented")
}

type mockConnectionService struct {
	listFn       func(ctx context.Context, userID string) (domain.Connections, error)
	disconnectFn func(ctx context.Context, userID string, platform domain.Platform) error
}

func (m *mockConnectionService) List(ctx context.Context, userID string) (domain.Connections, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) Disconnect(ctx context.Context, userID string, platform domain.Platform) error {
	if m.disconnectFn != nil {
		return m.disconnectFn(ctx, userID, platform)
	}
	return errors.New("not implemented")
}

type mockPublishService struct {
	publishFn func(ctx context.Context, platform domain.Platform, post domain.Post) (*domain.PublishResult, error)
}

func (m *mockPublishService) Publish(ctx context.Context, platform domain.Platform, post domain.Post) (*domain.PublishResult, error) {
	if m.publishFn != nil {
		return m.publishFn(ctx, platform, post)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPublishService) ReconnectURL(platform domain.Platform, userID string) string {
	return "/auth/" + string(platform) + "?userId=" + userID
}

type mockContentService struct {
	generateFn func(ctx context.Context, req domain.GenerateRequest) (*domain.GeneratedContent, error)
}

func (m *mockContentService) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GeneratedContent, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockContentService) Available() bool { return m.generateFn != nil }

type staticPlatforms map[domain.Platform]bool

func (p staticPlatforms) Configured(platform domain.Platform) bool { return p[platform] }

type fakeRedirects struct{}

func (fakeRedirects) ConnectError(message string) string {
	return "http://app/content-studio?error=" + message
}

func (fakeRedirects) LoginError(message string) string {
	return "http://app/login?error=" + message
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServices struct {
	oauth       *mockOAuthService
	login       *mockLoginService
	connections *mockConnectionService
	publish     *mockPublishService
	content     *mockContentService
}

func newTestServer(pingers map[string]Pinger) (*Server, *testServices) {
	ts := &testServices{
		oauth:       &mockOAuthService{},
		login:       &mockLoginService{},
		connections: &mockConnectionService{},
		publish:     &mockPublishService{},
		content:     &mockContentService{},
	}
	cfg := DefaultConfig()
	cfg.CORSOrigins = []string{"http://localhost:3000"}
	s := NewServer(cfg, Services{
		OAuth:       ts.oauth,
		Login:       ts.login,
		Connections: ts.connections,
		Publish:     ts.publish,
		Content:     ts.content,
		Platforms:   staticPlatforms{domain.PlatformLinkedIn: true, domain.PlatformTwitter: true},
		Redirects:   fakeRedirects{},
	}, pingers)
	return s, ts
}
