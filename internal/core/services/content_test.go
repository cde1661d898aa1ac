package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

func TestContentService_Generate(t *testing.T) {
	gen := &MockContentGenerator{}
	svc := NewContentService(gen, nil)

	gen.On("Generate", mock.Anything,
		mock.MatchedBy(func(s string) bool { return strings.Contains(s, "Be optimized for linkedin") }),
		`Write an SEO-optimized linkedin post about: "remote work"`,
	).Return("Remote work is here. Embrace it today! #RemoteWork #Future", nil)

	out, err := svc.Generate(context.Background(), domain.GenerateRequest{Topic: "remote work"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "remote work", out.Title)
	assert.Equal(t, 80, out.SEOScore)
	assert.Equal(t, []string{"remotework", "future"}, out.Keywords)
	gen.AssertExpectations(t)
}

func TestContentService_Generate_PlainPrompt(t *testing.T) {
	gen := &MockContentGenerator{}
	svc := NewContentService(gen, nil)
	seo := false

	gen.On("Generate", mock.Anything, mock.Anything, `Write a twitter post about: "go"`).Return("Go is fun.", nil)

	_, err := svc.Generate(context.Background(), domain.GenerateRequest{Topic: "go", SEOOptimized: &seo, Platform: domain.PlatformTwitter})
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestContentService_Generate_Errors(t *testing.T) {
	gen := &MockContentGenerator{}
	svc := NewContentService(gen, nil)

	_, err := svc.Generate(context.Background(), domain.GenerateRequest{})
	assert.ErrorIs(t, err, domain.ErrMissingParameter)

	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", domain.ErrGeneratorQuota).Once()
	_, err = svc.Generate(context.Background(), domain.GenerateRequest{Topic: "x"})
	assert.ErrorIs(t, err, domain.ErrGeneratorQuota)

	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError).Once()
	_, err = svc.Generate(context.Background(), domain.GenerateRequest{Topic: "x"})
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestContentService_NotConfigured(t *testing.T) {
	svc := NewContentService(nil, nil)
	assert.False(t, svc.Available())

	_, err := svc.Generate(context.Background(), domain.GenerateRequest{Topic: "x"})
	assert.ErrorIs(t, err, domain.ErrGeneratorNotConfigured)
}
