package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"userId and content are required"`
	Hint  string `json:"hint,omitempty"`
}

// ReconnectResponse is returned when posting needs a fresh connection
// @Description Posting failed because the platform is not connected
type ReconnectResponse struct {
	Error     string `json:"error" example:"Not connected to Twitter"`
	NeedsAuth bool   `json:"needsAuth" example:"true"`
	AuthURL   string `json:"authUrl" example:"/auth/twitter?userId=u1"`
}

// PlatformHealth is one entry of the health platform map
type PlatformHealth struct {
	Configured bool `json:"configured"`
	OAuth      bool `json:"oauth"`
}

// HealthResponse represents the health check response
// @Description Health check response
type HealthResponse struct {
	Status    string                             `json:"status" example:"ok"`
	Timestamp string                             `json:"timestamp" example:"2024-01-15T10:00:00Z"`
	Mode      string                             `json:"mode" example:"multi-user-oauth"`
	Platforms map[domain.Platform]PlatformHealth `json:"platforms"`
}

// ConnectionsResponse lists the connected flag per platform
type ConnectionsResponse struct {
	Success     bool               `json:"success"`
	Connections domain.Connections `json:"connections"`
}

// MessageResponse is a success flag with a message
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SessionResponse carries a verified login identity
type SessionResponse struct {
	Success bool             `json:"success"`
	User    *domain.Identity `json:"user"`
}

// PostRequest is the body of a publish call
type PostRequest struct {
	UserID   string `json:"userId"`
	Content  string `json:"content"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

const (
	generatorAuthMessage  = "OpenAI API key is invalid or has expired."
	generatorAuthHint     = "Check your API key at https://platform.openai.com/api-keys"
	generatorQuotaMessage = "OpenAI API quota exceeded or rate limited."
	generatorQuotaHint    = "Wait a moment or check your usage at https://platform.openai.com/usage"
)

// readyTimeout bounds each backend ping in /ready
const readyTimeout = 2 * time.Second

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status and which platforms have OAuth credentials
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	platforms := make(map[domain.Platform]PlatformHealth)
	for _, p := range append(domain.ConnectablePlatforms(), domain.PlatformGoogle) {
		configured := s.platforms != nil && s.platforms.Configured(p)
		platforms[p] = PlatformHealth{Configured: configured, OAuth: true}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Mode:      "multi-user-oauth",
		Platforms: platforms,
	})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings every storage backend
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ready"}
	code := http.StatusOK

	for name, p := range s.pingers {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		err := p.Ping(ctx)
		cancel()
		if err != nil {
			s.logger.Warn("readiness check failed", "backend", name, "error", err)
			status[name] = "unavailable"
			status["status"] = "not ready"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}

	writeJSON(w, code, status)
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Connection endpoints

// handleListConnections godoc
// @Summary      List connections
// @Description  Returns whether each publishing platform is connected for the user
// @Tags         Connections
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  ConnectionsResponse
// @Router       /user/{userId}/connections [get]
func (s *Server) handleListConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := s.connectionService.List(r.Context(), r.PathValue("userId"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ConnectionsResponse{Success: true, Connections: conns})
}

// handleDisconnect godoc
// @Summary      Disconnect a platform
// @Tags         Connections
// @Produce      json
// @Param        userId    path      string  true  "User ID"
// @Param        platform  path      string  true  "Platform"
// @Success      200       {object}  MessageResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /user/{userId}/connections/{platform} [delete]
func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	platform, err := domain.ParsePlatform(r.PathValue("platform"))
	if err != nil {
		writeError(w, http.StatusNotFound, domain.UserMessage(err))
		return
	}

	if err := s.connectionService.Disconnect(r.Context(), r.PathValue("userId"), platform); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Disconnected " + string(platform)})
}

// OAuth endpoints

// handleAuthorize godoc
// @Summary      Start an OAuth flow
// @Description  Redirects to the provider. Google starts the login flow and needs no userId.
// @Tags         OAuth
// @Param        platform  path   string  true   "Platform"
// @Param        userId    query  string  false  "User ID (required except for google)"
// @Success      302
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse  "Platform not configured"
// @Router       /auth/{platform} [get]
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	platform, err := domain.ParsePlatform(r.PathValue("platform"))
	if err != nil {
		writeError(w, http.StatusNotFound, domain.UserMessage(err))
		return
	}

	var resp *driving.AuthorizeResponse
	if platform == domain.PlatformGoogle {
		resp, err = s.loginService.Begin(r.Context())
	} else {
		resp, err = s.oauthService.Authorize(r.Context(), driving.AuthorizeRequest{
			Platform: platform,
			UserID:   r.URL.Query().Get("userId"),
		})
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, resp.AuthorizationURL, http.StatusFound)
}

// handleCallback godoc
// @Summary      OAuth callback
// @Description  Receives the provider redirect and always redirects to the frontend
// @Tags         OAuth
// @Param        platform           path   string  true   "Platform"
// @Param        code               query  string  false  "Authorization code"
// @Param        state              query  string  false  "State token"
// @Param        error              query  string  false  "Provider error"
// @Param        error_description  query  string  false  "Provider error description"
// @Success      302
// @Router       /auth/{platform}/callback [get]
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	platform, err := domain.ParsePlatform(r.PathValue("platform"))
	if err != nil {
		http.Redirect(w, r, s.redirects.ConnectError(domain.UserMessage(err)), http.StatusFound)
		return
	}

	q := r.URL.Query()
	req := driving.CallbackRequest{
		Platform:         platform,
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}

	var target string
	if platform == domain.PlatformGoogle {
		resp, cerr := s.loginService.Complete(r.Context(), req)
		target, err = resp.RedirectURL, cerr
	} else {
		resp, cerr := s.oauthService.Callback(r.Context(), req)
		target, err = resp.RedirectURL, cerr
	}

	if errors.Is(err, domain.ErrInvalidState) {
		s.logger.Warn("rejected oauth callback with invalid state",
			"platform", string(platform),
			"remote_addr", r.RemoteAddr,
			"request_id", RequestID(r.Context()))
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// handleGoogleSession godoc
// @Summary      Verify a login token
// @Description  Validates the token handed to the frontend after Google login
// @Tags         OAuth
// @Produce      json
// @Param        token  query     string  true  "Identity token"
// @Success      200    {object}  SessionResponse
// @Failure      401    {object}  ErrorResponse
// @Router       /auth/google/session [get]
func (s *Server) handleGoogleSession(w http.ResponseWriter, r *http.Request) {
	identity, err := s.loginService.VerifySession(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Success: true, User: identity})
}

// Content endpoints

// handleGenerate godoc
// @Summary      Generate a post
// @Tags         Content
// @Accept       json
// @Produce      json
// @Param        request  body      domain.GenerateRequest  true  "Topic and platform"
// @Success      200      {object}  domain.GeneratedContent
// @Failure      400      {object}  ErrorResponse  "Topic is required"
// @Failure      401      {object}  ErrorResponse  "Invalid API key"
// @Failure      429      {object}  ErrorResponse  "Quota exceeded"
// @Failure      500      {object}  ErrorResponse
// @Router       /generate [post]
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	content, err := s.contentService.Generate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingParameter):
			writeError(w, http.StatusBadRequest, "Topic is required")
		case errors.Is(err, domain.ErrGeneratorAuth):
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: generatorAuthMessage, Hint: generatorAuthHint})
		case errors.Is(err, domain.ErrGeneratorQuota):
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: generatorQuotaMessage, Hint: generatorQuotaHint})
		case errors.Is(err, domain.ErrGeneratorNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "Content generation is not configured")
		default:
			writeError(w, http.StatusInternalServerError, generationMessage(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, content)
}

// handlePost godoc
// @Summary      Publish a post
// @Description  Posts content with the user's stored credential. Instagram needs mediaUrl.
// @Tags         Content
// @Accept       json
// @Produce      json
// @Param        platform  path      string       true  "Platform"
// @Param        request   body      PostRequest  true  "Post"
// @Success      200       {object}  domain.PublishResult
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ReconnectResponse  "Not connected"
// @Failure      502       {object}  ErrorResponse  "Provider error"
// @Failure      504       {object}  ErrorResponse  "Provider timeout"
// @Router       /post/{platform} [post]
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	platform, err := domain.ParsePlatform(r.PathValue("platform"))
	if err != nil || !platform.IsConnectable() {
		writeError(w, http.StatusNotFound, "Unsupported platform")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.publishService.Publish(r.Context(), platform, domain.Post{
		UserID:   req.UserID,
		Content:  req.Content,
		MediaURL: req.MediaURL,
	})
	if err != nil {
		if needsReconnect(err) {
			message := "Not connected to " + platform.DisplayName()
			if !errors.Is(err, domain.ErrNotConnected) {
				message = domain.UserMessage(err)
			}
			writeJSON(w, http.StatusUnauthorized, ReconnectResponse{
				Error:     message,
				NeedsAuth: true,
				AuthURL:   s.publishService.ReconnectURL(platform, req.UserID),
			})
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// needsReconnect reports a missing credential or a token the provider no
// longer accepts.
func needsReconnect(err error) bool {
	if errors.Is(err, domain.ErrNotConnected) {
		return true
	}
	var perr *domain.ProviderError
	return errors.As(err, &perr) && perr.StatusCode == http.StatusUnauthorized
}

// generationMessage strips the sentinel prefix so the upstream text is shown as is.
func generationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrGenerationFailed.Error()+": ")
}

// statusFor maps a domain error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingParameter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedPlatform):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPlatformNotConfigured), errors.Is(err, domain.ErrGeneratorNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNotConnected), errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNoPagesFound), errors.Is(err, domain.ErrNoBusinessAccount), errors.Is(err, domain.ErrMissingMedia):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusGatewayTimeout
	}

	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		switch {
		case perr.StatusCode >= 500:
			return http.StatusBadGateway
		case perr.StatusCode >= 400:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
	}
	writeError(w, status, domain.UserMessage(err))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
