package connectors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// DefaultTimeout bounds every provider HTTP call.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps how much of a provider response is read.
const maxBodySize = 1 << 20

// NewHTTPClient returns the client connectors share.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Response is a read provider response.
type Response struct {
	StatusCode int
	Body       []byte
}

// JSON parses the body with gjson.
func (r *Response) JSON() gjson.Result {
	return gjson.ParseBytes(r.Body)
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do sends req and reads the body. Network failures and timeouts are
// classified as domain.ErrProviderUnavailable; HTTP errors are left to the caller.
func Do(client *http.Client, req *http.Request, platform domain.Platform, op string) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, TransportError(err, platform, op)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, TransportError(err, platform, op)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// TransportError wraps a failure to reach the provider. Callers see
// domain.ErrProviderUnavailable whether the call timed out or the connection failed.
// The request URL is dropped because Graph calls carry secrets and tokens in the query.
func TransportError(err error, platform domain.Platform, op string) error {
	perr := &domain.ProviderError{Kind: domain.ErrProviderUnavailable, Platform: platform, Op: op}
	cause := RedactURL(err)
	if IsTimeout(err) {
		return fmt.Errorf("%w: timed out: %s", perr, cause)
	}
	return fmt.Errorf("%w: %s", perr, cause)
}

// RedactURL formats err without the URL a *url.Error carries.
func RedactURL(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Op + ": " + RedactURL(uerr.Err)
	}
	return err.Error()
}

// IsTimeout reports deadline and network timeouts.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// errorMessagePaths are where providers put a human readable error.
var errorMessagePaths = []string{
	"error.message",
	"error_description",
	"detail",
	"message",
	"title",
	"errors.0.message",
	"error",
}

// ErrorMessage extracts the provider's error text from a JSON body.
func ErrorMessage(body []byte, fallback string) string {
	parsed := gjson.ParseBytes(body)
	for _, path := range errorMessagePaths {
		if v := parsed.Get(path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return fallback
}

// APIError builds a ProviderError from a non-2xx response.
func APIError(kind error, platform domain.Platform, op string, resp *Response, fallback string) *domain.ProviderError {
	return &domain.ProviderError{
		Kind:       kind,
		Platform:   platform,
		Op:         op,
		Message:    ErrorMessage(resp.Body, fallback),
		StatusCode: resp.StatusCode,
	}
}
