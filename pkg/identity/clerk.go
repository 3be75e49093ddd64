package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"github.com/dmitrymomot/payrollguard/pkg/claims"
)

// DefaultClerkTimeout bounds a single backend API call.
const DefaultClerkTimeout = 10 * time.Second

// ClerkClient is a MetadataStore backed by the provider's backend API.
type ClerkClient struct {
	users *user.Client
}

type clerkConfig struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// ClerkOption configures a ClerkClient.
type ClerkOption func(*clerkConfig)

// WithBaseURL overrides the API base URL. The SDK default is used otherwise.
func WithBaseURL(u string) ClerkOption {
	return func(c *clerkConfig) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls. The client is
// copied, so later options never change the caller's value.
func WithHTTPClient(hc *http.Client) ClerkOption {
	return func(c *clerkConfig) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClerkOption {
	return func(c *clerkConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClerkClient creates a client authenticated with the backend secret key.
func NewClerkClient(secretKey string, opts ...ClerkOption) (*ClerkClient, error) {
	if secretKey == "" {
		return nil, ErrMissingSecretKey
	}
	cfg := clerkConfig{timeout: DefaultClerkTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	hc := &http.Client{}
	if cfg.client != nil {
		cp := *cfg.client
		hc = &cp
	}
	hc.Timeout = cfg.timeout

	cc := &clerk.ClientConfig{}
	cc.Key = clerk.String(secretKey)
	cc.HTTPClient = hc
	if cfg.baseURL != "" {
		cc.URL = clerk.String(cfg.baseURL)
	}
	return &ClerkClient{users: user.NewClient(cc)}, nil
}

// GetMetadata fetches the user's public metadata.
func (c *ClerkClient) GetMetadata(ctx context.Context, userID string) (claims.Metadata, error) {
	if userID == "" {
		return claims.Metadata{}, ErrEmptyUserID
	}

	u, err := c.users.Get(ctx, userID)
	if err != nil {
		return claims.Metadata{}, providerError("get user", err)
	}

	var m claims.Metadata
	if raw := u.PublicMetadata; len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &m); err != nil {
			return claims.Metadata{}, errors.Join(ErrInvalidMetadata, err)
		}
	}
	return m, nil
}

// SetMetadata writes the access object into the user's public metadata in a
// single request. The provider merges top-level keys, and every access key is
// always present in m, so the access object is replaced as a whole.
func (c *ClerkClient) SetMetadata(ctx context.Context, userID string, m claims.Metadata) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	body, err := json.Marshal(m)
	if err != nil {
		return errors.Join(ErrInvalidMetadata, err)
	}
	raw := json.RawMessage(body)

	if _, err := c.users.UpdateMetadata(ctx, userID, &user.UpdateMetadataParams{PublicMetadata: &raw}); err != nil {
		return providerError("update metadata", err)
	}
	return nil
}

// providerError classifies an SDK error. Anything that is not an API error
// response is a transport failure and may be retried.
func providerError(op string, err error) error {
	var apiErr *clerk.APIErrorResponse
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %w", ErrProviderRequest, op, err)
	}

	status := apiErr.HTTPStatusCode
	switch {
	case status == http.StatusNotFound:
		return ErrUserNotFound
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: %s returned %d", ErrProviderRequest, op, status)
	default:
		return fmt.Errorf("%w: %s returned %d: %s", ErrProviderRejected, op, status, apiMessage(apiErr))
	}
}

func apiMessage(e *clerk.APIErrorResponse) string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ae := range e.Errors {
		if ae.LongMessage != "" {
			msgs = append(msgs, ae.LongMessage)
			continue
		}
		msgs = append(msgs, ae.Message)
	}
	return strings.Join(msgs, "; ")
}
