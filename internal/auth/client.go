package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	clerrors "github.com/jmurray2011/logid/internal/errors"
	"github.com/jmurray2011/logid/internal/logging"
	"github.com/jmurray2011/logid/internal/metrics"
	"github.com/jmurray2011/logid/internal/region"
)

const (
	// TokenHeader is the auth response header carrying the bearer token.
	TokenHeader = "x-jwt-token"
	// SessionCookie is the cookie name the session credential is sent as.
	SessionCookie = "CAS_SESSION"

	maxErrorBody = 64 << 10
)

// Fetcher obtains a fresh token. *Client implements it; tests substitute fakes.
type Fetcher interface {
	FetchToken(ctx context.Context) (Token, error)
}

// Client performs the session-cookie-for-token exchange against one region's
// auth endpoint.
type Client struct {
	region   region.Region
	session  string
	http     *http.Client
	lifetime time.Duration
	now      func() time.Time
	metrics  *metrics.Metrics
	log      logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLifetime overrides DefaultLifetime.
func WithLifetime(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.lifetime = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient creates an auth client for r using the given session cookie.
func NewClient(r region.Region, session string, httpClient *http.Client, opts ...ClientOption) *Client {
	c := &Client{
		region:   r,
		session:  session,
		http:     httpClient,
		lifetime: DefaultLifetime,
		now:      time.Now,
		log:      logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("region", r.Key)
	return c
}

// FetchToken sends one GET to the auth endpoint with the session cookie and
// reads the token from the x-jwt-token response header.
func (c *Client) FetchToken(ctx context.Context) (Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.region.AuthURL, nil)
	if err != nil {
		return Token{}, clerrors.Internal("failed to build auth request", err)
	}
	req.Header.Set("Cookie", fmt.Sprintf("%s=%s", SessionCookie, c.session))

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.AuthFetch(c.region.Key, "network")
		return Token{}, clerrors.Network(c.region.Key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Error("auth request failed: status=%d body=%s", resp.StatusCode, body)
		c.metrics.AuthFetch(c.region.Key, "rejected")
		return Token{}, clerrors.AuthenticationFailed(c.region.Key, resp.StatusCode, string(body))
	}

	value := resp.Header.Get(TokenHeader)
	if value == "" {
		c.metrics.AuthFetch(c.region.Key, "no_token")
		return Token{}, clerrors.MissingToken(c.region.Key, TokenHeader)
	}

	c.metrics.AuthFetch(c.region.Key, "ok")
	c.log.Info("fetched new token")
	return NewToken(value, c.now(), c.lifetime), nil
}
