// Package transport builds the HTTP clients used for auth and log queries.
package transport

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

const (
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"
	acceptHeader   = "application/json, text/plain, */*"
	acceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
)

// Options configures NewHTTPClient.
type Options struct {
	Timeout    time.Duration
	HTTPSProxy string
	HTTPProxy  string
}

// NewHTTPClient returns a client with the request timeout, outbound proxy and
// browser-like default headers the log service expects.
func NewHTTPClient(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.Proxy = nil
	if proxy := ProxyURL(opts.HTTPSProxy, opts.HTTPProxy); proxy != nil {
		base.Proxy = http.ProxyURL(proxy)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &headerTransport{next: base},
	}
}

// ProxyURL picks the outbound proxy: the secure-proxy value first, then the
// plain one. Empty or unparsable values are skipped.
func ProxyURL(httpsProxy, httpProxy string) *url.URL {
	for _, raw := range []string{httpsProxy, httpProxy} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		return u
	}
	return nil
}

// headerTransport sets default headers the caller has not set.
type headerTransport struct {
	next http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	setDefault(req.Header, "User-Agent", userAgent)
	setDefault(req.Header, "Accept", acceptHeader)
	setDefault(req.Header, "Accept-Language", acceptLanguage)
	return t.next.RoundTrip(req)
}

func setDefault(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}

// CloseIdle releases idle connections held by c.
func CloseIdle(c *http.Client) {
	if c != nil {
		c.CloseIdleConnections()
	}
}
