package logquery

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmurray2011/logid/internal/auth"
	"github.com/jmurray2011/logid/internal/config"
	clerrors "github.com/jmurray2011/logid/internal/errors"
	"github.com/jmurray2011/logid/internal/logging"
	"github.com/jmurray2011/logid/internal/metrics"
	"github.com/jmurray2011/logid/internal/redact"
	"github.com/jmurray2011/logid/internal/region"
	"github.com/jmurray2011/logid/internal/transport"
)

// DispatcherOptions configures NewDispatcher. Zero values select defaults.
type DispatcherOptions struct {
	// Registry resolves region keys. Defaults to region.Default().
	Registry *region.Registry
	// Credentials resolves session cookies. Defaults to the process environment.
	Credentials *config.Credentials
	// Transport configures each region's HTTP client.
	Transport transport.Options
	// TokenLifetime overrides auth.DefaultLifetime.
	TokenLifetime time.Duration
	// Redactor cleans _msg values. Defaults to redact.Default().
	Redactor Redactor
	Metrics  *metrics.Metrics
	Logger   logging.Logger
}

// Outcome is one region's share of a QueryAll.
type Outcome struct {
	Result *Result
	Err    error
}

// Dispatcher owns one query client, token cache and HTTP client per region.
// It is safe for concurrent use; regions share nothing.
type Dispatcher struct {
	clients map[string]*Client
	log     logging.Logger
}

// NewDispatcher builds clients for every key up front. Any failure, such as
// an unknown key or a missing credential, fails the whole construction.
// Keys are case-insensitive and duplicates are ignored.
func NewDispatcher(keys []string, opts DispatcherOptions) (*Dispatcher, error) {
	if opts.Registry == nil {
		opts.Registry = region.Default()
	}
	if opts.Credentials == nil {
		opts.Credentials = config.NewCredentials(nil)
	}
	if opts.Redactor == nil {
		opts.Redactor = redact.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	d := &Dispatcher{
		clients: make(map[string]*Client, len(keys)),
		log:     opts.Logger,
	}
	for _, key := range keys {
		r, ok := opts.Registry.Lookup(key)
		if !ok {
			return nil, clerrors.UnsupportedRegion(key, opts.Registry.Keys())
		}
		if _, dup := d.clients[r.Key]; dup {
			continue
		}

		client, err := newRegionClient(r, opts)
		if err != nil {
			return nil, err
		}
		d.clients[r.Key] = client
	}

	d.log.Info("dispatcher ready: regions=%s", strings.Join(d.Regions(), ","))
	return d, nil
}

func newRegionClient(r region.Region, opts DispatcherOptions) (*Client, error) {
	session, err := opts.Credentials.Session(r)
	if err != nil {
		return nil, err
	}

	httpClient := transport.NewHTTPClient(opts.Transport)
	fetcher := auth.NewClient(r, session, httpClient,
		auth.WithLifetime(opts.TokenLifetime),
		auth.WithMetrics(opts.Metrics),
		auth.WithLogger(opts.Logger),
	)
	cache := auth.NewCache(r.Key, fetcher,
		auth.WithCacheMetrics(opts.Metrics),
		auth.WithCacheLogger(opts.Logger),
	)
	return NewClient(r, cache, opts.Redactor, httpClient,
		WithMetrics(opts.Metrics),
		WithLogger(opts.Logger),
	), nil
}

// Regions returns the managed region keys in sorted order.
func (d *Dispatcher) Regions() []string {
	keys := make([]string, 0, len(d.clients))
	for k := range d.clients {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Client returns the query client for key, if the dispatcher manages it.
func (d *Dispatcher) Client(key string) (*Client, bool) {
	c, ok := d.clients[strings.ToLower(strings.TrimSpace(key))]
	return c, ok
}

// Query runs a detailed query against one managed region.
func (d *Dispatcher) Query(ctx context.Context, key, logID string, psm []string) (*Result, error) {
	c, ok := d.Client(key)
	if !ok {
		return nil, clerrors.UnsupportedRegion(key, d.Regions())
	}
	return c.Details(ctx, logID, psm)
}

// Raw runs a query against one managed region and returns the normalized
// response without message extraction.
func (d *Dispatcher) Raw(ctx context.Context, key, logID string, psm []string) (*Response, error) {
	c, ok := d.Client(key)
	if !ok {
		return nil, clerrors.UnsupportedRegion(key, d.Regions())
	}
	return c.Query(ctx, logID, psm)
}

// QueryAll queries every managed region concurrently. The returned map has
// exactly one entry per region; a failing region never hides the others.
func (d *Dispatcher) QueryAll(ctx context.Context, logID string, psm []string) map[string]Outcome {
	var (
		g   errgroup.Group
		mu  sync.Mutex
		out = make(map[string]Outcome, len(d.clients))
	)

	for key, c := range d.clients {
		g.Go(func() error {
			res, err := c.Details(ctx, logID, psm)
			mu.Lock()
			out[key] = Outcome{Result: res, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Close releases every region's idle connections. The dispatcher must not
// be used afterwards.
func (d *Dispatcher) Close() {
	for _, key := range d.Regions() {
		d.clients[key].Close()
	}
	d.log.Debug("dispatcher closed: regions=%d", len(d.clients))
}
