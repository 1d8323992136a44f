// Package logquery queries the trace-log service of one or more regions and
// turns the raw responses into redacted, caller-facing results.
package logquery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jmurray2011/logid/internal/auth"
	clerrors "github.com/jmurray2011/logid/internal/errors"
	"github.com/jmurray2011/logid/internal/logging"
	"github.com/jmurray2011/logid/internal/metrics"
	"github.com/jmurray2011/logid/internal/region"
	"github.com/jmurray2011/logid/internal/transport"
)

const (
	// TokenHeader carries the bearer token on query requests.
	TokenHeader = "X-Jwt-Token"

	msgKey      = "_msg"
	locationKey = "_location"

	maxErrorBody    = 64 << 10
	maxResponseBody = 64 << 20
)

// TokenSource hands out bearer tokens. *auth.Cache implements it.
type TokenSource interface {
	Token(ctx context.Context, forceRefresh bool) (string, error)
}

// Redactor cleans message text. *redact.Pipeline implements it.
type Redactor interface {
	Redact(text string) string
}

var _ TokenSource = (*auth.Cache)(nil)

// Client queries one region's log endpoint.
type Client struct {
	region   region.Region
	tokens   TokenSource
	redactor Redactor
	http     *http.Client
	now      func() time.Time
	metrics  *metrics.Metrics
	log      logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithClock overrides time.Now for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a query client for r. Tokens come from tokens and every
// extracted _msg value is passed through redactor.
func NewClient(r region.Region, tokens TokenSource, redactor Redactor, httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		region:   r,
		tokens:   tokens,
		redactor: redactor,
		http:     httpClient,
		now:      time.Now,
		log:      logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("region", r.Key)
	return c
}

// Region returns the region this client serves.
func (c *Client) Region() region.Region {
	return c.region
}

// Query sends one query for logID and returns the normalized response.
// An unconfigured region fails before any network I/O.
func (c *Client) Query(ctx context.Context, logID string, psm []string) (*Response, error) {
	if !c.region.IsConfigured() {
		return nil, clerrors.RegionNotConfigured(c.region.Key)
	}

	requestID := uuid.NewString()
	log := c.log.WithFields(map[string]interface{}{
		"request_id": requestID,
		"logid":      logID,
	})

	start := time.Now()
	resp, err := c.query(ctx, log, logID, psm)
	elapsed := time.Since(start)

	items := 0
	if resp != nil {
		items = len(resp.Data.Items)
		resp.RequestID = requestID
	}
	c.metrics.Query(c.region.Key, elapsed, items, err)
	if err != nil {
		log.Error("query failed after %s: %v", elapsed, err)
		return nil, err
	}

	log.Info("query finished: shape=%s items=%d elapsed=%s", resp.Shape, items, elapsed)
	return resp, nil
}

func (c *Client) query(ctx context.Context, log logging.Logger, logID string, psm []string) (*Response, error) {
	token, err := c.tokens.Token(ctx, false)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(NewRequest(logID, psm, c.region.VRegion))
	if err != nil {
		return nil, clerrors.Internal("failed to encode query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.region.LogURL, bytes.NewReader(body))
	if err != nil {
		return nil, clerrors.Internal("failed to build query request", err)
	}
	req.Header.Set(TokenHeader, token)
	req.Header.Set("Content-Type", "application/json")

	log.Debug("POST %s psm=%v", c.region.LogURL, psm)
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, clerrors.Network(c.region.Key, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return nil, clerrors.QueryFailed(c.region.Key, httpResp.StatusCode, string(errBody))
	}

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, clerrors.Network(c.region.Key, err)
	}

	env, err := resolveEnvelope(raw)
	if err != nil {
		return nil, clerrors.MalformedResponse(c.region.Key, err)
	}
	if env.shape == ShapeEmpty {
		log.Warn("response has neither data.items nor items; treating as empty")
	}

	data, err := env.decode()
	if err != nil {
		return nil, clerrors.MalformedResponse(c.region.Key, err)
	}

	return &Response{
		Data:              data,
		Shape:             env.shape,
		Meta:              env.meta,
		TagInfos:          env.topLevelTagInfos(),
		Timestamp:         c.now().UTC(),
		Region:            c.region.Key,
		RegionDisplayName: c.region.DisplayName,
	}, nil
}

// Details queries logID and returns the extracted, redacted messages.
func (c *Client) Details(ctx context.Context, logID string, psm []string) (*Result, error) {
	resp, err := c.Query(ctx, logID, psm)
	if err != nil {
		return nil, err
	}
	return c.buildResult(logID, resp), nil
}

func (c *Client) buildResult(logID string, resp *Response) *Result {
	meta := resp.Data.Meta
	if meta == nil && resp.Meta != nil {
		var top LogMeta
		if err := json.Unmarshal(resp.Meta, &top); err == nil {
			meta = &top
		} else {
			c.log.Debug("ignoring top-level meta: %v", err)
		}
	}

	tagInfos := resp.TagInfos
	if tagInfos == nil {
		tagInfos = resp.Data.TagInfos
	}

	result := &Result{
		LogID:             logID,
		Region:            resp.Region,
		RegionDisplayName: resp.RegionDisplayName,
		TotalItems:        len(resp.Data.Items),
		Messages:          c.ExtractMessages(resp.Data),
		Timestamp:         resp.Timestamp,
		Meta:              meta,
		TagInfos:          tagInfos,
	}
	if meta != nil {
		result.ScanTimeRange = meta.ScanTimeRange
		result.LevelList = meta.LevelList
	}
	return result
}

// ExtractMessages returns one Message per log line carrying at least one
// _msg entry. Every _msg value is redacted with the original kept alongside;
// _location is captured and other keys are dropped.
func (c *Client) ExtractMessages(data LogData) []Message {
	messages := make([]Message, 0)
	for _, item := range data.Items {
		for _, value := range item.Value {
			var (
				values   []ExtractedValue
				location string
			)
			for _, kv := range value.KVList {
				switch kv.Key {
				case msgKey:
					values = append(values, ExtractedValue{
						Key:           kv.Key,
						Value:         c.redactor.Redact(kv.Value),
						OriginalValue: kv.Value,
						Type:          kv.Type,
						Highlight:     kv.Highlight,
					})
				case locationKey:
					location = kv.Value
				}
			}
			if len(values) == 0 {
				continue
			}
			messages = append(messages, Message{
				ID:       fmt.Sprintf("%s-%s", item.ID, value.ID),
				Group:    item.Group,
				Values:   values,
				Location: location,
				Level:    value.Level,
			})
		}
	}
	c.log.Debug("extracted %d messages", len(messages))
	return messages
}

// Close releases idle connections held by the client's transport.
func (c *Client) Close() {
	transport.CloseIdle(c.http)
	c.log.Debug("query client closed")
}
