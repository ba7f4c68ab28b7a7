package postgrest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/goccy/go-json"
	"github.com/xy-planning-network/switchboard"
	"github.com/xy-planning-network/switchboard/logger"
	"github.com/xy-planning-network/switchboard/route"
	"golang.org/x/time/rate"
)

const (
	acceptObject    = "application/vnd.pgrst.object+json"
	contentTypeJSON = "application/json"

	defaultMaxRetries = 3
)

// A TokenProvider supplies the access token accompanying a request,
// letting the Authorization header track the caller's session.
type TokenProvider func(ctx context.Context) (string, error)

// StaticToken adapts a fixed access token into a TokenProvider.
func StaticToken(token string) TokenProvider {
	return func(context.Context) (string, error) { return token, nil }
}

// A Client executes resolved routes against the backing store's HTTP API.
//
// Client implements the router's Executor contract.
// A Client is safe for concurrent use.
type Client struct {
	cfg        Config
	http       *http.Client
	log        logger.Logger
	token      TokenProvider
	limiter    *rate.Limiter
	maxRetries int
}

// A ClientOptFn is a functional option configuring a Client when constructing a new one.
type ClientOptFn func(*Client)

// WithHTTPClient sets the *http.Client requests are issued through.
func WithHTTPClient(hc *http.Client) ClientOptFn {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger the Client reports retries and failures through.
func WithLogger(l logger.Logger) ClientOptFn {
	return func(c *Client) { c.log = l }
}

// WithTokenProvider sets the TokenProvider supplying the Authorization header.
func WithTokenProvider(tp TokenProvider) ClientOptFn {
	return func(c *Client) { c.token = tp }
}

// WithRateLimit caps outgoing requests at rps with the provided burst,
// applied client-side before each attempt.
func WithRateLimit(rps float64, burst int) ClientOptFn {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) ClientOptFn {
	return func(c *Client) { c.maxRetries = n }
}

// NewClient constructs a *Client from cfg.
func NewClient(cfg Config, opts ...ClientOptFn) (*Client, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:        cfg,
		http:       &http.Client{Timeout: cfg.Timeout},
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.NewLogger()
	}

	return c, nil
}

// Execute performs the resolved route against the backing store
// and returns the raw response body.
//
// Network errors and 502/503/504 responses retry with exponential backoff
// up to the configured attempt cap; all other failures surface immediately,
// wrapped in ErrTransport.
func (c *Client) Execute(ctx context.Context, r route.Route) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	body, err := encodeBody(r)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %s payload: %s", switchboard.ErrNotValid, r.Method, err)
	}

	backoffCfg := backoff.NewExponentialBackOff()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			sleep := backoffCfg.NextBackOff()
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %s", switchboard.ErrTransport, ctx.Err())
			case <-time.After(sleep):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %s", switchboard.ErrTransport, err)
			}
		}

		raw, retryable, err := c.do(ctx, r, body)
		if err == nil {
			return raw, nil
		}

		if !retryable {
			return nil, err
		}

		lastErr = err
		c.log.Warn("retrying transient execution failure", &logger.LogContext{Error: err, Route: &r})
	}

	return nil, lastErr
}

// do issues one HTTP attempt, reporting whether a failure is worth retrying.
func (c *Client) do(ctx context.Context, r route.Route, body []byte) (raw []byte, retryable bool, err error) {
	req, err := c.newRequest(ctx, r, body)
	if err != nil {
		return nil, false, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s", switchboard.ErrTransport, err)
	}
	defer res.Body.Close()

	raw, err = io.ReadAll(res.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: reading response: %s", switchboard.ErrTransport, err)
	}

	if res.StatusCode >= http.StatusMultipleChoices {
		err := fmt.Errorf(
			"%w: %s %s returned %d: %s",
			switchboard.ErrTransport, req.Method, req.URL.Path, res.StatusCode, truncate(raw),
		)

		switch res.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return nil, true, err
		default:
			return nil, false, err
		}
	}

	return raw, false, nil
}

// newRequest translates the route into one HTTP request.
func (c *Client) newRequest(ctx context.Context, r route.Route, body []byte) (*http.Request, error) {
	verb, path := verbAndPath(r)

	u := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + path
	q := make(url.Values)
	for _, f := range r.Filters {
		q.Add(f.Column, string(f.Op)+"."+f.Value)
	}

	if r.Order != nil && r.Method.IsFetch() {
		key := "order"
		if r.Order.ForeignTable != "" {
			key = r.Order.ForeignTable + ".order"
		}
		q.Set(key, orderValue(*r.Order))
	}

	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, verb, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %s", switchboard.ErrUnexpected, err)
	}

	if c.cfg.APIKey != "" {
		req.Header.Set("apikey", c.cfg.APIKey)
	}

	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", switchboard.ErrNotAuthenticated, err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	if r.Method == route.MethodFetchOne {
		req.Header.Set("Accept", acceptObject)
	}

	if prefer := preferValues(r); len(prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(prefer, ","))
	}

	if c.cfg.Schema != "" {
		if verb == http.MethodGet {
			req.Header.Set("Accept-Profile", c.cfg.Schema)
		} else {
			req.Header.Set("Content-Profile", c.cfg.Schema)
		}
	}

	return req, nil
}

func verbAndPath(r route.Route) (string, string) {
	switch r.Method {
	case route.MethodFetch, route.MethodFetchOne:
		return http.MethodGet, r.Table
	case route.MethodUpdate:
		return http.MethodPatch, r.Table
	case route.MethodDelete:
		return http.MethodDelete, r.Table
	case route.MethodCustom:
		return http.MethodPost, "rpc/" + r.Table
	default:
		return http.MethodPost, r.Table
	}
}

func preferValues(r route.Route) []string {
	var prefer []string
	if r.Method.IsMutation() {
		prefer = append(prefer, "return="+string(r.Returning))
	}

	if r.Method == route.MethodUpsert {
		prefer = append(prefer, "resolution=merge-duplicates")
	}

	return prefer
}

func orderValue(o route.Order) string {
	val := o.Column + ".desc"
	if o.Ascending {
		val = o.Column + ".asc"
	}

	if o.NullsFirst {
		return val + ".nullsfirst"
	}

	return val + ".nullslast"
}

func encodeBody(r route.Route) ([]byte, error) {
	switch r.Method {
	case route.MethodInsert, route.MethodInsertMany, route.MethodUpdate, route.MethodUpsert:
		return json.Marshal(r.Payload)

	case route.MethodCustom:
		if r.Payload == nil {
			// remote procedures always take a JSON body, even an empty one
			return []byte("{}"), nil
		}
		return json.Marshal(r.Payload)

	default:
		return nil, nil
	}
}

func truncate(raw []byte) string {
	const limit = 256
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}

	return string(raw)
}
