package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"condo-setup/internal/observability"
)

const (
	restPrefix    = "/rest/v1/"
	storagePrefix = "/storage/v1/"
	maxErrorBody  = 4096
)

// Client talks to one project's REST and storage APIs with a single key.
// Each request is sent exactly once; failures are returned to the caller.
type Client struct {
	base string
	key  string
	role string
	hc   *http.Client
	rl   *rate.Limiter
}

type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.hc.Timeout = d
		}
	}
}

// WithRateLimit throttles the client to rps requests per second.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.rl = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithRole names the credential ("anon", "service") in logs.
func WithRole(role string) Option {
	return func(c *Client) {
		c.role = role
	}
}

func New(baseURL, key string, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		key:  key,
		role: "service",
		hc:   &http.Client{Timeout: 10 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the project URL without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// Role returns the credential name given with WithRole.
func (c *Client) Role() string { return c.role }

// Query describes the PostgREST parameters of a table read.
type Query struct {
	Select string // comma separated columns, "*" when empty
	Limit  int    // 0 means no limit
	Order  string // e.g. "display_order.asc"
	// Filters are passed through verbatim, e.g. {"status": {"eq.published"}}.
	Filters url.Values
}

func (q Query) values() url.Values {
	v := url.Values{}
	for k, vals := range q.Filters {
		for _, val := range vals {
			v.Add(k, val)
		}
	}
	sel := q.Select
	if sel == "" {
		sel = "*"
	}
	v.Set("select", sel)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

// Select reads rows of table into out, which must point to a slice.
func (c *Client) Select(ctx context.Context, table string, q Query, out interface{}) error {
	u := c.base + restPrefix + url.PathEscape(table) + "?" + q.values().Encode()
	resp, err := c.do(ctx, http.MethodGet, u, "rest", table, nil, nil)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// Count returns the exact number of rows in table.
func (c *Client) Count(ctx context.Context, table string) (int64, error) {
	q := Query{Select: "*", Limit: 1}
	u := c.base + restPrefix + url.PathEscape(table) + "?" + q.values().Encode()
	headers := http.Header{"Prefer": []string{"count=exact"}}

	resp, err := c.do(ctx, http.MethodGet, u, "rest", table, nil, headers)
	if err != nil {
		return 0, err
	}
	drain(resp)
	return parseContentRange(resp.Header.Get("Content-Range"))
}

// parseContentRange extracts the total from "0-0/5" or "*/0".
func parseContentRange(h string) (int64, error) {
	i := strings.LastIndexByte(h, '/')
	if i < 0 {
		return 0, ErrCountUnavailable
	}
	total := strings.TrimSpace(h[i+1:])
	if total == "*" || total == "" {
		return 0, ErrCountUnavailable
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad Content-Range %q", ErrCountUnavailable, h)
	}
	return n, nil
}

// DashboardURL returns the project's dashboard page.
func DashboardURL(projectRef string) string {
	return "https://supabase.com/dashboard/project/" + projectRef
}

func (c *Client) do(ctx context.Context, method, u, service, endpoint string, body interface{}, headers http.Header) (*http.Response, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for k, vals := range headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	dur := time.Since(start)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, dur)
		log.Debug().Err(err).Str("role", c.role).Str("method", method).Str("path", req.URL.Path).Msg("request failed")
		return nil, err
	}
	observability.ObserveExternal(service, endpoint, resp.StatusCode, dur)
	log.Debug().
		Str("role", c.role).
		Str("method", method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", dur).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, newAPIError(resp.StatusCode, b)
	}
	return resp, nil
}

func decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
