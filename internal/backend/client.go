// Package backend is the client for the booking REST API that owns seats,
// bookings, buildings and users. Every response goes through normalize, so
// callers only ever see canonical domain types or an *APIError.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const maxBodyBytes = 8 << 20

// TokenSource holds the bearer credentials for one user session. The client
// reads it before each call and writes it back after a refresh.
type TokenSource interface {
	Tokens() (access, refresh string)
	SetTokens(access, refresh string)
	Clear()
}

type Config struct {
	BaseURL string
	// Timeout bounds every call.
	Timeout time.Duration
	// FloorPlanTimeout bounds each floor-plan candidate separately.
	FloorPlanTimeout time.Duration
}

type Client struct {
	baseURL          string
	http             *http.Client
	log              *slog.Logger
	floorPlanTimeout time.Duration

	refreshes singleflight.Group
	rotations rotations
}

func New(cfg Config, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log:              log,
		floorPlanTimeout: cfg.FloorPlanTimeout,
	}
}

// param is one query parameter. Queries are built from ordered params rather
// than url.Values because url.Values.Encode sorts keys.
type param struct {
	key, value string
}

func encodeQuery(params []param) string {
	var b strings.Builder
	for _, p := range params {
		if p.value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

type request struct {
	method  string
	path    string
	query   []param
	body    any
	timeout time.Duration
}

func (r request) url(base string) string {
	u := base + r.path
	if q := encodeQuery(r.query); q != "" {
		u += "?" + q
	}
	return u
}

// do sends r with ts's access token. A 401 carrying TOKEN_EXPIRED triggers one
// refresh and one retry; if that fails too, ts is cleared and
// ErrSessionExpired is returned.
func (c *Client) do(ctx context.Context, ts TokenSource, r request) (json.RawMessage, error) {
	raw, err := c.send(ctx, ts, r)

	var apiErr *APIError
	if ts == nil || !errors.As(err, &apiErr) || !apiErr.tokenExpired() {
		return raw, err
	}

	if _, rerr := c.refresh(ctx, ts); rerr != nil {
		c.log.Warn("token refresh failed", "path", r.path, "error", rerr)
		ts.Clear()
		return nil, ErrSessionExpired
	}

	raw, err = c.send(ctx, ts, r)
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		ts.Clear()
		return nil, ErrSessionExpired
	}
	return raw, err
}

func (c *Client) send(ctx context.Context, ts TokenSource, r request) (json.RawMessage, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("backend: encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url(c.baseURL), body)
	if err != nil {
		return nil, fmt.Errorf("backend: build %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts != nil {
		access, _ := ts.Tokens()
		if access == "" {
			return nil, ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+access)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("backend: read %s %s: %w", r.method, r.path, err)
	}

	c.log.Debug("backend call",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"latency", time.Since(start),
	)

	return normalize(resp.StatusCode, b)
}

func escape(s string) string {
	return url.PathEscape(s)
}
