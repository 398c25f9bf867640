// Package sap is the SAP Business One Service Layer backend: a session-aware
// HTTP client plus one remote store per master-data entity.
package sap

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// maxResponseSize bounds a single page or entity read (50MB)
const maxResponseSize = 50 << 20

const (
	loginPath  = "Login"
	logoutPath = "Logout"
)

// Config holds the Service Layer connection settings.
type Config struct {
	BaseURL            string
	CompanyDB          string
	Username           string
	Password           string
	Timeout            time.Duration
	PageSize           int
	InsecureSkipVerify bool
}

// Page is the collection envelope returned by the Service Layer.
type Page struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"@odata.nextLink,omitempty"`
}

type loginRequest struct {
	CompanyDB string `json:"CompanyDB"`
	UserName  string `json:"UserName"`
	Password  string `json:"Password"`
}

// Client calls the Service Layer on behalf of every remote store. Login is
// lazy: the first call logs in, and a 401 triggers exactly one re-login and
// one retry of the rejected request.
type Client struct {
	cfg     Config
	baseURL *url.URL
	session *SessionStore
	http    *http.Client
	logger  *zap.Logger

	loginMu sync.Mutex

	requests metric.Int64Counter
	logins   metric.Int64Counter
}

// Option configures a Client
type Option func(*Client)

// WithSessionStore injects the session store shared by the process.
func WithSessionStore(s *SessionStore) Option {
	return func(c *Client) {
		c.session = s
	}
}

// WithHTTPClient replaces the default HTTP client. Its Jar is replaced by
// the session store.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.http = &clone
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Service Layer client for cfg.BaseURL.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("sap: invalid base URL %q", cfg.BaseURL)
	}

	c := &Client{
		cfg:     cfg,
		baseURL: base,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = NewSessionStore()
	}
	if c.http == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // self-signed Service Layer certificates
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.http = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		}
	}
	c.http.Jar = c.session
	c.logger = c.logger.Named("sap")

	meter := otel.Meter("github.com/distributor/backend/internal/infrastructure/sap")
	if c.requests, err = meter.Int64Counter("sap.requests",
		metric.WithDescription("Service Layer requests by method and status")); err != nil {
		return nil, fmt.Errorf("sap: create request counter: %w", err)
	}
	if c.logins, err = meter.Int64Counter("sap.logins",
		metric.WithDescription("Service Layer logins by outcome")); err != nil {
		return nil, fmt.Errorf("sap: create login counter: %w", err)
	}
	return c, nil
}

// Session returns the session store used by the client.
func (c *Client) Session() *SessionStore {
	return c.session
}

// HasSession reports whether a session cookie is present. It does not ask
// the server whether the session is still valid.
func (c *Client) HasSession() bool {
	return c.session.Has(c.baseURL, SessionCookie)
}

// EnsureSession logs in when no session cookie is present.
func (c *Client) EnsureSession(ctx context.Context) error {
	if c.HasSession() {
		return nil
	}
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	// Another request may have logged in while we waited.
	if c.HasSession() {
		return nil
	}
	return c.login(ctx)
}

// Login starts a new session, discarding any previous cookies.
func (c *Client) Login(ctx context.Context) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	return c.login(ctx)
}

// relogin replaces a session the server rejected. Requests rejected with the
// same cookie share one login.
func (c *Client) relogin(ctx context.Context, rejected string) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	if current := c.session.Value(c.baseURL, SessionCookie); current != "" && current != rejected {
		return nil
	}
	return c.login(ctx)
}

func (c *Client) login(ctx context.Context) error {
	payload, err := json.Marshal(loginRequest{
		CompanyDB: c.cfg.CompanyDB,
		UserName:  c.cfg.Username,
		Password:  c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("sap: encode login: %w", err)
	}

	c.session.Reset()
	var buf bytes.Buffer
	status, err := c.roundTrip(ctx, http.MethodPost, loginPath, payload, &buf)
	if err != nil {
		c.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		return err
	}
	if status < 200 || status >= 300 {
		c.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "rejected")))
		c.logger.Warn("SAP login rejected",
			zap.Int("status", status),
			zap.String("company_db", c.cfg.CompanyDB),
			zap.String("body", buf.String()),
		)
		return &AuthError{StatusCode: status, Body: buf.String()}
	}

	c.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	c.logger.Info("SAP login succeeded",
		zap.String("company_db", c.cfg.CompanyDB),
		zap.String("user", c.cfg.Username),
	)
	return nil
}

// Logout ends the current session and clears the cookie jar. Failures are
// logged only; the local session is dropped regardless.
func (c *Client) Logout(ctx context.Context) {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	if c.HasSession() {
		var buf bytes.Buffer
		if status, err := c.roundTrip(ctx, http.MethodPost, logoutPath, nil, &buf); err != nil || status >= 300 {
			c.logger.Warn("SAP logout failed", zap.Int("status", status), zap.Error(err))
		}
	}
	c.session.Reset()
}

// Get decodes the resource at path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body to path and decodes the response into out (may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch applies a partial update.
func (c *Client) Patch(ctx context.Context, path string, body any) error {
	return c.Do(ctx, http.MethodPatch, path, body, nil)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do issues method against path relative to the base URL. body, when not
// nil, is sent as JSON; a non-empty response is decoded into out.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("sap: encode %s %s: %w", method, path, err)
		}
	}

	var buf bytes.Buffer
	if err := c.request(ctx, method, path, payload, &buf); err != nil {
		return err
	}
	if out == nil || buf.Len() == 0 {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("sap: decode %s %s: %w", method, path, err)
	}
	return nil
}

// GetAll follows @odata.nextLink from path until the last page and returns
// every item in a single envelope.
func (c *Client) GetAll(ctx context.Context, path string) (*Page, error) {
	var (
		buf   bytes.Buffer
		items = make([]json.RawMessage, 0)
		seen  = make(map[string]struct{})
		pages int
	)

	for next := path; next != ""; {
		if _, dup := seen[next]; dup {
			return nil, fmt.Errorf("sap: pagination loop detected at %s", next)
		}
		seen[next] = struct{}{}

		if err := c.request(ctx, http.MethodGet, next, nil, &buf); err != nil {
			return nil, err
		}
		var page Page
		if err := json.Unmarshal(buf.Bytes(), &page); err != nil {
			return nil, fmt.Errorf("sap: decode page %s: %w", next, err)
		}
		// buf is reused for the next page; items must not alias it.
		for _, item := range page.Value {
			items = append(items, bytes.Clone(item))
		}
		pages++
		next = c.relativeLink(page.NextLink)
	}

	c.logger.Debug("SAP collection fetched",
		zap.String("path", path),
		zap.Int("pages", pages),
		zap.Int("items", len(items)),
	)
	return &Page{Value: items}, nil
}

// relativeLink turns a nextLink into a path relative to the base URL.
func (c *Client) relativeLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if base := c.baseURL.String(); strings.HasPrefix(link, base) {
		return strings.TrimPrefix(link, base)
	}
	if u, err := url.Parse(link); err == nil && u.IsAbs() {
		link = u.RequestURI()
	}
	if strings.HasPrefix(link, c.baseURL.Path) {
		return strings.TrimPrefix(link, c.baseURL.Path)
	}
	return strings.TrimPrefix(link, "/")
}

// request performs one logical call: lazy login, the request itself, and a
// single re-login plus retry when the session was rejected.
func (c *Client) request(ctx context.Context, method, path string, payload []byte, buf *bytes.Buffer) error {
	if err := c.EnsureSession(ctx); err != nil {
		return err
	}

	sent := c.session.Value(c.baseURL, SessionCookie)
	status, err := c.roundTrip(ctx, method, path, payload, buf)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		c.logger.Info("SAP session rejected, logging in again",
			zap.String("method", method),
			zap.String("path", path),
		)
		if err := c.relogin(ctx, sent); err != nil {
			return err
		}
		if status, err = c.roundTrip(ctx, method, path, payload, buf); err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		upErr := newUpstreamError(method, path, status, buf.Bytes())
		c.logger.Warn("SAP request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("body", upErr.Body),
		)
		return upErr
	}
	return nil
}

// roundTrip sends a single HTTP request and reads the body into buf.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, buf *bytes.Buffer) (int, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return 0, fmt.Errorf("sap: invalid path %q: %w", path, err)
	}
	target := c.baseURL.ResolveReference(ref)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return 0, fmt.Errorf("sap: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodGet && c.cfg.PageSize > 0 {
		req.Header.Set("Prefer", fmt.Sprintf("odata.maxpagesize=%d", c.cfg.PageSize))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sap: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	buf.Reset()
	n, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return 0, fmt.Errorf("sap: read %s %s: %w", method, path, err)
	}
	if n > maxResponseSize {
		return 0, ErrResponseTooLarge
	}

	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", resp.StatusCode),
	))
	c.logger.Debug("SAP request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp.StatusCode, nil
}
