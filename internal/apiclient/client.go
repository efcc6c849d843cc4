// Package apiclient talks to the Logineko backend REST API.
//
// Every call goes through one of two entry points. AuthenticatedRequest
// attaches the bearer token of the browser session carried in the context;
// PublicRequest never does. Both normalise the response into an Envelope and
// report non-2xx statuses and network failures as *TransportError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const tracerName = "logineko-admin/apiclient"

// maxErrorBody bounds how much of a failed response is drained.
const maxErrorBody = 64 * 1024

// TokenSource yields the access token to send with an authenticated request.
// An empty string means no Authorization header.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) string { return string(t) }

// Observer receives one sample per backend call. status is 0 when the call
// never produced a response.
type Observer interface {
	ObserveAPICall(method, endpoint string, status int, elapsed time.Duration)
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	observer   Observer
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithObserver records call counts and latencies.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// New creates a client for baseURL, e.g. "https://api.logineko.vn".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	if c.propagator == nil {
		c.propagator = otel.GetTextMapPropagator()
	}
	return c
}

// BaseURL returns the backend origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthenticatedRequest sends a request with the session's bearer token, if any.
// body may be nil, a *Multipart, or any value encodable as JSON.
func (c *Client) AuthenticatedRequest(ctx context.Context, method, path string, body any) (*Envelope, error) {
	return c.do(ctx, method, path, body, true)
}

// PublicRequest sends a request without an Authorization header.
func (c *Client) PublicRequest(ctx context.Context, method, path string, body any) (*Envelope, error) {
	return c.do(ctx, method, path, body, false)
}

func (c *Client) do(ctx context.Context, method, path string, body any, auth bool) (*Envelope, error) {
	endpoint := EndpointLabel(path)
	ctx, span := c.tracer.Start(ctx, method+" "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.Bool("logineko.authenticated", auth),
	)

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, err
	}
	if auth && c.tokens != nil {
		if tok := c.tokens.Token(ctx); tok != "" {
			(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(req)
		}
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, endpoint, 0, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	c.observe(method, endpoint, resp.StatusCode, start)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		span.SetStatus(codes.Error, resp.Status)
		return nil, &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode envelope")
		return nil, fmt.Errorf("api: failed to decode response from %s %s: %w", method, path, err)
	}
	return &env, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var (
		reader      io.Reader
		contentType string
	)

	switch b := body.(type) {
	case nil:
	case *Multipart:
		r, ct, err := b.encode()
		if err != nil {
			return nil, err
		}
		reader, contentType = r, ct
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader, contentType = bytes.NewReader(payload), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) observe(method, endpoint string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveAPICall(method, endpoint, status, c.now().Sub(start))
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// EndpointLabel strips the query string and collapses numeric ids so that
// metrics and span names stay low-cardinality: "/courses/42?x=1" becomes
// "/courses/{id}".
func EndpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/{id}$1")
	}
	return path
}
