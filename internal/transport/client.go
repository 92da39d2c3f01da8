// Package transport is the SDK's HTTP client for the partner services.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/middleware"
	"github.com/patrickwarner/partnersdk/internal/observability"
)

const (
	HeaderClientKey     = "X-Client-Key"
	HeaderRequestedWith = "X-Requested-With"
	requestedWithXHR    = "XMLHttpRequest"
	defaultOrigin       = "https://aspire-ep-demo.myshopify.com"
	maxErrorBodyBytes   = 64 << 10
	contentTypeJSON     = "application/json"
	defaultUserAgent    = "partnersdk-go/" + observability.Version
	contentTypeHTML     = "text/html"
)

// LogFunc receives request and response log lines when host logging is on.
type LogFunc func(message string, fields map[string]any)

// Options configures a Client.
type Options struct {
	// Timeout bounds each call. Zero leaves it to the caller's context.
	Timeout   time.Duration
	UserAgent string
	Origin    string
	// HTTPClient overrides the instrumented default, mostly for tests.
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    observability.MetricsRegistry
	OnLog      LogFunc
}

// Client sends JSON requests and decodes JSON responses. Each call is a
// single attempt.
type Client struct {
	http      *http.Client
	userAgent string
	origin    string
	logger    *zap.Logger
	metrics   observability.MetricsRegistry
	onLog     LogFunc
}

// Doer sends a Request. *Client implements it; flows depend on this so
// tests can substitute their own.
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
}

var _ Doer = (*Client)(nil)

// Request describes one call. Name labels metrics and logs.
type Request struct {
	Name    string
	Method  string
	URL     string
	Body    any
	Headers map[string]string
}

// NewClient creates a Client whose transport is traced with otelhttp.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	c := &Client{
		http:      hc,
		userAgent: opts.UserAgent,
		origin:    opts.Origin,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		onLog:     opts.OnLog,
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.origin == "" {
		c.origin = defaultOrigin
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.metrics == nil {
		c.metrics = observability.NewNoOpRegistry()
	}
	return c
}

// RTPSHeaders are the extra headers the pre-screen backend requires.
func RTPSHeaders(integrationKey string) map[string]string {
	return map[string]string{
		HeaderClientKey:     integrationKey,
		HeaderRequestedWith: requestedWithXHR,
	}
}

// Do sends req and decodes a successful body into out, which may be nil.
// Failures are *HTTPError, *ChallengeError, or wrap ErrRequest/ErrDecode.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	start := time.Now()
	status := "error"
	defer func() {
		c.metrics.IncrementRequests(req.Name, req.Method, status)
		c.metrics.RecordRequestLatency(req.Name, req.Method, time.Since(start))
	}()
	logger := middleware.LoggerFromContext(ctx, c.logger).With(
		zap.String("endpoint", req.Name),
		zap.String("url", req.URL),
	)

	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%w: marshal body: %v", ErrRequest, err)
		}
		payload = b
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrRequest, err)
	}
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Origin", c.origin)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	c.log("request", map[string]any{"method": req.Method, "url": req.URL, "body": string(payload)})
	logger.Debug("sending request", zap.String("method", req.Method))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Warn("request failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err))
		}
	}()
	status = strconv.Itoa(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrRequest, err)
	}
	c.log("response", map[string]any{"url": req.URL, "status": resp.StatusCode, "body": string(body)})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if isChallenge(resp) {
			logger.Info("security challenge received", zap.Int("status", resp.StatusCode))
			return &ChallengeError{StatusCode: resp.StatusCode, HTML: string(body)}
		}
		if len(body) > maxErrorBodyBytes {
			body = body[:maxErrorBodyBytes]
		}
		logger.Warn("unexpected status", zap.Int("status", resp.StatusCode))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// isChallenge recognises the bot-protection page the partner edge returns
// instead of JSON.
func isChallenge(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mt == contentTypeHTML
}

func (c *Client) log(message string, fields map[string]any) {
	if c.onLog != nil {
		c.onLog(message, fields)
	}
}
