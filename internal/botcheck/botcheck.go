// Package botcheck obtains proof-of-humanity tokens for RTPS requests.
package botcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/observability"
)

// DefaultTimeout bounds a token request when the caller passes zero.
const DefaultTimeout = 10 * time.Second

var (
	// ErrBotCheckFailed wraps every failure to obtain a token.
	ErrBotCheckFailed = errors.New("bot check failed")
	errEmptyToken     = errors.New("provider returned an empty token")
	errNoSiteKey      = errors.New("no site key configured")
)

// Provider issues a token for siteKey and action.
type Provider interface {
	Token(ctx context.Context, siteKey, action string) (string, error)
}

// ProviderFunc adapts a function to Provider. Hosts that run their own
// verification client hand tokens to the SDK this way.
type ProviderFunc func(ctx context.Context, siteKey, action string) (string, error)

func (f ProviderFunc) Token(ctx context.Context, siteKey, action string) (string, error) {
	return f(ctx, siteKey, action)
}

// StaticProvider always returns the same token.
func StaticProvider(token string) Provider {
	return ProviderFunc(func(context.Context, string, string) (string, error) {
		return token, nil
	})
}

// Adapter runs a Provider with a timeout and normalises its failures.
type Adapter struct {
	provider Provider
	logger   *zap.Logger
	metrics  observability.MetricsRegistry
}

// NewAdapter wraps p. A nil logger or metrics registry falls back to a
// no-op.
func NewAdapter(p Provider, logger *zap.Logger, metrics observability.MetricsRegistry) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}
	return &Adapter{provider: p, logger: logger.Named("botcheck"), metrics: metrics}
}

// Execute returns a token or an error wrapping ErrBotCheckFailed. A
// non-positive timeout means DefaultTimeout.
func (a *Adapter) Execute(ctx context.Context, siteKey, action string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	start := time.Now()
	outcome := "failure"
	defer func() {
		a.metrics.IncrementBotCheck(outcome)
		a.metrics.RecordBotCheckLatency(time.Since(start))
	}()

	if a.provider == nil {
		return "", fmt.Errorf("%w: no provider configured", ErrBotCheckFailed)
	}
	if siteKey == "" {
		return "", fmt.Errorf("%w: %w", ErrBotCheckFailed, errNoSiteKey)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		token string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		tok, err := a.provider.Token(ctx, siteKey, action)
		done <- result{tok, err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		// providers that ignore ctx must not hold up the flow
		r.err = ctx.Err()
	}

	if r.err != nil {
		if errors.Is(r.err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		a.logger.Warn("bot check failed", zap.String("action", action), zap.Error(r.err))
		return "", fmt.Errorf("%w: %w", ErrBotCheckFailed, r.err)
	}
	if r.token == "" {
		a.logger.Warn("bot check returned empty token", zap.String("action", action))
		return "", fmt.Errorf("%w: %w", ErrBotCheckFailed, errEmptyToken)
	}

	outcome = "success"
	a.logger.Debug("bot check token obtained", zap.String("action", action), zap.Duration("elapsed", time.Since(start)))
	return r.token, nil
}
