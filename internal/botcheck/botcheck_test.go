package botcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/patrickwarner/partnersdk/internal/observability"
)

func TestExecuteReturnsToken(t *testing.T) {
	metrics := observability.NewRecordingRegistry()
	var gotKey, gotAction string
	a := NewAdapter(ProviderFunc(func(_ context.Context, siteKey, action string) (string, error) {
		gotKey, gotAction = siteKey, action
		return "tok-1", nil
	}), zaptest.NewLogger(t), metrics)

	tok, err := a.Execute(context.Background(), "site-1", "checkout", 0)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, "site-1", gotKey)
	assert.Equal(t, "checkout", gotAction)
	assert.Equal(t, 1, metrics.Count("botcheck", "success"))
}

func TestExecuteFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		siteKey  string
	}{
		{name: "provider error", provider: ProviderFunc(func(context.Context, string, string) (string, error) {
			return "", errors.New("network down")
		}), siteKey: "k"},
		{name: "empty token", provider: StaticProvider(""), siteKey: "k"},
		{name: "missing site key", provider: StaticProvider("tok"), siteKey: ""},
		{name: "no provider", provider: nil, siteKey: "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter(tt.provider, zaptest.NewLogger(t), nil)
			tok, err := a.Execute(context.Background(), tt.siteKey, "checkout", time.Second)
			assert.Empty(t, tok)
			assert.ErrorIs(t, err, ErrBotCheckFailed)
		})
	}
}

func TestExecuteTimesOutSlowProvider(t *testing.T) {
	metrics := observability.NewRecordingRegistry()
	block := make(chan struct{})
	defer close(block)
	a := NewAdapter(ProviderFunc(func(context.Context, string, string) (string, error) {
		<-block // ignores ctx on purpose
		return "late", nil
	}), zaptest.NewLogger(t), metrics)

	start := time.Now()
	_, err := a.Execute(context.Background(), "k", "checkout", 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrBotCheckFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, metrics.Count("botcheck", "timeout"))
}

func TestHTTPProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.SiteKey != "site-1" {
			http.Error(w, "unknown site key", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{Token: "issued-" + req.Action})
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL)
	tok, err := p.Token(context.Background(), "site-1", "checkout")
	require.NoError(t, err)
	assert.Equal(t, "issued-checkout", tok)

	_, err = p.Token(context.Background(), "other", "checkout")
	assert.EqualError(t, err, "http 400: unknown site key")
}
