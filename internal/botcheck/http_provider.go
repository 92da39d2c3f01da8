package botcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenRequest is posted to a token endpoint.
type TokenRequest struct {
	SiteKey string `json:"siteKey"`
	Action  string `json:"action"`
}

// TokenResponse is returned by a token endpoint.
type TokenResponse struct {
	Token string `json:"token"`
}

// HTTPProvider fetches tokens from an HTTP endpoint that issues them, such
// as the mock partner service or a host-side verification proxy.
type HTTPProvider struct {
	URL    string
	Client *http.Client
}

// NewHTTPProvider returns a provider for url using a traced client.
func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		URL:    url,
		Client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

func (p *HTTPProvider) Token(ctx context.Context, siteKey, action string) (string, error) {
	body, err := json.Marshal(TokenRequest{SiteKey: siteKey, Action: action})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Token, nil
}
