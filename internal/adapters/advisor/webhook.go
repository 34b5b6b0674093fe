package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/application/advisory"
)

// maxResponseBytes bounds how much of the advisor's reply is read.
const maxResponseBytes = 1 << 20

// WebhookPublisher POSTs cart events to the advisor's HTTP endpoint. The
// advisor may answer with a suggestion in the response body.
type WebhookPublisher struct {
	url        string
	secret     string
	httpClient *http.Client
}

// NewWebhookPublisher creates a publisher for url. The per-call deadline
// comes from the context; timeout is a backstop on the HTTP client.
func NewWebhookPublisher(url, secret string, timeout time.Duration) *WebhookPublisher {
	return &WebhookPublisher{
		url:    url,
		secret: secret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name implements advisory.Publisher.
func (p *WebhookPublisher) Name() string {
	return "webhook"
}

// Publish sends ev once. Non-2xx responses are errors.
func (p *WebhookPublisher) Publish(ctx context.Context, ev advisory.CartEvent) (*advisory.Suggestion, error) {
	requestBody, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.secret != "" {
		req.Header.Set(advisory.SecretHeader, p.secret)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("advisor returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	suggestion, err := advisory.DecodeSuggestion(bytes.TrimSpace(body))
	if err != nil {
		return nil, err
	}
	return suggestion, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
