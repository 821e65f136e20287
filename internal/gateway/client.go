// Package gateway holds the HTTP adapters for the external telephony and
// messaging providers. Each adapter implements the corresponding dispatch
// interface; the dispatcher never sees HTTP details.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ysalloum/pulsedesk/internal/config"
)

// client is the shared JSON-over-HTTP plumbing for both providers.
type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(cfg config.GatewayConfig) client {
	return client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{},
	}
}

// postJSON sends one request and decodes the provider response into out.
// Non-2xx statuses are mapped to errors carrying the response body.
func (c client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshalling gateway response: %w", err)
	}
	return nil
}
