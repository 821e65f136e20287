package gateway

import (
	"context"
	"fmt"

	"github.com/ysalloum/pulsedesk/internal/config"
)

// TelephonyClient places outbound calls through the configured voice
// provider. It implements dispatch.Telephony.
type TelephonyClient struct {
	client
	from string
}

// NewTelephonyClient creates the voice provider adapter.
func NewTelephonyClient(cfg config.GatewayConfig) *TelephonyClient {
	return &TelephonyClient{client: newClient(cfg), from: cfg.From}
}

type callRequest struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Message string `json:"message"`
}

type callResponse struct {
	ReferenceID string `json:"reference_id"`
	Error       string `json:"error,omitempty"`
}

// PlaceCall requests one outbound call and returns the provider reference id.
func (c *TelephonyClient) PlaceCall(ctx context.Context, to, message string) (string, error) {
	var resp callResponse
	err := c.postJSON(ctx, "/v1/calls", callRequest{From: c.from, To: to, Message: message}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("telephony provider: %s", resp.Error)
	}
	return resp.ReferenceID, nil
}
