package gateway

import (
	"context"
	"fmt"

	"github.com/ysalloum/pulsedesk/internal/config"
)

// MessagingClient sends outbound messages through the configured messaging
// provider. It implements dispatch.Messenger.
type MessagingClient struct {
	client
	from string
}

// NewMessagingClient creates the messaging provider adapter.
func NewMessagingClient(cfg config.GatewayConfig) *MessagingClient {
	return &MessagingClient{client: newClient(cfg), from: cfg.From}
}

type sendRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type sendResponse struct {
	ReferenceID string `json:"reference_id"`
	Error       string `json:"error,omitempty"`
}

// Send delivers one message to one address.
func (c *MessagingClient) Send(ctx context.Context, to, text string) (string, error) {
	var resp sendResponse
	err := c.postJSON(ctx, "/v1/messages", sendRequest{From: c.from, To: to, Text: text}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("messaging provider: %s", resp.Error)
	}
	return resp.ReferenceID, nil
}
