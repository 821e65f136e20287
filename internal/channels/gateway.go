// Package channels receives customer messages from external messaging
// platforms and feeds them through the router. Platform webhooks normalize
// their payloads into InboundMessage; the processing behind them is shared.
package channels

import (
	"context"

	"github.com/ysalloum/pulsedesk/internal/router"
)

// MessageHandler processes incoming messages and produces routed results.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg InboundMessage) (*router.RouteResult, error)
}

// Gateway is the platform-agnostic entry point that hands messages
// to a handler for processing.
type Gateway struct {
	handler MessageHandler
}

// NewGateway creates a new Gateway with the given message handler.
func NewGateway(handler MessageHandler) *Gateway {
	return &Gateway{handler: handler}
}

// Process routes an incoming message through the handler.
func (g *Gateway) Process(ctx context.Context, msg InboundMessage) (*router.RouteResult, error) {
	return g.handler.HandleMessage(ctx, msg)
}
