package channels

import (
	"context"
	"fmt"
	"strings"

	"github.com/ysalloum/pulsedesk/internal/router"
)

// Processor connects incoming platform messages to the message router.
type Processor struct {
	router *router.Router
}

// NewProcessor creates a new message processor.
func NewProcessor(rt *router.Router) *Processor {
	return &Processor{router: rt}
}

// HandleMessage routes one inbound platform message. Platform identifiers
// are prefixed so a WhatsApp number and a web visitor with the same raw id
// stay distinct customers.
func (p *Processor) HandleMessage(ctx context.Context, msg InboundMessage) (*router.RouteResult, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil, fmt.Errorf("empty message from %s", msg.Platform)
	}
	if msg.CustomerID == "" {
		return nil, fmt.Errorf("missing sender id on %s message", msg.Platform)
	}

	return p.router.Route(ctx, router.Request{
		Message:    text,
		CustomerID: fmt.Sprintf("%s:%s", msg.Platform, msg.CustomerID),
		Channel:    string(msg.Platform),
		Name:       msg.Name,
	})
}
