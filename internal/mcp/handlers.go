package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ysalloum/pulsedesk/internal/router"
)

// handleRouteMessage routes one message and returns the result as JSON.
func (s *Server) handleRouteMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}
	customerID, err := request.RequireString("customer_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: customer_id"), nil
	}
	channel := request.GetString("channel", "mcp")

	result, err := s.router.Route(ctx, router.Request{
		Message:    message,
		CustomerID: customerID,
		Channel:    channel,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("routing failed: %v", err)), nil
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// handleCustomerHistory returns the profile and recent interactions.
func (s *Server) handleCustomerHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	customerID, err := request.RequireString("customer_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: customer_id"), nil
	}
	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	profile, err := s.memory.Get(ctx, customerID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading profile: %v", err)), nil
	}
	if profile == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No customer with id %q.", customerID)), nil
	}

	window, err := s.memory.ContextWindow(ctx, customerID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading history: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Customer %s (%s)\n", profile.ID, profile.Name)
	fmt.Fprintf(&sb, "Channel: %s, language: %s, tone: %s\n", profile.Channel, profile.Language, profile.Tone)
	if len(profile.Needs) > 0 {
		fmt.Fprintf(&sb, "Declared needs: %s\n", strings.Join(profile.Needs, "; "))
	}
	if len(window) == 0 {
		sb.WriteString("\nNo recorded interactions.")
	} else {
		fmt.Fprintf(&sb, "\nLast %d interaction(s), oldest first:\n", len(window))
		for _, rec := range window {
			fmt.Fprintf(&sb, "- [%s] %s (sentiment %s, outcome %s)\n",
				rec.OccurredAt.Format("2006-01-02 15:04"), rec.Summary, rec.Sentiment, rec.Outcome)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListSpecialists lists the roster with live counters.
func (s *Server) handleListSpecialists(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for _, p := range s.directory.List() {
		fmt.Fprintf(&sb, "%s — %s (%s, style %s)\n", p.ID, p.Name, p.Role, p.Style)
		fmt.Fprintf(&sb, "  interactions: %d, successful: %d, performance: %.2f\n",
			p.TotalInteractions, p.SuccessfulResponses, p.PerformanceScore())
	}
	if sb.Len() == 0 {
		return mcp.NewToolResultText("The specialist roster is empty."), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}
