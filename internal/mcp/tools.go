package mcp

import "github.com/mark3labs/mcp-go/mcp"

// routeMessageTool defines the route_message MCP tool.
var routeMessageTool = mcp.NewTool("route_message",
	mcp.WithDescription("Route one customer message through the pipeline: command detection, intent classification, specialist selection and response synthesis. Returns the response, the chosen agent and any execution report."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The customer message, Arabic or English"),
	),
	mcp.WithString("customer_id",
		mcp.Required(),
		mcp.Description("Stable customer identifier"),
	),
	mcp.WithString("channel",
		mcp.Description("Inbound channel (whatsapp, web, phone); defaults to mcp"),
	),
)

// customerHistoryTool defines the customer_history MCP tool.
var customerHistoryTool = mcp.NewTool("customer_history",
	mcp.WithDescription("Get a customer's profile and recent interaction history."),
	mcp.WithString("customer_id",
		mcp.Required(),
		mcp.Description("Stable customer identifier"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of interactions to return (default 5)"),
	),
)

// listSpecialistsTool defines the list_specialists MCP tool.
var listSpecialistsTool = mcp.NewTool("list_specialists",
	mcp.WithDescription("List the specialist roster with current performance counters."),
)
