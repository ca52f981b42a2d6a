// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the signal feed, generation and handoffs as MCP tools on stdio
package cli

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/autoreach/handlers"
	"github.com/harperreed/autoreach/signals"
)

// NewMCPServer registers every tool, resource and prompt
func NewMCPServer(store *signals.Store, backend handlers.Backend, database *sql.DB, logger *log.Logger, version string) *mcp.Server {
	outreach := handlers.NewOutreachHandlers(store, backend, database, logger)
	resources := handlers.NewResourceHandlers(store, database)
	prompts := handlers.NewPromptHandlers(outreach, database)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "autoreach",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_signals",
		Description: "List the inbound lead signals in feed order",
	}, outreach.ListSignals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_outreach",
		Description: "Score, research and draft outreach for one signal; returns the selected channel's draft",
	}, outreach.GenerateOutreach)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_runs",
		Description: "List recent generation runs recorded by the backend",
	}, outreach.ListRuns)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_handoff",
		Description: "Record the last generated outreach for a signal in the local CRM ledger",
	}, outreach.RecordHandoff)

	server.AddResource(&mcp.Resource{
		URI:         "autoreach://signals",
		Name:        "signals",
		Description: "The inbound lead signal feed",
		MIMEType:    "application/json",
	}, resources.ReadResource)

	if database != nil {
		server.AddResource(&mcp.Resource{
			URI:         "autoreach://handoffs",
			Name:        "handoffs",
			Description: "Leads handed off to the local CRM ledger, newest first",
			MIMEType:    "application/json",
		}, resources.ReadResource)
	}

	server.AddPrompt(&mcp.Prompt{
		Name:        "outreach-review",
		Description: "Review generated drafts for a signal before sending",
		Arguments: []*mcp.PromptArgument{
			{Name: "signal_id", Description: "Signal ID already run through generate_outreach", Required: true},
		},
	}, prompts.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "handoff-digest",
		Description: "Summarize recent handoffs by owner",
		Arguments: []*mcp.PromptArgument{
			{Name: "limit", Description: "How many handoffs to include (default 20)"},
		},
	}, prompts.GetPrompt)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, server *mcp.Server, logger *log.Logger) error {
	logger.Info("starting MCP server on stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}
