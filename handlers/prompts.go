// ABOUTME: MCP prompt handlers for reusable outreach workflow templates
// ABOUTME: Builds review and account-history prompts from generated outreach and handoffs
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/models"
)

type PromptHandlers struct {
	outreach *OutreachHandlers
	db       *sql.DB
}

func NewPromptHandlers(outreach *OutreachHandlers, database *sql.DB) *PromptHandlers {
	return &PromptHandlers{outreach: outreach, db: database}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "outreach-review":
		return h.getOutreachReviewPrompt(ctx, request.Params.Arguments)
	case "handoff-digest":
		return h.getHandoffDigestPrompt(request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getOutreachReviewPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	idStr, ok := args["signal_id"]
	if !ok {
		return nil, fmt.Errorf("signal_id is required")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid signal_id: %w", err)
	}

	sig, err := h.outreach.lookupSignal(ctx, id)
	if err != nil {
		return nil, err
	}
	result, ok := h.outreach.LastResult(id)
	if !ok {
		return nil, fmt.Errorf("no generated outreach for signal %d; call generate_outreach first", id)
	}

	var promptText strings.Builder
	promptText.WriteString("Please review this outreach package before it goes out:\n\n")
	promptText.WriteString(fmt.Sprintf("Company: %s\n", sig.Company))
	promptText.WriteString(fmt.Sprintf("Signal: %s\n", sig.Signal))
	promptText.WriteString(fmt.Sprintf("Score: %d\n", result.Score))
	if result.Routing.RecommendedOwner != "" {
		promptText.WriteString(fmt.Sprintf("Owner: %s (%s)\n", result.Routing.RecommendedOwner, result.Routing.Priority))
	}
	for _, ch := range models.Channels {
		draft := result.Assets.Draft(ch)
		if draft == "" {
			continue
		}
		promptText.WriteString(fmt.Sprintf("\n--- %s ---\n%s\n", ch.Label(), draft))
	}

	promptText.WriteString("\nPlease check:")
	promptText.WriteString("\n1. Whether each draft references the signal accurately")
	promptText.WriteString("\n2. Tone and length for the channel")
	promptText.WriteString("\n3. A stronger call to action where one is weak")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Outreach review for %s", sig.Company),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getHandoffDigestPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	if h.db == nil {
		return nil, fmt.Errorf("local CRM ledger is not configured")
	}
	limit := 20
	if s, ok := args["limit"]; ok && s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %w", err)
		}
		limit = n
	}

	handoffs, err := db.ListHandoffs(h.db, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch handoffs: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Please summarize the recent lead handoffs for the sales team:\n\n")
	if len(handoffs) == 0 {
		promptText.WriteString("(no handoffs recorded yet)\n")
	}
	for _, ho := range handoffs {
		promptText.WriteString(fmt.Sprintf("- %s: score %d, owner %s, %s priority, %d contacts (%s)\n",
			ho.CompanyName, ho.Score, ho.Owner, ho.Priority, ho.ContactCount, ho.CreatedAt.Format("2006-01-02")))
	}
	promptText.WriteString("\nGroup them by owner and call out anything high priority still waiting.")

	return &mcp.GetPromptResult{
		Description: "Recent handoff digest",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}
