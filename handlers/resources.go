// ABOUTME: MCP resource handlers for exposing outreach data
// ABOUTME: Provides read-only access to the signal feed and local handoffs via URI
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/signals"
)

const resourceScheme = "autoreach://"

type ResourceHandlers struct {
	store *signals.Store
	db    *sql.DB
}

func NewResourceHandlers(store *signals.Store, database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{store: store, db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	switch parts[0] {
	case "signals":
		h.store.Load(ctx)
		if err := h.store.Err(); err != nil {
			return nil, fmt.Errorf("failed to load signals: %w", err)
		}
		return jsonResource(uri, h.store.All())

	case "handoffs":
		if h.db == nil {
			return nil, fmt.Errorf("local CRM ledger is not configured")
		}
		if len(parts) == 1 || parts[1] == "" {
			handoffs, err := db.ListHandoffs(h.db, 100)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch handoffs: %w", err)
			}
			return jsonResource(uri, handoffs)
		}
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid handoff ID: %w", err)
		}
		detail, err := db.GetHandoffDetail(h.db, id)
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, detail)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
