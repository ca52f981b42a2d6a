// ABOUTME: Outreach MCP tool handlers
// ABOUTME: Implements list_signals, generate_outreach, list_runs, and record_handoff tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/logging"
	"github.com/harperreed/autoreach/models"
	"github.com/harperreed/autoreach/signals"
	"github.com/harperreed/autoreach/workspace"
)

// Backend is the subset of the API the tools call. backend.Client satisfies it.
type Backend interface {
	workspace.Generator
	ListRuns(ctx context.Context) ([]models.GenerationResult, error)
}

type OutreachHandlers struct {
	store   *signals.Store
	backend Backend
	db      *sql.DB
	logger  *log.Logger

	mu   sync.Mutex
	last map[int]*models.GenerationResult
}

func NewOutreachHandlers(store *signals.Store, backend Backend, database *sql.DB, logger *log.Logger) *OutreachHandlers {
	return &OutreachHandlers{
		store:   store,
		backend: backend,
		db:      database,
		logger:  logging.OrDiscard(logger).With("component", "mcp"),
		last:    make(map[int]*models.GenerationResult),
	}
}

type ListSignalsInput struct{}

type ListSignalsOutput struct {
	Signals []models.Signal `json:"signals"`
}

func (h *OutreachHandlers) ListSignals(ctx context.Context, request *mcp.CallToolRequest, input ListSignalsInput) (*mcp.CallToolResult, ListSignalsOutput, error) {
	h.store.Load(ctx)
	if err := h.store.Err(); err != nil {
		return nil, ListSignalsOutput{}, fmt.Errorf("failed to load signals: %w", err)
	}
	return nil, ListSignalsOutput{Signals: h.store.All()}, nil
}

type GenerateOutreachInput struct {
	SignalID int    `json:"signal_id" jsonschema:"ID of the signal to generate outreach for (required)"`
	Channel  string `json:"channel,omitempty" jsonschema:"Draft to return: email, linkedin or call (default email)"`
}

type OutreachOutput struct {
	SignalID       int              `json:"signal_id"`
	Company        string           `json:"company"`
	Signal         string           `json:"signal"`
	RunID          string           `json:"run_id,omitempty"`
	Score          int              `json:"score"`
	ScoreTier      string           `json:"score_tier"`
	IntentLevel    string           `json:"intent_level,omitempty"`
	NextBestAction string           `json:"next_best_action,omitempty"`
	Reasons        []string         `json:"reasons"`
	Summary        string           `json:"summary,omitempty"`
	PainPoints     []string         `json:"pain_points"`
	Opportunities  []string         `json:"opportunities"`
	DecisionMakers []models.Contact `json:"decision_makers"`
	Channel        string           `json:"channel"`
	Draft          string           `json:"draft"`
	DraftAvailable bool             `json:"draft_available"`
	Owner          string           `json:"owner,omitempty"`
	Priority       string           `json:"priority,omitempty"`
	CRMTarget      string           `json:"crm_target,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	Logs           []string         `json:"logs"`
}

func (h *OutreachHandlers) GenerateOutreach(ctx context.Context, request *mcp.CallToolRequest, input GenerateOutreachInput) (*mcp.CallToolResult, OutreachOutput, error) {
	channel, err := models.ParseChannel(input.Channel)
	if err != nil {
		return nil, OutreachOutput{}, err
	}
	sig, err := h.lookupSignal(ctx, input.SignalID)
	if err != nil {
		return nil, OutreachOutput{}, err
	}

	// each call gets its own workspace; concurrent tool calls never share state
	ws := workspace.New(h.logger)
	ws.SetActiveChannel(channel)
	state, err := ws.Generate(ctx, h.backend, sig)
	if err != nil {
		return nil, OutreachOutput{}, fmt.Errorf("generation failed for %s: %w", sig.Company, err)
	}

	h.mu.Lock()
	h.last[sig.ID] = state.Result
	h.mu.Unlock()

	return nil, viewToOutput(workspace.Project(state)), nil
}

type ListRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of runs (default 10)"`
}

type RunOutput struct {
	RunID     string `json:"run_id"`
	CreatedAt string `json:"created_at,omitempty"`
	Company   string `json:"company"`
	Signal    string `json:"signal"`
	Score     int    `json:"score"`
	Owner     string `json:"owner,omitempty"`
	CRMTarget string `json:"crm_target,omitempty"`
}

type ListRunsOutput struct {
	Runs []RunOutput `json:"runs"`
}

func (h *OutreachHandlers) ListRuns(ctx context.Context, request *mcp.CallToolRequest, input ListRunsInput) (*mcp.CallToolResult, ListRunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	runs, err := h.backend.ListRuns(ctx)
	if err != nil {
		return nil, ListRunsOutput{}, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) > limit {
		runs = runs[:limit]
	}

	out := make([]RunOutput, len(runs))
	for i, run := range runs {
		out[i] = RunOutput{
			RunID:     run.RunID,
			CreatedAt: run.CreatedAt,
			Company:   run.Company,
			Signal:    run.Signal,
			Score:     run.Score,
			Owner:     run.Routing.RecommendedOwner,
			CRMTarget: run.Routing.CRMTarget,
		}
	}
	return nil, ListRunsOutput{Runs: out}, nil
}

type RecordHandoffInput struct {
	SignalID int `json:"signal_id" jsonschema:"ID of a signal already run through generate_outreach (required)"`
}

type HandoffOutput struct {
	ID           string `json:"id"`
	Company      string `json:"company"`
	Score        int    `json:"score"`
	Owner        string `json:"owner,omitempty"`
	Priority     string `json:"priority,omitempty"`
	CRMTarget    string `json:"crm_target,omitempty"`
	ContactCount int    `json:"contact_count"`
	CreatedAt    string `json:"created_at"`
}

func (h *OutreachHandlers) RecordHandoff(ctx context.Context, request *mcp.CallToolRequest, input RecordHandoffInput) (*mcp.CallToolResult, HandoffOutput, error) {
	if h.db == nil {
		return nil, HandoffOutput{}, fmt.Errorf("local CRM ledger is not configured")
	}
	sig, err := h.lookupSignal(ctx, input.SignalID)
	if err != nil {
		return nil, HandoffOutput{}, err
	}

	h.mu.Lock()
	result := h.last[sig.ID]
	h.mu.Unlock()
	if result == nil {
		return nil, HandoffOutput{}, fmt.Errorf("no generated outreach for signal %d; call generate_outreach first", sig.ID)
	}

	handoff, err := db.RecordHandoff(h.db, sig, result)
	if err != nil {
		return nil, HandoffOutput{}, fmt.Errorf("failed to record handoff: %w", err)
	}
	h.logger.Info("handoff recorded", "company", handoff.CompanyName, "contacts", handoff.ContactCount)

	return nil, handoffToOutput(handoff), nil
}

// LastResult returns the most recent generation for a signal, if any.
func (h *OutreachHandlers) LastResult(signalID int) (*models.GenerationResult, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	res, ok := h.last[signalID]
	return res, ok
}

func (h *OutreachHandlers) lookupSignal(ctx context.Context, id int) (models.Signal, error) {
	h.store.Load(ctx)
	sig, ok := h.store.Get(id)
	if !ok {
		if err := h.store.Err(); err != nil {
			return models.Signal{}, fmt.Errorf("signals unavailable: %w", err)
		}
		return models.Signal{}, fmt.Errorf("signal %d not found", id)
	}
	return sig, nil
}

func viewToOutput(v workspace.View) OutreachOutput {
	return OutreachOutput{
		SignalID:       v.SignalID,
		Company:        v.Company,
		Signal:         v.Signal,
		RunID:          v.RunID,
		Score:          v.Score,
		ScoreTier:      string(v.ScoreTier),
		IntentLevel:    v.IntentLevel,
		NextBestAction: v.NextBestAction,
		Reasons:        v.Reasons,
		Summary:        v.Summary,
		PainPoints:     v.PainPoints,
		Opportunities:  v.Opportunities,
		DecisionMakers: v.DecisionMakers,
		Channel:        string(v.ActiveChannel),
		Draft:          v.ActiveDraft,
		DraftAvailable: v.DraftAvailable,
		Owner:          v.Owner,
		Priority:       v.Priority,
		CRMTarget:      v.CRMTarget,
		Notes:          v.Notes,
		Logs:           v.Logs,
	}
}

func handoffToOutput(h *models.Handoff) HandoffOutput {
	return HandoffOutput{
		ID:           h.ID.String(),
		Company:      h.CompanyName,
		Score:        h.Score,
		Owner:        h.Owner,
		Priority:     h.Priority,
		CRMTarget:    h.CRMTarget,
		ContactCount: h.ContactCount,
		CreatedAt:    h.CreatedAt.Format(time.RFC3339),
	}
}
