// ABOUTME: Key handling and asynchronous commands for the workspace TUI
// ABOUTME: Network calls run as tea.Cmds and come back as messages to the Update loop
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/models"
	"github.com/harperreed/autoreach/workspace"
)

// SignalsLoadedMsg is sent once the signal store has finished loading.
type SignalsLoadedMsg struct{}

// GenerationDoneMsg carries a finished generation back to the workspace.
type GenerationDoneMsg struct {
	workspace.Completion
}

// CRMSyncedMsg is sent when a CRM sync request completes.
type CRMSyncedMsg struct {
	RunID    string
	Response *models.CRMSyncResponse
	Error    error
}

// HandoffDoneMsg is sent when a local handoff write completes.
type HandoffDoneMsg struct {
	Handoff *models.Handoff
	Error   error
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.signals)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Generate):
		if m.cursor < len(m.signals) {
			cmd := m.generate(m.signals[m.cursor])
			return m, cmd
		}
	case key.Matches(msg, m.keys.Retry):
		// re-runs the selected lead, which may differ from the cursor
		sig, ok := m.retryTarget()
		if ok {
			cmd := m.generate(sig)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Channel):
		m.ws.SetActiveChannel(m.ws.State().ActiveChannel.Next())
	case key.Matches(msg, m.keys.Email):
		m.ws.SetActiveChannel(models.ChannelEmail)
	case key.Matches(msg, m.keys.LinkedIn):
		m.ws.SetActiveChannel(models.ChannelLinkedIn)
	case key.Matches(msg, m.keys.Call):
		m.ws.SetActiveChannel(models.ChannelCall)
	case key.Matches(msg, m.keys.Copy):
		m.copyDraft()
	case key.Matches(msg, m.keys.Sync):
		return m.syncCRM()
	case key.Matches(msg, m.keys.Handoff):
		return m.handoff()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
	}

	return m, nil
}

func (m Model) retryTarget() (models.Signal, bool) {
	if sel := m.ws.State().SelectedSignal; sel != nil {
		return *sel, true
	}
	if m.cursor < len(m.signals) {
		return m.signals[m.cursor], true
	}
	return models.Signal{}, false
}

// loadSignals triggers the one-time store load.
func (m Model) loadSignals() tea.Cmd {
	return func() tea.Msg {
		if m.store != nil {
			m.store.Load(m.ctx)
		}
		return SignalsLoadedMsg{}
	}
}

func (m Model) handleSignalsLoaded(SignalsLoadedMsg) Model {
	m.loaded = true
	if m.store == nil {
		return m
	}
	m.signals = m.store.All()
	m.loadErr = m.store.Err()
	if m.cursor >= len(m.signals) {
		m.cursor = 0
	}
	return m
}

// generate moves the workspace into Requesting and returns the command that
// performs the call. Superseded requests still run; their results are dropped.
func (m *Model) generate(sig models.Signal) tea.Cmd {
	m.statusMsg = ""
	req := m.ws.SelectAndGenerate(sig)
	backend := m.backend
	ctx := m.ctx
	return func() tea.Msg {
		if backend == nil {
			return GenerationDoneMsg{workspace.Completion{Ticket: req.Ticket, Signal: req.Signal, Err: fmt.Errorf("no backend configured")}}
		}
		return GenerationDoneMsg{workspace.Run(ctx, backend, req)}
	}
}

func (m *Model) copyDraft() {
	ch := m.ws.State().ActiveChannel
	if m.ws.CopyActiveDraft(m.clipboard) {
		m.statusMsg = fmt.Sprintf("✓ Copied %s draft to clipboard", ch.Label())
		return
	}
	m.statusMsg = "Nothing copied"
}

// syncCRM pushes the current routing decision to the backend's CRM endpoint.
func (m Model) syncCRM() (tea.Model, tea.Cmd) {
	state := m.ws.State()
	if state.Result == nil || state.Processing {
		m.statusMsg = "No result to sync"
		return m, nil
	}
	if state.Result.RunID == "" {
		m.statusMsg = "Backend returned no run_id; CRM sync unavailable"
		return m, nil
	}
	if m.syncing || m.backend == nil {
		return m, nil
	}

	crm := state.Result.Routing.CRMTarget
	if crm == "" {
		crm = m.crmTarget
	}
	event := models.CRMEvent{
		RunID:  state.Result.RunID,
		CRM:    crm,
		Status: models.CRMStatusQueued,
		Payload: map[string]interface{}{
			"company": state.SelectedSignal.Company,
			"score":   state.Result.Score,
			"routing": state.Result.Routing,
		},
	}

	m.syncing = true
	m.statusMsg = fmt.Sprintf("Syncing run %s to %s...", event.RunID, crm)
	backend := m.backend
	ctx := m.ctx
	return m, func() tea.Msg {
		resp, err := backend.SyncCRM(ctx, event)
		return CRMSyncedMsg{RunID: event.RunID, Response: resp, Error: err}
	}
}

func (m Model) handleCRMSynced(msg CRMSyncedMsg) Model {
	m.syncing = false
	if msg.Error != nil {
		m.logger.Error("crm sync failed", "run_id", msg.RunID, "err", msg.Error)
		m.statusMsg = fmt.Sprintf("✗ CRM sync failed: %v", msg.Error)
		return m
	}
	m.logger.Info("crm sync stored", "run_id", msg.RunID)
	target := ""
	if msg.Response != nil {
		target = msg.Response.Stored.CRM
	}
	m.statusMsg = fmt.Sprintf("✓ Run %s queued for %s", msg.RunID, target)
	return m
}

// handoff writes the current result to the local CRM ledger.
func (m Model) handoff() (tea.Model, tea.Cmd) {
	if m.db == nil {
		m.statusMsg = "Local CRM ledger disabled"
		return m, nil
	}
	state := m.ws.State()
	if state.Result == nil || state.Processing || state.SelectedSignal == nil {
		m.statusMsg = "Nothing to hand off"
		return m, nil
	}

	database := m.db
	sig := *state.SelectedSignal
	result := state.Result
	return m, func() tea.Msg {
		h, err := db.RecordHandoff(database, sig, result)
		return HandoffDoneMsg{Handoff: h, Error: err}
	}
}

func (m Model) handleHandoffDone(msg HandoffDoneMsg) Model {
	if msg.Error != nil {
		m.logger.Error("handoff failed", "err", msg.Error)
		m.statusMsg = fmt.Sprintf("✗ Handoff failed: %v", msg.Error)
		return m
	}
	m.logger.Info("handoff recorded", "company", msg.Handoff.CompanyName, "contacts", msg.Handoff.ContactCount)
	m.statusMsg = fmt.Sprintf("✓ Handed off %s to %s (%d contacts)", msg.Handoff.CompanyName, msg.Handoff.Owner, msg.Handoff.ContactCount)
	return m
}
