// ABOUTME: Tests for the workspace TUI
// ABOUTME: Drives Update with key and completion messages against fake backends
package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/models"
	"github.com/harperreed/autoreach/signals"
	"github.com/harperreed/autoreach/workspace"
)

type fakeBackend struct {
	signals []models.Signal
	results map[string]*models.GenerationResult
	synced  []models.CRMEvent
	syncErr error
}

func (f *fakeBackend) ListSignals(context.Context) ([]models.Signal, error) {
	return f.signals, nil
}

func (f *fakeBackend) ProcessLead(_ context.Context, req models.ProcessLeadRequest) (*models.GenerationResult, error) {
	res, ok := f.results[req.Company]
	if !ok {
		return nil, errors.New("backend unavailable")
	}
	return res, nil
}

func (f *fakeBackend) SyncCRM(_ context.Context, event models.CRMEvent) (*models.CRMSyncResponse, error) {
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	f.synced = append(f.synced, event)
	return &models.CRMSyncResponse{OK: true, Stored: event}, nil
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		signals: []models.Signal{
			{ID: 1, Company: "Acme", Signal: "visited pricing page", Time: "09:00"},
			{ID: 2, Company: "Globex", Signal: "hired a CRO", Time: "10:30"},
		},
		results: map[string]*models.GenerationResult{
			"Acme": {
				RunID:  "run-acme",
				Score:  82,
				Assets: models.Assets{Email: "Hi Acme", LinkedIn: "Hey Acme"},
				Research: models.Research{DecisionMakers: []models.Contact{
					{Name: "Jane Roe", Title: "VP Sales", Email: "jane@acme.com"},
				}},
				Routing: models.Routing{RecommendedOwner: "Jane", Priority: "High", CRMTarget: "HubSpot"},
			},
			"Globex": {Score: 40, Assets: models.Assets{Email: "Hi Globex"}},
		},
	}
}

func newTestModel(t *testing.T, backend *fakeBackend, opts Options) Model {
	t.Helper()
	opts.Store = signals.NewStore(backend, nil)
	opts.Backend = backend
	m := NewModel(opts)

	msg := m.loadSignals()()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func TestSignalsLoaded(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), Options{})

	assert.True(t, m.loaded)
	assert.Len(t, m.signals, 2)
	assert.Contains(t, m.View(), "Acme")
	assert.Contains(t, m.View(), "Select a lead to initialize workspace")
}

func TestEnterGeneratesForCursor(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), Options{})

	m, cmd := press(t, m, "enter")
	state := m.ws.State()
	assert.True(t, state.Processing)
	assert.Equal(t, "Acme", state.SelectedSignal.Company)
	assert.Contains(t, m.View(), "Running analysis on Acme...")

	m = deliver(t, m, cmd)
	state = m.ws.State()
	assert.False(t, state.Processing)
	require.NotNil(t, state.Result)
	assert.Equal(t, 82, state.Result.Score)
	assert.Contains(t, m.View(), "Hi Acme")
}

func TestLatestSelectionWins(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), Options{})

	m, first := press(t, m, "enter")
	m, _ = press(t, m, "down")
	m, second := press(t, m, "enter")

	m = deliver(t, m, second)
	m = deliver(t, m, first)

	state := m.ws.State()
	assert.Equal(t, "Globex", state.SelectedSignal.Company)
	require.NotNil(t, state.Result)
	assert.Equal(t, 40, state.Result.Score)
}

func TestFailureShowsRetry(t *testing.T) {
	backend := newFakeBackend()
	delete(backend.results, "Acme")
	m := newTestModel(t, backend, Options{})

	m, cmd := press(t, m, "enter")
	m = deliver(t, m, cmd)
	assert.Error(t, m.ws.State().Err)
	assert.Contains(t, m.View(), "Generation failed for Acme")

	backend.results["Acme"] = &models.GenerationResult{Score: 90}
	m, cmd = press(t, m, "r")
	m = deliver(t, m, cmd)
	assert.NoError(t, m.ws.State().Err)
	assert.Equal(t, 90, m.ws.State().Result.Score)
}

func TestRetryUsesSelectedNotCursor(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), Options{})

	m, cmd := press(t, m, "enter")
	m = deliver(t, m, cmd)
	m, _ = press(t, m, "down")

	m, cmd = press(t, m, "r")
	assert.Equal(t, "Acme", m.ws.State().SelectedSignal.Company)
	m = deliver(t, m, cmd)
	assert.Equal(t, 82, m.ws.State().Result.Score)
}

func TestChannelKeys(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), Options{})
	m, cmd := press(t, m, "enter")
	m = deliver(t, m, cmd)

	m, _ = press(t, m, "tab")
	assert.Equal(t, models.ChannelLinkedIn, m.ws.State().ActiveChannel)
	assert.Contains(t, m.View(), "Hey Acme")

	m, _ = press(t, m, "3")
	assert.Equal(t, models.ChannelCall, m.ws.State().ActiveChannel)
	assert.Contains(t, m.View(), workspace.DraftPlaceholder)

	m, _ = press(t, m, "1")
	assert.Equal(t, models.ChannelEmail, m.ws.State().ActiveChannel)
}

func TestCopyDraft(t *testing.T) {
	cb := &fakeClipboard{}
	m := newTestModel(t, newFakeBackend(), Options{Clipboard: cb})

	m, _ = press(t, m, "c")
	assert.Empty(t, cb.text)
	assert.Equal(t, "Nothing copied", m.statusMsg)

	m, cmd := press(t, m, "enter")
	m = deliver(t, m, cmd)
	m, _ = press(t, m, "c")
	assert.Equal(t, "Hi Acme", cb.text)
	assert.Contains(t, m.statusMsg, "Copied Email draft")

	cb.text = ""
	m, _ = press(t, m, "3")
	m, _ = press(t, m, "c")
	assert.Empty(t, cb.text, "empty draft is never copied")
}

func TestCRMSync(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, Options{CRMTarget: "Salesforce"})

	m, cmd := press(t, m, "s")
	assert.Nil(t, cmd)
	assert.Equal(t, "No result to sync", m.statusMsg)

	m, cmd = press(t, m, "enter")
	m = deliver(t, m, cmd)
	m, cmd = press(t, m, "s")
	m = deliver(t, m, cmd)

	require.Len(t, backend.synced, 1)
	assert.Equal(t, "run-acme", backend.synced[0].RunID)
	assert.Equal(t, "HubSpot", backend.synced[0].CRM)
	assert.Equal(t, models.CRMStatusQueued, backend.synced[0].Status)
	assert.Contains(t, m.statusMsg, "queued for HubSpot")
	assert.NotNil(t, m.ws.State().Result, "sync leaves the workspace alone")
}

func TestCRMSyncWithoutRunID(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, Options{})
	m, _ = press(t, m, "down")
	m, cmd := press(t, m, "enter")
	m = deliver(t, m, cmd)

	m, cmd = press(t, m, "s")
	assert.Nil(t, cmd)
	assert.Contains(t, m.statusMsg, "no run_id")
	assert.Empty(t, backend.synced)
}

func TestHandoff(t *testing.T) {
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "autoreach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	m := newTestModel(t, newFakeBackend(), Options{DB: database})
	m, cmd := press(t, m, "x")
	assert.Nil(t, cmd)

	m, cmd = press(t, m, "enter")
	m = deliver(t, m, cmd)
	m, cmd = press(t, m, "x")
	m = deliver(t, m, cmd)

	assert.Contains(t, m.statusMsg, "Handed off Acme to Jane (1 contacts)")
	handoffs, err := db.ListHandoffs(database, 10)
	require.NoError(t, err)
	require.Len(t, handoffs, 1)
	assert.Equal(t, 82, handoffs[0].Score)
}

func TestHandoffDisabledWithoutDB(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), Options{})
	m, cmd := press(t, m, "enter")
	m = deliver(t, m, cmd)

	m, cmd = press(t, m, "x")
	assert.Nil(t, cmd)
	assert.Equal(t, "Local CRM ledger disabled", m.statusMsg)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), Options{})
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
