// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive outreach workspace: pick a signal, generate, review and copy drafts
package tui

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/harperreed/autoreach/logging"
	"github.com/harperreed/autoreach/models"
	"github.com/harperreed/autoreach/signals"
	"github.com/harperreed/autoreach/workspace"
)

// Backend is what the TUI needs from the API. backend.Client satisfies it.
type Backend interface {
	workspace.Generator
	SyncCRM(ctx context.Context, event models.CRMEvent) (*models.CRMSyncResponse, error)
}

// Options wires the model's collaborators. DB and Clipboard may be nil.
type Options struct {
	Context   context.Context
	Store     *signals.Store
	Backend   Backend
	DB        *sql.DB
	Clipboard workspace.Clipboard
	CRMTarget string
	Logger    *log.Logger
}

// Model is the main bubbletea model
type Model struct {
	ctx       context.Context
	store     *signals.Store
	backend   Backend
	db        *sql.DB
	clipboard workspace.Clipboard
	crmTarget string
	logger    *log.Logger

	ws *workspace.Workspace

	// Signal list state
	signals []models.Signal
	cursor  int
	loaded  bool
	loadErr error

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	// Outcome of the last side action (copy, sync, handoff)
	statusMsg string
	syncing   bool

	// UI state
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.OrDiscard(opts.Logger)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = processingStyle

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		backend:   opts.Backend,
		db:        opts.DB,
		clipboard: opts.Clipboard,
		crmTarget: opts.CRMTarget,
		logger:    logger.With("component", "tui"),
		ws:        workspace.New(logger),
		spinner:   sp,
		viewport:  viewport.New(60, 20),
		help:      help.New(),
		keys:      defaultKeyMap(),
		width:     100,
		height:    30,
	}
}

// Workspace exposes the underlying state machine.
func (m Model) Workspace() *workspace.Workspace {
	return m.ws
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSignals(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	nm := next.(Model)
	nm.syncViewport()
	return nm, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case SignalsLoadedMsg:
		return m.handleSignalsLoaded(msg), nil
	case GenerationDoneMsg:
		m.ws.Complete(msg.Completion)
		return m, nil
	case CRMSyncedMsg:
		return m.handleCRMSynced(msg), nil
	case HandoffDoneMsg:
		return m.handleHandoffDone(msg), nil
	}
	return m, nil
}

func (m Model) View() string {
	return m.renderWorkspace()
}

// syncViewport keeps the result pane content current so scrolling can clamp against it.
func (m *Model) syncViewport() {
	v := workspace.Project(m.ws.State())
	if !v.HasResult {
		m.viewport.SetContent("")
		m.viewport.GotoTop()
		return
	}
	m.viewport.SetContent(renderResult(v, m.detailWidth()-4))
}

func (m *Model) resize() {
	m.viewport.Width = m.detailWidth()
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	m.viewport.Height = h
	m.help.Width = m.width
}

func (m Model) detailWidth() int {
	w := m.width - listWidth - 4
	if w < 40 {
		w = 40
	}
	return w
}

const listWidth = 38

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	processingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
