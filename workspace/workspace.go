// ABOUTME: Generation Workspace state machine for lead selection and outreach generation
// ABOUTME: Tags each request with a ticket so only the latest selection's response is committed
package workspace

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/autoreach/logging"
	"github.com/harperreed/autoreach/models"
)

// Generator produces an outreach package. backend.Client satisfies it.
type Generator interface {
	ProcessLead(ctx context.Context, req models.ProcessLeadRequest) (*models.GenerationResult, error)
}

// Ticket identifies one generation request.
type Ticket string

// Request is a generation the caller must issue exactly once.
type Request struct {
	Ticket  Ticket
	Signal  models.Signal
	Payload models.ProcessLeadRequest
}

// Completion is the outcome of a Request, fed back through Complete.
type Completion struct {
	Ticket Ticket
	Signal models.Signal
	Result *models.GenerationResult
	Err    error
}

// Workspace owns selection, in-flight and channel state.
//
// It is not safe for concurrent use: every method must be called from the
// single event loop that owns it (the bubbletea Update loop, or one CLI/MCP
// call). Network calls happen outside, via Run, and come back through Complete.
type Workspace struct {
	state     models.WorkspaceState
	current   Ticket
	observers map[int]func(models.WorkspaceState)
	nextObs   int
	logger    *log.Logger
}

// New returns an idle workspace with the email channel active.
func New(logger *log.Logger) *Workspace {
	return &Workspace{
		state:     models.WorkspaceState{ActiveChannel: models.ChannelEmail},
		observers: make(map[int]func(models.WorkspaceState)),
		logger:    logging.OrDiscard(logger).With("component", "workspace"),
	}
}

// SelectAndGenerate enters Requesting for sig. Any request still in flight is
// superseded: its completion will be dropped. Re-triggering the selected
// signal is allowed and starts a fresh generation.
func (w *Workspace) SelectAndGenerate(sig models.Signal) Request {
	selected := sig
	w.state.SelectedSignal = &selected
	w.state.Result = nil
	w.state.Err = nil
	w.state.Processing = true

	if w.current != "" {
		w.logger.Debug("superseding in-flight request", "ticket", w.current)
	}
	w.current = Ticket(ulid.Make().String())
	w.logger.Info("generation requested", "ticket", w.current, "signal_id", sig.ID, "company", sig.Company)

	w.notify()
	return Request{
		Ticket:  w.current,
		Signal:  sig,
		Payload: models.NewProcessLeadRequest(sig),
	}
}

// Complete applies c when it belongs to the current request and reports
// whether it was applied. Stale completions are dropped without touching state.
func (w *Workspace) Complete(c Completion) bool {
	if c.Ticket == "" || c.Ticket != w.current {
		w.logger.Debug("dropping stale completion", "ticket", c.Ticket, "current", w.current, "company", c.Signal.Company)
		return false
	}
	w.current = ""
	w.state.Processing = false

	switch {
	case c.Err != nil:
		w.state.Result = nil
		w.state.Err = c.Err
		w.logger.Error("generation failed", "ticket", c.Ticket, "company", c.Signal.Company, "err", c.Err)
	case c.Result == nil:
		// a 2xx with a null body; treat as a failed generation
		w.state.Result = nil
		w.state.Err = ErrEmptyResult
		w.logger.Error("generation returned no result", "ticket", c.Ticket, "company", c.Signal.Company)
	default:
		w.state.Result = c.Result
		w.state.Err = nil
		w.logger.Info("generation committed", "ticket", c.Ticket, "company", c.Signal.Company, "score", c.Result.Score)
	}

	w.notify()
	return true
}

// SetActiveChannel changes which asset is projected. It never touches
// processing or result.
func (w *Workspace) SetActiveChannel(ch models.Channel) {
	if w.state.ActiveChannel == ch {
		return
	}
	w.state.ActiveChannel = ch
	w.notify()
}

// CopyActiveDraft copies the active draft to cb. It is a no-op when there is
// no result or the draft is empty. Clipboard failures are logged and swallowed.
// The return value reports whether text reached the clipboard.
func (w *Workspace) CopyActiveDraft(cb Clipboard) bool {
	text, ok := w.activeDraft()
	if !ok || cb == nil {
		return false
	}
	if err := cb.WriteAll(text); err != nil {
		w.logger.Warn("clipboard write failed", "channel", w.state.ActiveChannel, "err", err)
		return false
	}
	return true
}

func (w *Workspace) activeDraft() (string, bool) {
	if w.state.Result == nil {
		return "", false
	}
	text := w.state.Result.Assets.Draft(w.state.ActiveChannel)
	return text, text != ""
}

// State returns a snapshot. The result pointer is shared and must be treated as read-only.
func (w *Workspace) State() models.WorkspaceState {
	s := w.state
	if s.SelectedSignal != nil {
		sig := *s.SelectedSignal
		s.SelectedSignal = &sig
	}
	return s
}

// Pending returns the ticket of the request awaiting completion.
func (w *Workspace) Pending() (Ticket, bool) {
	return w.current, w.current != ""
}

// Subscribe registers fn to run after every state change. The returned func unregisters it.
func (w *Workspace) Subscribe(fn func(models.WorkspaceState)) func() {
	id := w.nextObs
	w.nextObs++
	w.observers[id] = fn
	return func() { delete(w.observers, id) }
}

func (w *Workspace) notify() {
	if len(w.observers) == 0 {
		return
	}
	snapshot := w.State()
	for _, fn := range w.observers {
		fn(snapshot)
	}
}

// Run performs the network call for req. It blocks, touches no workspace
// state, and is meant to run off the event loop (a tea.Cmd or goroutine).
func Run(ctx context.Context, gen Generator, req Request) Completion {
	res, err := gen.ProcessLead(ctx, req.Payload)
	return Completion{Ticket: req.Ticket, Signal: req.Signal, Result: res, Err: err}
}

// Generate is the synchronous path for one-shot callers: select, call, commit.
func (w *Workspace) Generate(ctx context.Context, gen Generator, sig models.Signal) (models.WorkspaceState, error) {
	req := w.SelectAndGenerate(sig)
	w.Complete(Run(ctx, gen, req))
	state := w.State()
	return state, state.Err
}
