// ABOUTME: Data models for signals, generation results and CRM handoffs
// ABOUTME: Defines Signal, GenerationResult, Channel, and the local ledger structs
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Signal is an inbound event suggesting a company may be a sales lead.
type Signal struct {
	ID             int    `json:"id"`
	Company        string `json:"company"`
	Signal         string `json:"signal"`
	Time           string `json:"time"`
	Category       string `json:"category,omitempty"`
	IntentStrength string `json:"intent_strength,omitempty"`
	NextStep       string `json:"next_step,omitempty"`
}

// ProcessLeadRequest is the body of POST /process-lead.
type ProcessLeadRequest struct {
	Company string `json:"company"`
	Signal  string `json:"signal"`
}

// NewProcessLeadRequest copies the company and signal text of s.
func NewProcessLeadRequest(s Signal) ProcessLeadRequest {
	return ProcessLeadRequest{Company: s.Company, Signal: s.Signal}
}

type Scorecard struct {
	IntentLevel    string   `json:"intent_level"`
	NextBestAction string   `json:"next_best_action"`
	Reasons        []string `json:"reasons"`
}

// Contact is a decision maker surfaced by research. Email is the unique key.
type Contact struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email"`
}

type Research struct {
	Summary        string    `json:"summary"`
	PainPoints     []string  `json:"pain_points"`
	Opportunities  []string  `json:"opportunities"`
	DecisionMakers []Contact `json:"decision_makers"`
}

// Assets holds the markdown outreach drafts, one per channel.
type Assets struct {
	Email      string `json:"email"`
	LinkedIn   string `json:"linkedin"`
	CallScript string `json:"call_script"`
}

// Draft returns the draft text for a channel.
func (a Assets) Draft(c Channel) string {
	switch c {
	case ChannelLinkedIn:
		return a.LinkedIn
	case ChannelCall:
		return a.CallScript
	default:
		return a.Email
	}
}

type Routing struct {
	RecommendedOwner string `json:"recommended_owner"`
	Priority         string `json:"priority"`
	CRMTarget        string `json:"crm_target"`
	Notes            string `json:"notes"`
}

// GenerationResult is the outreach package produced for one signal.
// RunID, CreatedAt, Company and Signal are optional metadata some backends echo back.
type GenerationResult struct {
	RunID     string    `json:"run_id,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
	Company   string    `json:"company,omitempty"`
	Signal    string    `json:"signal,omitempty"`
	Score     int       `json:"score"`
	Scorecard Scorecard `json:"scorecard"`
	Research  Research  `json:"research"`
	Assets    Assets    `json:"assets"`
	Routing   Routing   `json:"routing"`
	Logs      []string  `json:"logs"`
}

// Channel selects which asset is the active draft.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelLinkedIn Channel = "linkedin"
	ChannelCall     Channel = "call"
)

// Channels lists every channel in display order.
var Channels = []Channel{ChannelEmail, ChannelLinkedIn, ChannelCall}

// ParseChannel accepts the wire names plus "call_script".
func ParseChannel(s string) (Channel, error) {
	switch s {
	case "email", "":
		return ChannelEmail, nil
	case "linkedin":
		return ChannelLinkedIn, nil
	case "call", "call_script":
		return ChannelCall, nil
	}
	return "", fmt.Errorf("unknown channel %q (expected email, linkedin or call)", s)
}

// Label is the human-facing name of the channel.
func (c Channel) Label() string {
	switch c {
	case ChannelLinkedIn:
		return "LinkedIn"
	case ChannelCall:
		return "Call Script"
	default:
		return "Email"
	}
}

// Next cycles email -> linkedin -> call -> email.
func (c Channel) Next() Channel {
	for i, ch := range Channels {
		if ch == c {
			return Channels[(i+1)%len(Channels)]
		}
	}
	return ChannelEmail
}

// WorkspaceState is the full state of the generation workspace.
type WorkspaceState struct {
	SelectedSignal *Signal
	Processing     bool
	Result         *GenerationResult
	ActiveChannel  Channel
	Err            error
}

// CRMEvent is a routing decision recorded by the backend's CRM sync endpoint.
type CRMEvent struct {
	RunID      string                 `json:"run_id"`
	CRM        string                 `json:"crm"`
	Status     string                 `json:"status"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	ReceivedAt string                 `json:"received_at,omitempty"`
}

// CRMSyncResponse is returned by POST /crm/sync.
type CRMSyncResponse struct {
	OK     bool     `json:"ok"`
	Stored CRMEvent `json:"stored"`
}

// CRM sync status constants.
const (
	CRMStatusQueued = "queued"
	CRMStatusSynced = "synced"
)

type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Handoff records a generated lead passed to the local CRM ledger.
type Handoff struct {
	ID           uuid.UUID `json:"id"`
	RunID        string    `json:"run_id,omitempty"`
	CompanyID    uuid.UUID `json:"company_id"`
	CompanyName  string    `json:"company_name"`
	Signal       string    `json:"signal"`
	Score        int       `json:"score"`
	Owner        string    `json:"owner,omitempty"`
	Priority     string    `json:"priority,omitempty"`
	CRMTarget    string    `json:"crm_target,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ContactCount int       `json:"contact_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// HandoffDetail is a handoff together with its company's stored contacts.
type HandoffDetail struct {
	Handoff
	Company  *Company  `json:"company"`
	Contacts []Contact `json:"contacts"`
}
