// ABOUTME: Derived view projection of the workspace state
// ABOUTME: Pure mapping from WorkspaceState to presentable fields (draft, score tier, lists)
package workspace

import (
	"fmt"

	"github.com/harperreed/autoreach/models"
)

// DraftPlaceholder is shown when the active channel has no draft.
const DraftPlaceholder = "No draft available for this channel."

// ScoreSuccessThreshold is exclusive: a score must exceed it to reach the success tier.
const ScoreSuccessThreshold = 70

type Tier string

const (
	TierSuccess Tier = "success"
	TierWarning Tier = "warning"
)

// TierFor classifies a lead score.
func TierFor(score int) Tier {
	if score > ScoreSuccessThreshold {
		return TierSuccess
	}
	return TierWarning
}

type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusResolved   Status = "resolved"
	StatusFailed     Status = "failed"
)

// View is everything a presenter needs; lists are never nil.
type View struct {
	Status     Status
	StatusLine string

	SignalID int
	Company  string
	Signal   string

	HasResult      bool
	Score          int
	ScoreTier      Tier
	IntentLevel    string
	NextBestAction string
	Reasons        []string

	Summary        string
	PainPoints     []string
	Opportunities  []string
	DecisionMakers []models.Contact

	ActiveChannel  models.Channel
	ActiveDraft    string
	DraftAvailable bool

	Owner     string
	Priority  string
	CRMTarget string
	Notes     string
	RunID     string

	Logs  []string
	Error string
}

// Project derives the view. It never reads data from a previous lead: with no
// result every result-derived field is empty and the draft is the placeholder.
func Project(s models.WorkspaceState) View {
	v := View{
		ActiveChannel:  s.ActiveChannel,
		ActiveDraft:    DraftPlaceholder,
		Reasons:        []string{},
		PainPoints:     []string{},
		Opportunities:  []string{},
		DecisionMakers: []models.Contact{},
		Logs:           []string{},
	}
	if v.ActiveChannel == "" {
		v.ActiveChannel = models.ChannelEmail
	}

	if s.SelectedSignal != nil {
		v.SignalID = s.SelectedSignal.ID
		v.Company = s.SelectedSignal.Company
		v.Signal = s.SelectedSignal.Signal
	}

	switch {
	case s.Processing:
		v.Status = StatusProcessing
		v.StatusLine = fmt.Sprintf("Running analysis on %s...", v.Company)
	case s.Result != nil:
		v.Status = StatusResolved
	case s.Err != nil:
		v.Status = StatusFailed
		v.Error = s.Err.Error()
		v.StatusLine = fmt.Sprintf("Generation failed for %s", v.Company)
	default:
		v.Status = StatusIdle
		v.StatusLine = "Select a lead to initialize workspace"
	}

	if s.Result == nil || s.Processing {
		return v
	}

	r := s.Result
	v.HasResult = true
	v.Score = r.Score
	v.ScoreTier = TierFor(r.Score)
	v.IntentLevel = r.Scorecard.IntentLevel
	v.NextBestAction = r.Scorecard.NextBestAction
	v.Reasons = orEmpty(r.Scorecard.Reasons)

	v.Summary = r.Research.Summary
	v.PainPoints = orEmpty(r.Research.PainPoints)
	v.Opportunities = orEmpty(r.Research.Opportunities)
	if r.Research.DecisionMakers != nil {
		v.DecisionMakers = r.Research.DecisionMakers
	}

	if draft := r.Assets.Draft(v.ActiveChannel); draft != "" {
		v.ActiveDraft = draft
		v.DraftAvailable = true
	}

	v.Owner = r.Routing.RecommendedOwner
	v.Priority = r.Routing.Priority
	v.CRMTarget = r.Routing.CRMTarget
	v.Notes = r.Routing.Notes
	v.RunID = r.RunID
	v.Logs = orEmpty(r.Logs)
	return v
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
