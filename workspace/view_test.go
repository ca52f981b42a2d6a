// ABOUTME: Tests for the derived view projection
// ABOUTME: Covers score tier boundary, draft placeholder, list ordering, and empty subtrees
package workspace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harperreed/autoreach/models"
)

func TestTierFor_Boundary(t *testing.T) {
	assert.Equal(t, TierSuccess, TierFor(71))
	assert.Equal(t, TierWarning, TierFor(70))
	assert.Equal(t, TierWarning, TierFor(0))
	assert.Equal(t, TierSuccess, TierFor(100))
}

func TestProject_Idle(t *testing.T) {
	v := Project(models.WorkspaceState{ActiveChannel: models.ChannelEmail})

	assert.Equal(t, StatusIdle, v.Status)
	assert.False(t, v.HasResult)
	assert.Equal(t, DraftPlaceholder, v.ActiveDraft)
	assert.NotNil(t, v.Reasons)
	assert.NotNil(t, v.DecisionMakers)
	assert.Empty(t, v.ScoreTier)
}

func TestProject_Processing(t *testing.T) {
	sig := models.Signal{ID: 3, Company: "Initech"}
	v := Project(models.WorkspaceState{SelectedSignal: &sig, Processing: true, ActiveChannel: models.ChannelEmail})

	assert.Equal(t, StatusProcessing, v.Status)
	assert.Equal(t, "Running analysis on Initech...", v.StatusLine)
	assert.Equal(t, 3, v.SignalID)
	assert.Empty(t, v.Logs)
}

func TestProject_Failed(t *testing.T) {
	sig := models.Signal{ID: 3, Company: "Initech"}
	v := Project(models.WorkspaceState{SelectedSignal: &sig, Err: errors.New("bad gateway")})

	assert.Equal(t, StatusFailed, v.Status)
	assert.Equal(t, "bad gateway", v.Error)
	assert.Equal(t, models.ChannelEmail, v.ActiveChannel, "zero channel defaults to email")
}

func TestProject_PreservesListOrder(t *testing.T) {
	res := &models.GenerationResult{
		Score:     71,
		Scorecard: models.Scorecard{Reasons: []string{"z", "a", "z"}},
		Research: models.Research{
			PainPoints:    []string{"second", "first"},
			Opportunities: []string{"b", "a"},
			DecisionMakers: []models.Contact{
				{Name: "Zed", Email: "zed@acme.com"},
				{Name: "Amy", Email: "amy@acme.com"},
			},
		},
		Logs: []string{"step 2", "step 1"},
	}
	v := Project(models.WorkspaceState{Result: res, ActiveChannel: models.ChannelEmail})

	assert.Equal(t, StatusResolved, v.Status)
	assert.Equal(t, TierSuccess, v.ScoreTier)
	assert.Equal(t, []string{"z", "a", "z"}, v.Reasons, "no sorting or dedup")
	assert.Equal(t, []string{"second", "first"}, v.PainPoints)
	assert.Equal(t, []string{"b", "a"}, v.Opportunities)
	assert.Equal(t, "Zed", v.DecisionMakers[0].Name)
	assert.Equal(t, []string{"step 2", "step 1"}, v.Logs)
}

func TestProject_MissingSubtreesAreEmpty(t *testing.T) {
	v := Project(models.WorkspaceState{Result: &models.GenerationResult{Score: 50}, ActiveChannel: models.ChannelCall})

	assert.True(t, v.HasResult)
	assert.Equal(t, TierWarning, v.ScoreTier)
	assert.Equal(t, []string{}, v.Reasons)
	assert.Equal(t, []string{}, v.PainPoints)
	assert.Equal(t, []string{}, v.Opportunities)
	assert.Equal(t, []models.Contact{}, v.DecisionMakers)
	assert.Equal(t, []string{}, v.Logs)
	assert.Equal(t, DraftPlaceholder, v.ActiveDraft)
}

func TestProject_ActiveDraftPerChannel(t *testing.T) {
	res := &models.GenerationResult{
		Assets:  models.Assets{Email: "email body", LinkedIn: "dm body", CallScript: "script"},
		Routing: models.Routing{RecommendedOwner: "Jane", Priority: "High", CRMTarget: "HubSpot", Notes: "warm"},
	}

	for ch, want := range map[models.Channel]string{
		models.ChannelEmail:    "email body",
		models.ChannelLinkedIn: "dm body",
		models.ChannelCall:     "script",
	} {
		v := Project(models.WorkspaceState{Result: res, ActiveChannel: ch})
		assert.Equal(t, want, v.ActiveDraft, ch)
		assert.True(t, v.DraftAvailable, ch)
		assert.Equal(t, "Jane", v.Owner)
		assert.Equal(t, "warm", v.Notes)
	}
}
