// ABOUTME: Tests for lead and handoff graph generation
// ABOUTME: Renders DOT output and checks the expected nodes appear
package viz

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/models"
)

func leadFixture() (models.Signal, *models.GenerationResult) {
	sig := models.Signal{ID: 1, Company: "Acme", Signal: "visited pricing page", Time: "09:00"}
	res := &models.GenerationResult{
		Score:     82,
		Scorecard: models.Scorecard{IntentLevel: "High"},
		Research: models.Research{DecisionMakers: []models.Contact{
			{Name: "Jane Roe", Title: "VP of Sales", Email: "jane@acme.com"},
		}},
		Routing: models.Routing{RecommendedOwner: "Jane", Priority: "High", CRMTarget: "Salesforce"},
	}
	return sig, res
}

func TestGenerateLeadGraph(t *testing.T) {
	sig, res := leadFixture()

	dot, err := GenerateLeadGraph(context.Background(), sig, res)
	require.NoError(t, err)

	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "Jane Roe")
	assert.Contains(t, dot, "Salesforce")
	assert.Contains(t, dot, "score 82 (success)")
}

func TestGenerateLeadGraph_NoResult(t *testing.T) {
	sig, _ := leadFixture()

	_, err := GenerateLeadGraph(context.Background(), sig, nil)
	assert.Error(t, err)
}

func TestGenerateHandoffGraph(t *testing.T) {
	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	defer database.Close()
	require.NoError(t, db.InitSchema(database))

	sig, res := leadFixture()
	_, err = db.RecordHandoff(database, sig, res)
	require.NoError(t, err)

	dot, err := NewGraphGenerator(database).GenerateHandoffGraph(context.Background(), 10)
	require.NoError(t, err)
	assert.Contains(t, dot, "Acme")
	assert.Contains(t, dot, "Salesforce")
}
