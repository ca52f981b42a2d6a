// ABOUTME: Tests for the handoff ledger
// ABOUTME: Covers company find-or-create, contact upsert by email, and listing order
package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/autoreach/models"
)

func sampleResult() *models.GenerationResult {
	return &models.GenerationResult{
		RunID: "Acme-1700000000",
		Score: 82,
		Research: models.Research{
			DecisionMakers: []models.Contact{
				{Name: "Jane Roe", Title: "VP of Sales", Email: "jane@acme.com"},
				{Name: "No Email", Title: "Intern"},
				{Name: "Sam Poe", Title: "Head of Demand Gen", Email: "sam@acme.com"},
			},
		},
		Routing: models.Routing{RecommendedOwner: "Jane", Priority: "High", CRMTarget: "Salesforce", Notes: "hot"},
	}
}

func TestRecordHandoff(t *testing.T) {
	database := setupTestDB(t)
	sig := models.Signal{ID: 1, Company: "Acme", Signal: "visited pricing page"}

	h, err := RecordHandoff(database, sig, sampleResult())
	require.NoError(t, err)

	assert.Equal(t, "Acme", h.CompanyName)
	assert.Equal(t, 82, h.Score)
	assert.Equal(t, 2, h.ContactCount, "contacts without email are skipped")
	assert.Equal(t, "Salesforce", h.CRMTarget)

	got, err := GetHandoff(database, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.RunID, got.RunID)
	assert.Equal(t, "hot", got.Notes)

	contacts, err := FindContactsByCompany(database, h.CompanyID)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "jane@acme.com", contacts[0].Email)
}

func TestRecordHandoff_ReusesCompanyAndUpsertsContacts(t *testing.T) {
	database := setupTestDB(t)
	sig := models.Signal{ID: 1, Company: "Acme", Signal: "visited pricing page"}

	first, err := RecordHandoff(database, sig, sampleResult())
	require.NoError(t, err)

	again := sampleResult()
	again.Research.DecisionMakers = []models.Contact{
		{Name: "Jane Roe", Title: "CRO", Email: "JANE@acme.com"},
	}
	sig.Company = "acme"
	second, err := RecordHandoff(database, sig, again)
	require.NoError(t, err)

	assert.Equal(t, first.CompanyID, second.CompanyID, "company matched case-insensitively")

	contacts, err := FindContactsByCompany(database, first.CompanyID)
	require.NoError(t, err)
	require.Len(t, contacts, 2, "email is the unique key")
	assert.Equal(t, "CRO", contacts[0].Title)

	handoffs, err := ListHandoffs(database, 10)
	require.NoError(t, err)
	require.Len(t, handoffs, 2)
	assert.Equal(t, second.ID, handoffs[0].ID, "newest first")
}

func TestRecordHandoff_Validation(t *testing.T) {
	database := setupTestDB(t)

	_, err := RecordHandoff(database, models.Signal{Company: "Acme"}, nil)
	assert.Error(t, err)

	_, err = RecordHandoff(database, models.Signal{ID: 4}, sampleResult())
	assert.Error(t, err)

	handoffs, err := ListHandoffs(database, 0)
	require.NoError(t, err)
	assert.Empty(t, handoffs)
}

func TestGetHandoff_NotFound(t *testing.T) {
	database := setupTestDB(t)

	_, err := GetHandoff(database, uuid.New())
	assert.ErrorIs(t, err, ErrHandoffNotFound)
}

func TestGetHandoffDetail(t *testing.T) {
	database := setupTestDB(t)
	sig := models.Signal{ID: 1, Company: "Acme", Signal: "visited pricing page"}

	first, err := RecordHandoff(database, sig, sampleResult())
	require.NoError(t, err)

	later := sampleResult()
	later.Research.DecisionMakers = []models.Contact{{Name: "Lee Ray", Title: "CFO", Email: "lee@acme.com"}}
	_, err = RecordHandoff(database, sig, later)
	require.NoError(t, err)

	detail, err := GetHandoffDetail(database, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, detail.ID)
	assert.Equal(t, 2, detail.ContactCount)
	require.NotNil(t, detail.Company)
	assert.Equal(t, "Acme", detail.Company.Name)
	emails := make([]string, 0, len(detail.Contacts))
	for _, c := range detail.Contacts {
		emails = append(emails, c.Email)
	}
	assert.ElementsMatch(t, []string{"jane@acme.com", "sam@acme.com", "lee@acme.com"}, emails,
		"every contact stored for the company")

	_, err = GetHandoffDetail(database, uuid.New())
	assert.ErrorIs(t, err, ErrHandoffNotFound)
}

func TestGetHandoffDetail_NoContacts(t *testing.T) {
	database := setupTestDB(t)

	h, err := RecordHandoff(database, models.Signal{ID: 2, Company: "Globex", Signal: "s"}, &models.GenerationResult{Score: 40})
	require.NoError(t, err)

	detail, err := GetHandoffDetail(database, h.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Contact{}, detail.Contacts)
}

func TestEnsureCompany(t *testing.T) {
	database := setupTestDB(t)

	a, err := EnsureCompany(database, "  Globex ")
	require.NoError(t, err)
	assert.Equal(t, "Globex", a.Name)

	b, err := EnsureCompany(database, "GLOBEX")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	got, err := GetCompany(database, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Globex", got.Name)

	missing, err := GetCompany(database, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
