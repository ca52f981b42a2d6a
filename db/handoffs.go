// ABOUTME: Handoff ledger operations
// ABOUTME: Records a generated lead (company, decision makers, routing) in one transaction
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/autoreach/models"
)

var ErrHandoffNotFound = errors.New("handoff not found")

// RecordHandoff stores the company, upserts every decision maker that has an
// email, and writes the handoff row. Nothing is written if any step fails.
func RecordHandoff(db *sql.DB, signal models.Signal, result *models.GenerationResult) (*models.Handoff, error) {
	if result == nil {
		return nil, fmt.Errorf("no generation result to hand off")
	}
	if strings.TrimSpace(signal.Company) == "" {
		return nil, fmt.Errorf("signal %d has no company", signal.ID)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin handoff: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	company, err := EnsureCompany(tx, signal.Company)
	if err != nil {
		return nil, fmt.Errorf("failed to store company: %w", err)
	}

	stored := 0
	for _, contact := range result.Research.DecisionMakers {
		if strings.TrimSpace(contact.Email) == "" {
			continue
		}
		if err := UpsertContact(tx, contact, company.ID); err != nil {
			return nil, fmt.Errorf("failed to store contact %s: %w", contact.Email, err)
		}
		stored++
	}

	handoff := &models.Handoff{
		ID:           uuid.New(),
		RunID:        result.RunID,
		CompanyID:    company.ID,
		CompanyName:  company.Name,
		Signal:       signal.Signal,
		Score:        result.Score,
		Owner:        result.Routing.RecommendedOwner,
		Priority:     result.Routing.Priority,
		CRMTarget:    result.Routing.CRMTarget,
		Notes:        result.Routing.Notes,
		ContactCount: stored,
		CreatedAt:    time.Now(),
	}

	_, err = tx.Exec(`
		INSERT INTO handoffs (id, run_id, company_id, signal, score, owner, priority, crm_target, notes, contact_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, handoff.ID.String(), handoff.RunID, handoff.CompanyID.String(), handoff.Signal, handoff.Score,
		handoff.Owner, handoff.Priority, handoff.CRMTarget, handoff.Notes, handoff.ContactCount, handoff.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to store handoff: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit handoff: %w", err)
	}
	return handoff, nil
}

const handoffColumns = `
	h.id, COALESCE(h.run_id, ''), h.company_id, c.name, h.signal, h.score,
	COALESCE(h.owner, ''), COALESCE(h.priority, ''), COALESCE(h.crm_target, ''),
	COALESCE(h.notes, ''), h.contact_count, h.created_at`

func scanHandoff(row interface{ Scan(...interface{}) error }) (*models.Handoff, error) {
	var h models.Handoff
	err := row.Scan(
		&h.ID,
		&h.RunID,
		&h.CompanyID,
		&h.CompanyName,
		&h.Signal,
		&h.Score,
		&h.Owner,
		&h.Priority,
		&h.CRMTarget,
		&h.Notes,
		&h.ContactCount,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetHandoff fetches one handoff by id.
func GetHandoff(db querier, id uuid.UUID) (*models.Handoff, error) {
	h, err := scanHandoff(db.QueryRow(`
		SELECT`+handoffColumns+`
		FROM handoffs h JOIN companies c ON c.id = h.company_id
		WHERE h.id = ?
	`, id.String()))
	if err == sql.ErrNoRows {
		return nil, ErrHandoffNotFound
	}
	return h, err
}

// GetHandoffDetail fetches a handoff with its company and every contact
// stored for that company, including those added by later handoffs.
func GetHandoffDetail(db querier, id uuid.UUID) (*models.HandoffDetail, error) {
	h, err := GetHandoff(db, id)
	if err != nil {
		return nil, err
	}

	company, err := GetCompany(db, h.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	contacts, err := FindContactsByCompany(db, h.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}

	return &models.HandoffDetail{Handoff: *h, Company: company, Contacts: contacts}, nil
}

// ListHandoffs returns the newest handoffs first.
func ListHandoffs(db querier, limit int) ([]models.Handoff, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT`+handoffColumns+`
		FROM handoffs h JOIN companies c ON c.id = h.company_id
		ORDER BY h.created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var handoffs []models.Handoff
	for rows.Next() {
		h, err := scanHandoff(rows)
		if err != nil {
			return nil, err
		}
		handoffs = append(handoffs, *h)
	}

	return handoffs, rows.Err()
}
