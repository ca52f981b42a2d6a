// ABOUTME: Contact database operations
// ABOUTME: Upserts decision makers by email and lists them per company
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/autoreach/models"
)

// UpsertContact inserts a decision maker or refreshes the row with the same email.
func UpsertContact(db querier, contact models.Contact, companyID uuid.UUID) error {
	email := strings.TrimSpace(contact.Email)
	if email == "" {
		return fmt.Errorf("contact %q has no email", contact.Name)
	}
	now := time.Now()

	_, err := db.Exec(`
		INSERT INTO contacts (id, name, title, email, company_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			title = excluded.title,
			company_id = excluded.company_id,
			updated_at = excluded.updated_at
	`, uuid.New().String(), contact.Name, contact.Title, email, companyID.String(), now, now)

	return err
}

// FindContactsByCompany lists contacts for a company, oldest first.
func FindContactsByCompany(db querier, companyID uuid.UUID) ([]models.Contact, error) {
	rows, err := db.Query(`
		SELECT name, title, email
		FROM contacts
		WHERE company_id = ?
		ORDER BY created_at ASC, email ASC
	`, companyID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		var title sql.NullString
		if err := rows.Scan(&c.Name, &title, &c.Email); err != nil {
			return nil, err
		}
		c.Title = title.String
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}
