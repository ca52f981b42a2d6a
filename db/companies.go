// ABOUTME: Company database operations
// ABOUTME: Handles company lookups and find-or-create by name
package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/autoreach/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func CreateCompany(db querier, company *models.Company) error {
	company.ID = uuid.New()
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO companies (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, company.ID.String(), company.Name, company.CreatedAt, company.UpdatedAt)

	return err
}

func GetCompany(db querier, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	err := db.QueryRow(`
		SELECT id, name, created_at, updated_at
		FROM companies WHERE id = ?
	`, id.String()).Scan(
		&company.ID,
		&company.Name,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return company, err
}

func FindCompanyByName(db querier, name string) (*models.Company, error) {
	company := &models.Company{}
	err := db.QueryRow(`
		SELECT id, name, created_at, updated_at
		FROM companies WHERE name = ?
	`, strings.TrimSpace(name)).Scan(
		&company.ID,
		&company.Name,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return company, err
}

// EnsureCompany returns the company with this name, creating it if needed.
func EnsureCompany(db querier, name string) (*models.Company, error) {
	existing, err := FindCompanyByName(db, name)
	if err != nil || existing != nil {
		return existing, err
	}

	company := &models.Company{Name: strings.TrimSpace(name)}
	if err := CreateCompany(db, company); err != nil {
		return nil, err
	}
	return company, nil
}
