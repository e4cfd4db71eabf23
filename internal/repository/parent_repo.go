package repository

import (
	"database/sql"
	"fmt"
	"time"

	"camperplus/internal/database"
	"camperplus/internal/models"
)

// ParentRepository handles database operations for parent records
type ParentRepository struct {
	db database.DBTX
}

// NewParentRepository creates a new parent repository
func NewParentRepository(db database.DBTX) *ParentRepository {
	return &ParentRepository{db: db}
}

const parentColumns = `id, first_name, last_name, birth_date, gender, email, phone,
		street_address, city, state, zip_code, created_at, updated_at`

// CreateParent inserts a new parent record
func (r *ParentRepository) CreateParent(p *models.Parent) (*models.Parent, error) {
	query := `
		INSERT INTO parents (first_name, last_name, birth_date, gender, email, phone,
			street_address, city, state, zip_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Email, p.Phone,
		p.StreetAddress, p.City, p.State, p.ZipCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parent: %w", err)
	}

	created := *p
	created.ID = id
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	return &created, nil
}

// GetParentByID retrieves a parent by ID
func (r *ParentRepository) GetParentByID(id int64) (*models.Parent, error) {
	query := "SELECT " + parentColumns + " FROM parents WHERE id = ?"
	return scanParent(r.db.QueryRow(query, id))
}

// GetAllParents retrieves all parents ordered by last name
func (r *ParentRepository) GetAllParents() ([]models.Parent, error) {
	query := "SELECT " + parentColumns + " FROM parents ORDER BY last_name, first_name"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query parents: %w", err)
	}
	defer rows.Close()

	var parents []models.Parent
	for rows.Next() {
		var p models.Parent
		if err := rows.Scan(
			&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender, &p.Email, &p.Phone,
			&p.StreetAddress, &p.City, &p.State, &p.ZipCode, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan parent: %w", err)
		}
		parents = append(parents, p)
	}

	return parents, rows.Err()
}

// DeleteParent removes a parent record. Returns the number of rows
// deleted so callers can distinguish a missing record.
func (r *ParentRepository) DeleteParent(id int64) (int64, error) {
	query := "DELETE FROM parents WHERE id = ?"
	result, err := r.db.Exec(query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete parent: %w", err)
	}
	return result.RowsAffected()
}

func scanParent(row *sql.Row) (*models.Parent, error) {
	p := &models.Parent{}
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender, &p.Email, &p.Phone,
		&p.StreetAddress, &p.City, &p.State, &p.ZipCode, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parent: %w", err)
	}
	return p, nil
}
