package repository

import (
	"database/sql"
	"fmt"
	"time"

	"camperplus/internal/database"
	"camperplus/internal/models"
)

// CamperRepository handles database operations for camper records
type CamperRepository struct {
	db database.DBTX
}

// NewCamperRepository creates a new camper repository
func NewCamperRepository(db database.DBTX) *CamperRepository {
	return &CamperRepository{db: db}
}

const camperColumns = `id, first_name, last_name, birth_date, grade, gender, medical_notes, phone,
		street_address, city, state, zip_code, is_active,
		other_parent_name, other_parent_birth_date, other_parent_email, other_parent_phone,
		group_id, parent_id, created_at, updated_at`

// CreateCamper inserts a new camper record
func (r *CamperRepository) CreateCamper(c *models.Camper) (*models.Camper, error) {
	query := `
		INSERT INTO campers (first_name, last_name, birth_date, grade, gender, medical_notes, phone,
			street_address, city, state, zip_code, is_active,
			other_parent_name, other_parent_birth_date, other_parent_email, other_parent_phone,
			group_id, parent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		c.FirstName, c.LastName, c.BirthDate, c.Grade, c.Gender, c.MedicalNotes, c.Phone,
		c.StreetAddress, c.City, c.State, c.ZipCode, c.IsActive,
		c.OtherParentName, c.OtherParentBirthDate, c.OtherParentEmail, c.OtherParentPhone,
		c.GroupID, c.ParentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create camper: %w", err)
	}

	created := *c
	created.ID = id
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	return &created, nil
}

// GetCamperByID retrieves a camper by ID
func (r *CamperRepository) GetCamperByID(id int64) (*models.Camper, error) {
	query := "SELECT " + camperColumns + " FROM campers WHERE id = ?"
	row := r.db.QueryRow(query, id)

	c, err := scanCamperRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get camper: %w", err)
	}
	return c, nil
}

// GetAllCampers retrieves all campers ordered by last name
func (r *CamperRepository) GetAllCampers() ([]models.Camper, error) {
	query := "SELECT " + camperColumns + " FROM campers ORDER BY last_name, first_name"
	return r.queryCampers(query)
}

// GetCampersByParent retrieves a parent's campers
func (r *CamperRepository) GetCampersByParent(parentID int64) ([]models.Camper, error) {
	query := "SELECT " + camperColumns + " FROM campers WHERE parent_id = ? ORDER BY last_name, first_name"
	return r.queryCampers(query, parentID)
}

// CountCampersByParent returns how many campers a parent owns
func (r *CamperRepository) CountCampersByParent(parentID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM campers WHERE parent_id = ?"
	if err := r.db.QueryRow(query, parentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count campers: %w", err)
	}
	return count, nil
}

// UpdateEnrollment sets the camper's active flag
func (r *CamperRepository) UpdateEnrollment(id int64, isActive bool) (int64, error) {
	query := "UPDATE campers SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	result, err := r.db.Exec(query, isActive, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update enrollment: %w", err)
	}
	return result.RowsAffected()
}

// UpdateGroup reassigns the camper to another group
func (r *CamperRepository) UpdateGroup(id, groupID int64) (int64, error) {
	query := "UPDATE campers SET group_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	result, err := r.db.Exec(query, groupID, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update group: %w", err)
	}
	return result.RowsAffected()
}

// DeleteCamper removes a camper record
func (r *CamperRepository) DeleteCamper(id int64) (int64, error) {
	query := "DELETE FROM campers WHERE id = ?"
	result, err := r.db.Exec(query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete camper: %w", err)
	}
	return result.RowsAffected()
}

func (r *CamperRepository) queryCampers(query string, args ...interface{}) ([]models.Camper, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query campers: %w", err)
	}
	defer rows.Close()

	var campers []models.Camper
	for rows.Next() {
		c, err := scanCamperRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan camper: %w", err)
		}
		campers = append(campers, *c)
	}

	return campers, rows.Err()
}

// scanCamperRow scans a camper from either a *sql.Row or *sql.Rows scan func
func scanCamperRow(scan func(...interface{}) error) (*models.Camper, error) {
	c := &models.Camper{}
	var otherBirth sql.NullTime

	err := scan(
		&c.ID, &c.FirstName, &c.LastName, &c.BirthDate, &c.Grade, &c.Gender, &c.MedicalNotes, &c.Phone,
		&c.StreetAddress, &c.City, &c.State, &c.ZipCode, &c.IsActive,
		&c.OtherParentName, &otherBirth, &c.OtherParentEmail, &c.OtherParentPhone,
		&c.GroupID, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if otherBirth.Valid {
		c.OtherParentBirthDate = &otherBirth.Time
	}
	return c, nil
}
