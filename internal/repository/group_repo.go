package repository

import (
	"database/sql"
	"fmt"
	"time"

	"camperplus/internal/database"
	"camperplus/internal/models"
)

// GroupRepository handles database operations for camp groups
type GroupRepository struct {
	db database.DBTX
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db database.DBTX) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup inserts a new camp group
func (r *GroupRepository) CreateGroup(name, color string) (*models.CampGroup, error) {
	query := "INSERT INTO campgroups (name, color) VALUES (?, ?)"
	id, err := r.db.ExecReturningID(query, name, color)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return &models.CampGroup{
		ID:        id,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// GetGroupByID retrieves a group by ID
func (r *GroupRepository) GetGroupByID(id int64) (*models.CampGroup, error) {
	query := "SELECT id, name, color, created_at, updated_at FROM campgroups WHERE id = ?"
	return scanGroup(r.db.QueryRow(query, id))
}

// GetGroupByName retrieves a group by its (lowercase) name
func (r *GroupRepository) GetGroupByName(name string) (*models.CampGroup, error) {
	query := "SELECT id, name, color, created_at, updated_at FROM campgroups WHERE name = ?"
	return scanGroup(r.db.QueryRow(query, name))
}

// GetAllGroups retrieves all groups ordered by name
func (r *GroupRepository) GetAllGroups() ([]models.CampGroup, error) {
	query := "SELECT id, name, color, created_at, updated_at FROM campgroups ORDER BY name"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []models.CampGroup
	for rows.Next() {
		var g models.CampGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Color, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// CountReferences returns how many campers and events still reference
// the group, used by the deletion guard
func (r *GroupRepository) CountReferences(groupID int64) (campers, events int, err error) {
	if err = r.db.QueryRow("SELECT COUNT(*) FROM campers WHERE group_id = ?", groupID).Scan(&campers); err != nil {
		return 0, 0, fmt.Errorf("failed to count group campers: %w", err)
	}
	if err = r.db.QueryRow("SELECT COUNT(*) FROM campevents WHERE group_id = ?", groupID).Scan(&events); err != nil {
		return 0, 0, fmt.Errorf("failed to count group events: %w", err)
	}
	return campers, events, nil
}

// DeleteGroup removes a group record
func (r *GroupRepository) DeleteGroup(id int64) (int64, error) {
	query := "DELETE FROM campgroups WHERE id = ?"
	result, err := r.db.Exec(query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group: %w", err)
	}
	return result.RowsAffected()
}

func scanGroup(row *sql.Row) (*models.CampGroup, error) {
	g := &models.CampGroup{}
	err := row.Scan(&g.ID, &g.Name, &g.Color, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}
