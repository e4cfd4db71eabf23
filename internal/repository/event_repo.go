package repository

import (
	"database/sql"
	"fmt"
	"time"

	"camperplus/internal/database"
	"camperplus/internal/models"
)

// EventRepository handles database operations for camp events
type EventRepository struct {
	db database.DBTX
}

// NewEventRepository creates a new event repository. Passing a *database.Tx
// scopes every call to that transaction.
func NewEventRepository(db database.DBTX) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = "id, title, start_time, end_time, group_id, created_at, updated_at"

// CreateEvent inserts a new camp event
func (r *EventRepository) CreateEvent(e *models.CampEvent) (*models.CampEvent, error) {
	query := `
		INSERT INTO campevents (title, start_time, end_time, group_id)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, e.Title, e.Start, e.End, e.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	created := *e
	created.ID = id
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	return &created, nil
}

// GetEventByID retrieves an event by ID
func (r *EventRepository) GetEventByID(id int64) (*models.CampEvent, error) {
	query := "SELECT " + eventColumns + " FROM campevents WHERE id = ?"
	e := &models.CampEvent{}
	err := r.db.QueryRow(query, id).Scan(
		&e.ID, &e.Title, &e.Start, &e.End, &e.GroupID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// GetAllEvents retrieves all events ordered by start time
func (r *EventRepository) GetAllEvents() ([]models.CampEvent, error) {
	query := "SELECT " + eventColumns + " FROM campevents ORDER BY start_time"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.CampEvent
	for rows.Next() {
		var e models.CampEvent
		if err := rows.Scan(&e.ID, &e.Title, &e.Start, &e.End, &e.GroupID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// UpdateEvent overwrites title, times and group reference in place.
// Returns the number of rows updated.
func (r *EventRepository) UpdateEvent(e *models.CampEvent) (int64, error) {
	query := `
		UPDATE campevents
		SET title = ?, start_time = ?, end_time = ?, group_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query, e.Title, e.Start, e.End, e.GroupID, e.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update event: %w", err)
	}
	return result.RowsAffected()
}

// DeleteEvent removes an event record. Returns the number of rows deleted.
func (r *EventRepository) DeleteEvent(id int64) (int64, error) {
	query := "DELETE FROM campevents WHERE id = ?"
	result, err := r.db.Exec(query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete event: %w", err)
	}
	return result.RowsAffected()
}
