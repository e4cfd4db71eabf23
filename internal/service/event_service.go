package service

import (
	"fmt"

	"camperplus/internal/database"
	"camperplus/internal/models"
	"camperplus/internal/repository"
)

// EventService handles calendar event CRUD. Every mutation runs inside
// an explicit transaction so each operation fully succeeds or leaves no
// partial write behind.
type EventService struct {
	db        *database.DB
	eventRepo *repository.EventRepository
	groupRepo *repository.GroupRepository
}

// NewEventService creates a new event service
func NewEventService(db *database.DB, eventRepo *repository.EventRepository, groupRepo *repository.GroupRepository) *EventService {
	return &EventService{
		db:        db,
		eventRepo: eventRepo,
		groupRepo: groupRepo,
	}
}

// CreateEvent parses a calendar payload, persists the event and returns
// it with the group's color attached. Parse failures surface as
// models.ErrMalformedTimestamp / models.ErrInvalidReference.
func (s *EventService) CreateEvent(payload models.CalendarEvent) (*models.CampEvent, error) {
	event, err := payload.ToCampEvent()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group, err := repository.NewGroupRepository(tx).GetGroupByID(event.GroupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrNotFound
	}

	created, err := repository.NewEventRepository(tx).CreateEvent(event)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event create: %w", err)
	}

	created.AttachColor(group)
	return created, nil
}

// UpdateEvent overwrites an existing event from a calendar payload.
// All four fields are required; there is no partial-field update.
func (s *EventService) UpdateEvent(payload models.CalendarEvent) error {
	event, err := payload.ToCampEvent()
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group, err := repository.NewGroupRepository(tx).GetGroupByID(event.GroupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrNotFound
	}

	// mysql reports zero rows affected for a no-op update, so existence
	// is checked explicitly instead of through RowsAffected.
	events := repository.NewEventRepository(tx)
	existing, err := events.GetEventByID(event.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	if _, err := events.UpdateEvent(event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event update: %w", err)
	}
	return nil
}

// DeleteEvent removes an event by id. Once the row is gone, repeated
// deletes of the same id fail with ErrNotFound.
func (s *EventService) DeleteEvent(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleted, err := repository.NewEventRepository(tx).DeleteEvent(id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event delete: %w", err)
	}
	return nil
}

// ListEvents returns every event with its color projection attached.
// The calendar widget supplies a date range, but all events are
// returned regardless; the range is accepted for interface parity only.
func (s *EventService) ListEvents(rangeStart, rangeEnd string) ([]models.CampEvent, error) {
	_ = rangeStart
	_ = rangeEnd

	events, err := s.eventRepo.GetAllEvents()
	if err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.GetAllGroups()
	if err != nil {
		return nil, err
	}
	colors := make(map[int64]*models.CampGroup, len(groups))
	for i := range groups {
		colors[groups[i].ID] = &groups[i]
	}

	for i := range events {
		events[i].AttachColor(colors[events[i].GroupID])
	}

	return events, nil
}
