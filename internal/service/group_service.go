package service

import (
	"fmt"
	"log"

	"camperplus/internal/models"
	"camperplus/internal/repository"
	"camperplus/internal/validation"
)

// GroupService handles camp group business logic, including the
// reserved default group
type GroupService struct {
	groupRepo *repository.GroupRepository
}

// NewGroupService creates a new group service
func NewGroupService(groupRepo *repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// EnsureDefaultGroup creates the reserved fallback group if it is
// missing and returns it. Called once at startup and before any
// operation that needs the fallback id.
func (s *GroupService) EnsureDefaultGroup() (*models.CampGroup, error) {
	group, err := s.groupRepo.GetGroupByName(models.DefaultGroupName)
	if err != nil {
		return nil, err
	}
	if group != nil {
		return group, nil
	}

	group, err = s.groupRepo.CreateGroup(models.DefaultGroupName, models.DefaultGroupColor)
	if err != nil {
		return nil, err
	}
	log.Printf("Created default group %q (id %d)", group.Name, group.ID)
	return group, nil
}

// CreateGroup creates a new named, color-tagged group
func (s *GroupService) CreateGroup(name, color string) (*models.CampGroup, error) {
	name = validation.Normalize(name)
	if err := validation.ValidateName("group name", name); err != nil {
		return nil, err
	}
	if color == "" {
		return nil, validation.ValidationError{Field: "color", Message: "color is required"}
	}

	return s.groupRepo.CreateGroup(name, color)
}

// GetGroup retrieves a group by id, ErrNotFound when absent
func (s *GroupService) GetGroup(id int64) (*models.CampGroup, error) {
	group, err := s.groupRepo.GetGroupByID(id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrNotFound
	}
	return group, nil
}

// GetAllGroups lists all groups ordered by name
func (s *GroupService) GetAllGroups() ([]models.CampGroup, error) {
	return s.groupRepo.GetAllGroups()
}

// DeleteGroup removes a group. The reserved default group and any group
// still referenced by campers or events cannot be deleted.
func (s *GroupService) DeleteGroup(id int64) error {
	group, err := s.groupRepo.GetGroupByID(id)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrNotFound
	}
	if group.IsDefault() {
		return fmt.Errorf("%w: cannot delete default group", ErrConstraintViolation)
	}

	campers, events, err := s.groupRepo.CountReferences(id)
	if err != nil {
		return err
	}
	if campers > 0 || events > 0 {
		return fmt.Errorf("%w: group still referenced by %d campers and %d events", ErrConstraintViolation, campers, events)
	}

	deleted, err := s.groupRepo.DeleteGroup(id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
