package service

import (
	"fmt"

	"camperplus/internal/database"
	"camperplus/internal/models"
	"camperplus/internal/repository"
	"camperplus/internal/validation"
)

// RosterService handles parent and camper records and the links
// between them
type RosterService struct {
	db         *database.DB
	parentRepo *repository.ParentRepository
	camperRepo *repository.CamperRepository
	groupRepo  *repository.GroupRepository
}

// NewRosterService creates a new roster service
func NewRosterService(db *database.DB, parentRepo *repository.ParentRepository, camperRepo *repository.CamperRepository, groupRepo *repository.GroupRepository) *RosterService {
	return &RosterService{
		db:         db,
		parentRepo: parentRepo,
		camperRepo: camperRepo,
		groupRepo:  groupRepo,
	}
}

// CreateParent validates, normalizes and stores a new parent record
func (s *RosterService) CreateParent(p *models.Parent) (*models.Parent, error) {
	normalizeParent(p)

	if err := validation.ValidateName("first name", p.FirstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("last name", p.LastName); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(p.Email); err != nil {
		return nil, err
	}

	return s.parentRepo.CreateParent(p)
}

// GetParent retrieves a parent by id, ErrNotFound when absent
func (s *RosterService) GetParent(id int64) (*models.Parent, error) {
	parent, err := s.parentRepo.GetParentByID(id)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrNotFound
	}
	return parent, nil
}

// GetAllParents lists all parents ordered by last name
func (s *RosterService) GetAllParents() ([]models.Parent, error) {
	return s.parentRepo.GetAllParents()
}

// DeleteParent removes a parent record. A parent with campers on file
// cannot be deleted; the campers must be removed or reassigned first.
// Linked login accounts and invitations cascade with the record.
func (s *RosterService) DeleteParent(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	count, err := repository.NewCamperRepository(tx).CountCampersByParent(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: parent still has %d campers on file", ErrConstraintViolation, count)
	}

	deleted, err := repository.NewParentRepository(tx).DeleteParent(id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit parent delete: %w", err)
	}
	return nil
}

// CreateCamper validates, normalizes and stores a new camper. A camper
// submitted without a street address gets the parent's full address,
// and a zero group id falls back to the default group. The caller
// decides the initial enrollment flag: staff-created campers start
// active, parent registrations start inactive pending approval.
func (s *RosterService) CreateCamper(c *models.Camper) (*models.Camper, error) {
	normalizeCamper(c)

	if err := validation.ValidateName("first name", c.FirstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("last name", c.LastName); err != nil {
		return nil, err
	}

	parent, err := s.parentRepo.GetParentByID(c.ParentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrNotFound
	}

	if c.StreetAddress == "" {
		c.StreetAddress = parent.StreetAddress
		c.City = parent.City
		c.State = parent.State
		c.ZipCode = parent.ZipCode
	}

	if c.GroupID == 0 {
		fallback, err := s.groupRepo.GetGroupByName(models.DefaultGroupName)
		if err != nil {
			return nil, err
		}
		if fallback == nil {
			return nil, fmt.Errorf("default group missing: %w", ErrNotFound)
		}
		c.GroupID = fallback.ID
	} else {
		group, err := s.groupRepo.GetGroupByID(c.GroupID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, ErrNotFound
		}
	}

	return s.camperRepo.CreateCamper(c)
}

// GetCamper retrieves a camper by id, ErrNotFound when absent
func (s *RosterService) GetCamper(id int64) (*models.Camper, error) {
	camper, err := s.camperRepo.GetCamperByID(id)
	if err != nil {
		return nil, err
	}
	if camper == nil {
		return nil, ErrNotFound
	}
	return camper, nil
}

// GetAllCampers lists all campers ordered by last name
func (s *RosterService) GetAllCampers() ([]models.Camper, error) {
	return s.camperRepo.GetAllCampers()
}

// GetCampersByParent lists a parent's campers
func (s *RosterService) GetCampersByParent(parentID int64) ([]models.Camper, error) {
	return s.camperRepo.GetCampersByParent(parentID)
}

// SetCamperEnrollment flips the camper's active flag
func (s *RosterService) SetCamperEnrollment(id int64, active bool) error {
	updated, err := s.camperRepo.UpdateEnrollment(id, active)
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// ReassignCamperGroup moves a camper to another group. The target
// group must exist.
func (s *RosterService) ReassignCamperGroup(camperID, groupID int64) error {
	group, err := s.groupRepo.GetGroupByID(groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrNotFound
	}

	updated, err := s.camperRepo.UpdateGroup(camperID, groupID)
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCamper removes a camper record
func (s *RosterService) DeleteCamper(id int64) error {
	deleted, err := s.camperRepo.DeleteCamper(id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeParent(p *models.Parent) {
	p.FirstName = validation.Normalize(p.FirstName)
	p.LastName = validation.Normalize(p.LastName)
	p.Gender = validation.Normalize(p.Gender)
	p.Email = validation.Normalize(p.Email)
	p.StreetAddress = validation.Normalize(p.StreetAddress)
	p.City = validation.Normalize(p.City)
	p.State = validation.Normalize(p.State)
	p.ZipCode = validation.Normalize(p.ZipCode)
}

func normalizeCamper(c *models.Camper) {
	c.FirstName = validation.Normalize(c.FirstName)
	c.LastName = validation.Normalize(c.LastName)
	c.Gender = validation.Normalize(c.Gender)
	c.StreetAddress = validation.Normalize(c.StreetAddress)
	c.City = validation.Normalize(c.City)
	c.State = validation.Normalize(c.State)
	c.ZipCode = validation.Normalize(c.ZipCode)
	c.OtherParentName = validation.Normalize(c.OtherParentName)
	c.OtherParentEmail = validation.Normalize(c.OtherParentEmail)
}
