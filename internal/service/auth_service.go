package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"camperplus/internal/database"
	"camperplus/internal/models"
	"camperplus/internal/repository"
	"camperplus/internal/security"
	"camperplus/internal/validation"
)

// AuthService handles login, sessions and account activation
type AuthService struct {
	db                 *database.DB
	userRepo           *repository.UserRepository
	parentRepo         *repository.ParentRepository
	invitationRepo     *repository.InvitationRepository
	sessionDuration    time.Duration
	invitationDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(db *database.DB, userRepo *repository.UserRepository, parentRepo *repository.ParentRepository, invitationRepo *repository.InvitationRepository, sessionDuration, invitationDuration time.Duration) *AuthService {
	return &AuthService{
		db:                 db,
		userRepo:           userRepo,
		parentRepo:         parentRepo,
		invitationRepo:     invitationRepo,
		sessionDuration:    sessionDuration,
		invitationDuration: invitationDuration,
	}
}

// Login authenticates a user and creates a session. Lookup is by
// lowercased email; unknown email and wrong password both surface as
// ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(validation.Normalize(email))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user, nil
}

// ValidateSession checks if a session is valid and returns the associated user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user, nil
}

// Logout invalidates a session. Deleting an unknown session is a no-op,
// so logout is idempotent.
func (s *AuthService) Logout(sessionID string) error {
	if err := s.userRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions and stale invitations
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	if err := s.invitationRepo.DeleteExpiredInvitations(); err != nil {
		return fmt.Errorf("failed to cleanup invitations: %w", err)
	}
	return nil
}

// SeedAdmin creates the admin account from configuration if no admin
// exists yet. A blank email disables seeding; a blank password gets a
// generated temporary one, printed to the log exactly once so the
// operator can log in and change it.
func (s *AuthService) SeedAdmin(email, password string) error {
	if email == "" {
		return nil
	}

	count, err := s.userRepo.CountAdmins()
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := validation.ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		temp, err := security.GenerateTempPassword(16)
		if err != nil {
			return fmt.Errorf("failed to generate temporary password: %w", err)
		}
		password = temp
		log.Printf("Generated temporary admin password: %s", temp)
	} else if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.userRepo.CreateUser(validation.Normalize(email), hash, models.RoleAdmin, nil); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	log.Printf("Seeded admin account %s", validation.Normalize(email))
	return nil
}

// InviteParent issues an activation invitation for a parent record and
// emails the code when the email service is configured
func (s *AuthService) InviteParent(ctx context.Context, emailService *EmailService, parentID int64) (*models.Invitation, error) {
	parent, err := s.parentRepo.GetParentByID(parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parent: %w", err)
	}
	if parent == nil {
		return nil, ErrNotFound
	}

	expiresAt := time.Now().Add(s.invitationDuration)
	invitation, err := s.invitationRepo.CreateInvitation(parent.Email, parentID, expiresAt)
	if err != nil {
		return nil, err
	}

	if emailService != nil && emailService.IsEnabled() {
		if err := emailService.SendInvitationEmail(ctx, parent.Email, parent.AltName(), invitation.Code); err != nil {
			return nil, fmt.Errorf("failed to send invitation email: %w", err)
		}
	}

	return invitation, nil
}

// GetInvitation returns the invitation for a code, or ErrInvalidInvitation
// when the code is unknown, used or expired
func (s *AuthService) GetInvitation(code string) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.GetInvitationByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if invitation == nil || !invitation.IsValid() {
		return nil, ErrInvalidInvitation
	}
	return invitation, nil
}

// ActivateAccount redeems an invitation: the parent chooses a password
// and gets a parent-role login bound to their parent record. User
// creation and code consumption commit together.
func (s *AuthService) ActivateAccount(code, password string) (*models.User, error) {
	invitation, err := s.GetInvitation(code)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	email := validation.Normalize(invitation.Email)
	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	parentID := invitation.ParentID
	user, err := repository.NewUserRepository(tx).CreateUser(email, hash, models.RoleParent, &parentID)
	if err != nil {
		return nil, err
	}
	if err := repository.NewInvitationRepository(tx).MarkInvitationUsed(code); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit activation: %w", err)
	}

	return user, nil
}
