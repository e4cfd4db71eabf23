package repository

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"camperplus/internal/database"
	"camperplus/internal/models"
)

// InvitationRepository handles database operations for account invitations
type InvitationRepository struct {
	db database.DBTX
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db database.DBTX) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// GenerateInvitationCode generates a random invitation code
func (r *InvitationRepository) GenerateInvitationCode() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateInvitation creates a new invitation for a parent record
func (r *InvitationRepository) CreateInvitation(email string, parentID int64, expiresAt time.Time) (*models.Invitation, error) {
	code, err := r.GenerateInvitationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation code: %w", err)
	}

	query := "INSERT INTO invitations (code, email, parent_id, expires_at) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, code, email, parentID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return &models.Invitation{
		ID:        id,
		Code:      code,
		Email:     email,
		ParentID:  parentID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}

// GetInvitationByCode retrieves an invitation by code
func (r *InvitationRepository) GetInvitationByCode(code string) (*models.Invitation, error) {
	query := `
		SELECT id, code, email, parent_id, created_at, used_at, expires_at
		FROM invitations
		WHERE code = ?
	`
	inv := &models.Invitation{}
	var usedAt sql.NullTime

	err := r.db.QueryRow(query, code).Scan(
		&inv.ID, &inv.Code, &inv.Email, &inv.ParentID,
		&inv.CreatedAt, &usedAt, &inv.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	if usedAt.Valid {
		inv.UsedAt = &usedAt.Time
	}
	return inv, nil
}

// MarkInvitationUsed marks an invitation as used
func (r *InvitationRepository) MarkInvitationUsed(code string) error {
	query := "UPDATE invitations SET used_at = ? WHERE code = ?"
	if _, err := r.db.Exec(query, time.Now(), code); err != nil {
		return fmt.Errorf("failed to mark invitation used: %w", err)
	}
	return nil
}

// DeleteExpiredInvitations removes unused invitations past their expiry
func (r *InvitationRepository) DeleteExpiredInvitations() error {
	query := "DELETE FROM invitations WHERE used_at IS NULL AND expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired invitations: %w", err)
	}
	return nil
}
