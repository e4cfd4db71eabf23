package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of user roles
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleParent Role = "parent"
)

// ParseRole converts a stored string into a Role, rejecting anything
// outside the closed set
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleParent:
		return RoleParent, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents a login account. Admins have no parent link; parent
// accounts normally reference the parent record they belong to.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	ParentID     *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the name shown in the page header. Admins get the
// local part of their email; parent accounts get the linked parent's
// name, or the literal "Parent" when no parent record is linked.
func (u *User) DisplayName(parent *Parent) string {
	switch u.Role {
	case RoleAdmin:
		if at := strings.Index(u.Email, "@"); at > 0 {
			return u.Email[:at]
		}
		return u.Email
	case RoleParent:
		if parent != nil {
			return parent.Name()
		}
		return "Parent"
	}
	return u.Email
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
