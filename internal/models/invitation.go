package models

import "time"

// Invitation lets a parent activate a login account bound to their
// parent record. Codes are single-use and expire.
type Invitation struct {
	ID        int64
	Code      string
	Email     string
	ParentID  int64
	CreatedAt time.Time
	UsedAt    *time.Time
	ExpiresAt time.Time
}

func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

func (i *Invitation) IsUsed() bool {
	return i.UsedAt != nil
}

func (i *Invitation) IsValid() bool {
	return !i.IsExpired() && !i.IsUsed()
}
