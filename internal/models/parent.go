package models

import "time"

// Parent represents a guardian record. A parent owns zero or more
// campers and may have a login account linked through User.ParentID.
type Parent struct {
	ID            int64
	FirstName     string
	LastName      string
	BirthDate     time.Time
	Gender        string
	Email         string
	Phone         string
	StreetAddress string
	City          string
	State         string
	ZipCode       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Name returns the display form "Last, First"
func (p Parent) Name() string {
	return capitalize(p.LastName) + ", " + capitalize(p.FirstName)
}

// AltName returns the display form "First Last"
func (p Parent) AltName() string {
	return capitalize(p.FirstName) + " " + capitalize(p.LastName)
}
