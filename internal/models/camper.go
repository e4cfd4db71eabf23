package models

import (
	"time"
	"unicode"
)

// Camper represents an enrolled (or pending) child. New campers start
// inactive until an admin approves the enrollment.
type Camper struct {
	ID           int64
	FirstName    string
	LastName     string
	BirthDate    time.Time
	Grade        int
	Gender       string
	MedicalNotes string
	Phone        string

	StreetAddress string
	City          string
	State         string
	ZipCode       string

	IsActive bool

	OtherParentName      string
	OtherParentBirthDate *time.Time
	OtherParentEmail     string
	OtherParentPhone     string

	GroupID  int64
	ParentID int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Name returns the display form "Last, First"
func (c Camper) Name() string {
	return capitalize(c.LastName) + ", " + capitalize(c.FirstName)
}

// AltName returns the display form "First Last"
func (c Camper) AltName() string {
	return capitalize(c.FirstName) + " " + capitalize(c.LastName)
}

// Age returns the camper's age in whole years as of today
func (c Camper) Age() int {
	return ageAt(c.BirthDate, time.Now())
}

func ageAt(born, now time.Time) int {
	years := now.Year() - born.Year()
	birthdayThisYear := time.Date(now.Year(), born.Month(), born.Day(), 0, 0, 0, 0, now.Location())
	if now.Before(birthdayThisYear) {
		years--
	}
	return years
}

// capitalize upper-cases the first rune of a stored lowercase string
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
