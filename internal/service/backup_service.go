package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"camperplus/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Users      []UserBackup   `json:"users"`
	Parents    []ParentBackup `json:"parents"`
	Campers    []CamperBackup `json:"campers"`
	Groups     []GroupBackup  `json:"groups"`
	Events     []EventBackup  `json:"events"`
}

// UserBackup represents a login account for backup
type UserBackup struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	ParentID     *int64    `json:"parent_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ParentBackup represents a parent record for backup
type ParentBackup struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	BirthDate     time.Time `json:"birth_date"`
	Gender        string    `json:"gender"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	ZipCode       string    `json:"zip_code"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CamperBackup represents a camper record for backup
type CamperBackup struct {
	ID                   int64      `json:"id"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	BirthDate            time.Time  `json:"birth_date"`
	Grade                int        `json:"grade"`
	Gender               string     `json:"gender"`
	MedicalNotes         string     `json:"medical_notes"`
	Phone                string     `json:"phone"`
	StreetAddress        string     `json:"street_address"`
	City                 string     `json:"city"`
	State                string     `json:"state"`
	ZipCode              string     `json:"zip_code"`
	IsActive             bool       `json:"is_active"`
	OtherParentName      string     `json:"other_parent_name"`
	OtherParentBirthDate *time.Time `json:"other_parent_birth_date"`
	OtherParentEmail     string     `json:"other_parent_email"`
	OtherParentPhone     string     `json:"other_parent_phone"`
	GroupID              int64      `json:"group_id"`
	ParentID             int64      `json:"parent_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// GroupBackup represents a camp group for backup
type GroupBackup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventBackup represents a calendar event for backup
type EventBackup struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	GroupID   int64     `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportGroups(backup); err != nil {
		return fmt.Errorf("failed to export groups: %w", err)
	}
	if err := s.exportParents(backup); err != nil {
		return fmt.Errorf("failed to export parents: %w", err)
	}
	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportCampers(backup); err != nil {
		return fmt.Errorf("failed to export campers: %w", err)
	}
	if err := s.exportEvents(backup); err != nil {
		return fmt.Errorf("failed to export events: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Export complete: %d users, %d parents, %d campers, %d groups, %d events",
		len(backup.Users), len(backup.Parents), len(backup.Campers), len(backup.Groups), len(backup.Events))
	return nil
}

// Import restores a backup file into the database. Records are inserted
// with their original ids, so importing into a non-empty database can
// collide; use the clear flag on the CLI first.
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Importing backup from %s (version %s)", backup.ExportedAt.Format(time.RFC3339), backup.Version)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Insert in dependency order: groups and parents first, then the
	// rows that reference them.
	for _, g := range backup.Groups {
		if _, err := tx.Exec(
			"INSERT INTO campgroups (id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			g.ID, g.Name, g.Color, g.CreatedAt, g.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to import group %d: %w", g.ID, err)
		}
	}

	for _, p := range backup.Parents {
		if _, err := tx.Exec(
			`INSERT INTO parents (id, first_name, last_name, birth_date, gender, email, phone,
				street_address, city, state, zip_code, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Email, p.Phone,
			p.StreetAddress, p.City, p.State, p.ZipCode, p.CreatedAt, p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to import parent %d: %w", p.ID, err)
		}
	}

	for _, u := range backup.Users {
		if _, err := tx.Exec(
			"INSERT INTO users (id, email, password_hash, role, parent_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			u.ID, u.Email, u.PasswordHash, u.Role, u.ParentID, u.CreatedAt, u.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}

	for _, c := range backup.Campers {
		if _, err := tx.Exec(
			`INSERT INTO campers (id, first_name, last_name, birth_date, grade, gender, medical_notes, phone,
				street_address, city, state, zip_code, is_active,
				other_parent_name, other_parent_birth_date, other_parent_email, other_parent_phone,
				group_id, parent_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.FirstName, c.LastName, c.BirthDate, c.Grade, c.Gender, c.MedicalNotes, c.Phone,
			c.StreetAddress, c.City, c.State, c.ZipCode, c.IsActive,
			c.OtherParentName, c.OtherParentBirthDate, c.OtherParentEmail, c.OtherParentPhone,
			c.GroupID, c.ParentID, c.CreatedAt, c.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to import camper %d: %w", c.ID, err)
		}
	}

	for _, e := range backup.Events {
		if _, err := tx.Exec(
			"INSERT INTO campevents (id, title, start_time, end_time, group_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			e.ID, e.Title, e.Start, e.End, e.GroupID, e.CreatedAt, e.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to import event %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Printf("Import complete: %d users, %d parents, %d campers, %d groups, %d events",
		len(backup.Users), len(backup.Parents), len(backup.Campers), len(backup.Groups), len(backup.Events))
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, email, password_hash, role, parent_id, created_at, updated_at FROM users ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		var parentID sql.NullInt64
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &parentID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		if parentID.Valid {
			u.ParentID = &parentID.Int64
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportParents(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT id, first_name, last_name, birth_date, gender, email, phone,
		street_address, city, state, zip_code, created_at, updated_at FROM parents ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ParentBackup
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender, &p.Email, &p.Phone,
			&p.StreetAddress, &p.City, &p.State, &p.ZipCode, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		backup.Parents = append(backup.Parents, p)
	}
	return rows.Err()
}

func (s *BackupService) exportCampers(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT id, first_name, last_name, birth_date, grade, gender, medical_notes, phone,
		street_address, city, state, zip_code, is_active,
		other_parent_name, other_parent_birth_date, other_parent_email, other_parent_phone,
		group_id, parent_id, created_at, updated_at FROM campers ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CamperBackup
		var otherBirth sql.NullTime
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.BirthDate, &c.Grade, &c.Gender, &c.MedicalNotes, &c.Phone,
			&c.StreetAddress, &c.City, &c.State, &c.ZipCode, &c.IsActive,
			&c.OtherParentName, &otherBirth, &c.OtherParentEmail, &c.OtherParentPhone,
			&c.GroupID, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return err
		}
		if otherBirth.Valid {
			c.OtherParentBirthDate = &otherBirth.Time
		}
		backup.Campers = append(backup.Campers, c)
	}
	return rows.Err()
}

func (s *BackupService) exportGroups(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, name, color, created_at, updated_at FROM campgroups ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GroupBackup
		if err := rows.Scan(&g.ID, &g.Name, &g.Color, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		backup.Groups = append(backup.Groups, g)
	}
	return rows.Err()
}

func (s *BackupService) exportEvents(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, title, start_time, end_time, group_id, created_at, updated_at FROM campevents ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e EventBackup
		if err := rows.Scan(&e.ID, &e.Title, &e.Start, &e.End, &e.GroupID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return err
		}
		backup.Events = append(backup.Events, e)
	}
	return rows.Err()
}
