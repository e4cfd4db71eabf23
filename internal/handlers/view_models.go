package handlers

import (
	"camperplus/internal/models"
)

type LoginViewData struct {
	Title       string
	DisplayName string
	Error       string
	Email       string
}

type FAQViewData struct {
	Title       string
	DisplayName string
}

type ActivateViewData struct {
	Title       string
	DisplayName string
	Code        string
	Email       string
	Error       string
}

type ScheduleViewData struct {
	Title       string
	DisplayName string
	Groups      []models.CampGroup
	CSRFToken   string
}

// RosterViewData backs the admin management page. Dropdown choices are
// rebuilt on every render so new groups and parents appear immediately.
type RosterViewData struct {
	Title       string
	DisplayName string
	Parents     []models.Parent
	Campers     []CamperView
	Groups      []models.CampGroup
	CSRFToken   string
	Error       string
	Success     string
}

// CamperView pairs a camper with resolved parent and group names for
// display
type CamperView struct {
	models.Camper
	ParentName string
	GroupName  string
	GroupColor string
}

type ParentScheduleViewData struct {
	Title       string
	DisplayName string
	Groups      []models.CampGroup
}

type EnrollmentsViewData struct {
	Title       string
	DisplayName string
	Campers     []CamperView
}

type RegisterCamperViewData struct {
	Title       string
	DisplayName string
	Groups      []models.CampGroup
	CSRFToken   string
	Error       string
	Completed   bool
	CamperName  string
}
