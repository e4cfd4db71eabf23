package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"camperplus/internal/models"
	"camperplus/internal/service"
	"camperplus/internal/validation"
)

// ParentHandler serves the parent-facing pages, all scoped to the
// authenticated parent's own campers
type ParentHandler struct {
	rosterService *service.RosterService
	groupService  *service.GroupService
	eventService  *service.EventService
	emailService  *service.EmailService
	middleware    *Middleware
	templates     *template.Template
}

// NewParentHandler creates a new parent handler
func NewParentHandler(rosterService *service.RosterService, groupService *service.GroupService, eventService *service.EventService, emailService *service.EmailService, middleware *Middleware, templates *template.Template) *ParentHandler {
	return &ParentHandler{
		rosterService: rosterService,
		groupService:  groupService,
		eventService:  eventService,
		emailService:  emailService,
		middleware:    middleware,
		templates:     templates,
	}
}

// ShowSchedule renders the parent's schedule: events for the groups
// their campers belong to
func (h *ParentHandler) ShowSchedule(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	parent, campers := h.parentScope(user)

	events, err := h.eventService.ListEvents("", "")
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error loading events", err)
		return
	}

	groupIDs := make(map[int64]bool, len(campers))
	for _, c := range campers {
		groupIDs[c.GroupID] = true
	}

	var scoped []models.CalendarEvent
	for i := range events {
		if groupIDs[events[i].GroupID] {
			scoped = append(scoped, events[i].ToCalendarEvent())
		}
	}

	groups, err := h.groupService.GetAllGroups()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error loading groups", err)
		return
	}

	data := struct {
		ParentScheduleViewData
		Events []models.CalendarEvent
	}{
		ParentScheduleViewData: ParentScheduleViewData{
			Title:       "My Schedule - Camper+",
			DisplayName: user.DisplayName(parent),
			Groups:      groups,
		},
		Events: scoped,
	}

	if err := h.templates.ExecuteTemplate(w, "parent_schedule.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error rendering parent schedule template", err)
	}
}

// ShowEnrollments renders the parent's campers and their enrollment
// status
func (h *ParentHandler) ShowEnrollments(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	parent, campers := h.parentScope(user)

	groups, err := h.groupService.GetAllGroups()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error loading groups", err)
		return
	}

	var parents []models.Parent
	if parent != nil {
		parents = []models.Parent{*parent}
	}

	data := EnrollmentsViewData{
		Title:       "My Enrollments - Camper+",
		DisplayName: user.DisplayName(parent),
		Campers:     buildCamperViews(campers, parents, groups),
	}

	if err := h.templates.ExecuteTemplate(w, "parent_enrollments.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error rendering enrollments template", err)
	}
}

// ShowRegister renders the camper registration form
func (h *ParentHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	parent, _ := h.parentScope(user)

	h.renderRegister(w, RegisterCamperViewData{
		Title:       "Register a Camper - Camper+",
		DisplayName: user.DisplayName(parent),
		CSRFToken:   h.middleware.CSRFTokenFor(r),
	})
}

// Register handles the camper registration form. The new camper starts
// inactive until staff approve the enrollment.
func (h *ParentHandler) Register(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	parent, _ := h.parentScope(user)

	data := RegisterCamperViewData{
		Title:       "Register a Camper - Camper+",
		DisplayName: user.DisplayName(parent),
		CSRFToken:   h.middleware.CSRFTokenFor(r),
	}

	if parent == nil {
		data.Error = "Your account is not linked to a parent record. Contact camp staff."
		h.renderRegister(w, data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	// Registration always binds to the logged-in parent; group placement
	// is a staff decision.
	r.Form.Set("parent_id", "0")
	r.Form.Set("group_id", "")
	camper, err := camperFromForm(r)
	if err != nil {
		data.Error = "Please check the birth date and try again."
		h.renderRegister(w, data)
		return
	}
	camper.ParentID = parent.ID
	camper.IsActive = false

	created, err := h.rosterService.CreateCamper(camper)
	if err != nil {
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			data.Error = verr.Error()
		} else {
			log.Printf("Error registering camper for parent %d: %v", parent.ID, err)
			data.Error = "Could not complete the registration."
		}
		h.renderRegister(w, data)
		return
	}

	if h.emailService != nil && h.emailService.IsEnabled() {
		if err := h.emailService.SendEnrollmentReceivedEmail(r.Context(), parent.Email, parent.AltName(), created.AltName()); err != nil {
			log.Printf("Error sending enrollment email to %s: %v", parent.Email, err)
		}
	}

	data.Completed = true
	data.CamperName = created.AltName()
	h.renderRegister(w, data)
}

func (h *ParentHandler) renderRegister(w http.ResponseWriter, data RegisterCamperViewData) {
	if err := h.templates.ExecuteTemplate(w, "parent_register.tmpl", data); err != nil {
		log.Printf("Error rendering register template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// parentScope resolves the parent record and campers for a parent-role
// user. A user with no parent link gets empty scope rather than an
// error.
func (h *ParentHandler) parentScope(user *models.User) (*models.Parent, []models.Camper) {
	if user.ParentID == nil {
		return nil, nil
	}

	parent, err := h.rosterService.GetParent(*user.ParentID)
	if err != nil {
		log.Printf("Error loading parent %d: %v", *user.ParentID, err)
		return nil, nil
	}

	campers, err := h.rosterService.GetCampersByParent(parent.ID)
	if err != nil {
		log.Printf("Error loading campers for parent %d: %v", parent.ID, err)
		return parent, nil
	}

	return parent, campers
}
