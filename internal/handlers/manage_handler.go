package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"camperplus/internal/models"
	"camperplus/internal/service"
	"camperplus/internal/validation"
)

// FormDateLayout is the birth-date format used on the management forms
const FormDateLayout = "02 January, 2006"

// ManageHandler serves the admin roster page and its parent, camper and
// group mutations
type ManageHandler struct {
	rosterService *service.RosterService
	groupService  *service.GroupService
	authService   *service.AuthService
	emailService  *service.EmailService
	middleware    *Middleware
	templates     *template.Template
}

// NewManageHandler creates a new manage handler
func NewManageHandler(rosterService *service.RosterService, groupService *service.GroupService, authService *service.AuthService, emailService *service.EmailService, middleware *Middleware, templates *template.Template) *ManageHandler {
	return &ManageHandler{
		rosterService: rosterService,
		groupService:  groupService,
		authService:   authService,
		emailService:  emailService,
		middleware:    middleware,
		templates:     templates,
	}
}

// ShowRoster renders the management page with parents, campers and
// groups
func (h *ManageHandler) ShowRoster(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	data, err := h.buildRosterView(user)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error loading roster", err)
		return
	}
	data.CSRFToken = h.middleware.CSRFTokenFor(r)
	data.Error = r.URL.Query().Get("error")
	data.Success = r.URL.Query().Get("success")

	if err := h.templates.ExecuteTemplate(w, "admin_manage.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error rendering manage template", err)
	}
}

// CreateParent handles the new-parent form. When requested, an account
// invitation is emailed to the new parent.
func (h *ManageHandler) CreateParent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	birthDate, err := time.Parse(FormDateLayout, r.FormValue("birth_date"))
	if err != nil {
		http.Redirect(w, r, "/campers?error=invalid+birth+date", http.StatusSeeOther)
		return
	}

	parent := &models.Parent{
		FirstName:     r.FormValue("first_name"),
		LastName:      r.FormValue("last_name"),
		BirthDate:     birthDate,
		Gender:        r.FormValue("gender"),
		Email:         r.FormValue("email"),
		Phone:         r.FormValue("phone"),
		StreetAddress: r.FormValue("street_address"),
		City:          r.FormValue("city"),
		State:         r.FormValue("state"),
		ZipCode:       r.FormValue("zip_code"),
	}

	created, err := h.rosterService.CreateParent(parent)
	if err != nil {
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			http.Redirect(w, r, "/campers?error="+verr.Field, http.StatusSeeOther)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error creating parent", err)
		return
	}

	if r.FormValue("send_invitation") != "" {
		if _, err := h.authService.InviteParent(r.Context(), h.emailService, created.ID); err != nil {
			log.Printf("Error inviting parent %d: %v", created.ID, err)
		}
	}

	http.Redirect(w, r, "/campers?success=parent+added", http.StatusSeeOther)
}

// DeleteParent handles DELETE /manage/parent. Parents with campers on
// file are protected.
func (h *ManageHandler) DeleteParent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ParentID int64 `json:"parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.rosterService.DeleteParent(payload.ParentID); err != nil {
		status, msg := jsonStatusFor(err)
		respondWithJSONError(w, status, msg, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// CreateCamper handles the new-camper form. Staff-created campers are
// active immediately.
func (h *ManageHandler) CreateCamper(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	camper, err := camperFromForm(r)
	if err != nil {
		http.Redirect(w, r, "/campers?error=invalid+camper+form", http.StatusSeeOther)
		return
	}
	camper.IsActive = true

	if _, err := h.rosterService.CreateCamper(camper); err != nil {
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			http.Redirect(w, r, "/campers?error="+verr.Field, http.StatusSeeOther)
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			http.Redirect(w, r, "/campers?error=unknown+parent+or+group", http.StatusSeeOther)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error creating camper", err)
		return
	}

	http.Redirect(w, r, "/campers?success=camper+added", http.StatusSeeOther)
}

// PatchCamper handles PATCH /manage/camper: enrollment approval and
// group reassignment, each field optional
func (h *ManageHandler) PatchCamper(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CamperID int64  `json:"camper_id"`
		IsActive *bool  `json:"is_active"`
		GroupID  *int64 `json:"group_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if payload.IsActive == nil && payload.GroupID == nil {
		respondWithJSONError(w, http.StatusBadRequest, "nothing to update", nil)
		return
	}

	if payload.IsActive != nil {
		if err := h.rosterService.SetCamperEnrollment(payload.CamperID, *payload.IsActive); err != nil {
			status, msg := jsonStatusFor(err)
			respondWithJSONError(w, status, msg, err)
			return
		}
	}

	if payload.GroupID != nil {
		if err := h.rosterService.ReassignCamperGroup(payload.CamperID, *payload.GroupID); err != nil {
			status, msg := jsonStatusFor(err)
			respondWithJSONError(w, status, msg, err)
			return
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// DeleteCamper handles DELETE /manage/camper
func (h *ManageHandler) DeleteCamper(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CamperID int64 `json:"camper_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.rosterService.DeleteCamper(payload.CamperID); err != nil {
		status, msg := jsonStatusFor(err)
		respondWithJSONError(w, status, msg, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// CreateGroup handles the new-group form
func (h *ManageHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if _, err := h.groupService.CreateGroup(r.FormValue("name"), r.FormValue("color")); err != nil {
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			http.Redirect(w, r, "/campers?error="+verr.Field, http.StatusSeeOther)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error creating group", err)
		return
	}

	http.Redirect(w, r, "/campers?success=group+added", http.StatusSeeOther)
}

// DeleteGroup handles DELETE /manage/campgroup. The default group and
// referenced groups are protected.
func (h *ManageHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GroupID int64 `json:"group_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.groupService.DeleteGroup(payload.GroupID); err != nil {
		status, msg := jsonStatusFor(err)
		respondWithJSONError(w, status, msg, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *ManageHandler) buildRosterView(user *models.User) (RosterViewData, error) {
	data := RosterViewData{
		Title:       "Manage Campers - Camper+",
		DisplayName: user.DisplayName(nil),
	}

	parents, err := h.rosterService.GetAllParents()
	if err != nil {
		return data, err
	}
	campers, err := h.rosterService.GetAllCampers()
	if err != nil {
		return data, err
	}
	groups, err := h.groupService.GetAllGroups()
	if err != nil {
		return data, err
	}

	data.Parents = parents
	data.Groups = groups
	data.Campers = buildCamperViews(campers, parents, groups)
	return data, nil
}

// buildCamperViews resolves parent and group display fields for each
// camper
func buildCamperViews(campers []models.Camper, parents []models.Parent, groups []models.CampGroup) []CamperView {
	parentNames := make(map[int64]string, len(parents))
	for i := range parents {
		parentNames[parents[i].ID] = parents[i].Name()
	}
	groupByID := make(map[int64]*models.CampGroup, len(groups))
	for i := range groups {
		groupByID[groups[i].ID] = &groups[i]
	}

	views := make([]CamperView, 0, len(campers))
	for _, c := range campers {
		view := CamperView{
			Camper:     c,
			ParentName: parentNames[c.ParentID],
			GroupColor: models.NoGroupColor,
		}
		if g := groupByID[c.GroupID]; g != nil {
			view.GroupName = g.Name
			view.GroupColor = g.Color
		}
		views = append(views, view)
	}
	return views
}

// camperFromForm builds a camper from management or registration form
// fields
func camperFromForm(r *http.Request) (*models.Camper, error) {
	birthDate, err := time.Parse(FormDateLayout, r.FormValue("birth_date"))
	if err != nil {
		return nil, err
	}

	grade, _ := strconv.Atoi(r.FormValue("grade"))
	parentID, err := strconv.ParseInt(r.FormValue("parent_id"), 10, 64)
	if err != nil {
		return nil, err
	}

	var groupID int64
	if v := r.FormValue("group_id"); v != "" {
		groupID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
	}

	camper := &models.Camper{
		FirstName:        r.FormValue("first_name"),
		LastName:         r.FormValue("last_name"),
		BirthDate:        birthDate,
		Grade:            grade,
		Gender:           r.FormValue("gender"),
		MedicalNotes:     r.FormValue("medical_notes"),
		Phone:            r.FormValue("phone"),
		StreetAddress:    r.FormValue("street_address"),
		City:             r.FormValue("city"),
		State:            r.FormValue("state"),
		ZipCode:          r.FormValue("zip_code"),
		OtherParentName:  r.FormValue("other_parent_name"),
		OtherParentEmail: r.FormValue("other_parent_email"),
		OtherParentPhone: r.FormValue("other_parent_phone"),
		GroupID:          groupID,
		ParentID:         parentID,
	}

	if v := r.FormValue("other_parent_birth_date"); v != "" {
		if t, err := time.Parse(FormDateLayout, v); err == nil {
			camper.OtherParentBirthDate = &t
		}
	}

	return camper, nil
}
