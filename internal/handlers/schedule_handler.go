package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"camperplus/internal/models"
	"camperplus/internal/service"
)

// ScheduleHandler serves the admin calendar page and the JSON event API
// behind it
type ScheduleHandler struct {
	eventService *service.EventService
	groupService *service.GroupService
	middleware   *Middleware
	templates    *template.Template
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(eventService *service.EventService, groupService *service.GroupService, middleware *Middleware, templates *template.Template) *ScheduleHandler {
	return &ScheduleHandler{
		eventService: eventService,
		groupService: groupService,
		middleware:   middleware,
		templates:    templates,
	}
}

// ShowSchedule renders the admin calendar page
func (h *ScheduleHandler) ShowSchedule(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	groups, err := h.groupService.GetAllGroups()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error loading groups", err)
		return
	}

	data := ScheduleViewData{
		Title:       "Schedule - Camper+",
		DisplayName: user.DisplayName(nil),
		Groups:      groups,
		CSRFToken:   h.middleware.CSRFTokenFor(r),
	}

	if err := h.templates.ExecuteTemplate(w, "admin_schedule.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error rendering schedule template", err)
	}
}

// GetCampEvents returns all events as calendar JSON. The widget sends
// start and end query parameters with its visible range; they are
// accepted but the full event list is always returned.
func (h *ScheduleHandler) GetCampEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListEvents(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		respondWithJSONError(w, http.StatusInternalServerError, "failed to load events", err)
		return
	}

	payload := make([]models.CalendarEvent, 0, len(events))
	for i := range events {
		payload = append(payload, events[i].ToCalendarEvent())
	}

	respondWithJSON(w, http.StatusOK, payload)
}

// CreateEvent handles POST /saveEvent: a new calendar entry
func (h *ScheduleHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var payload models.CalendarEvent
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	event, err := h.eventService.CreateEvent(payload)
	if err != nil {
		status, msg := jsonStatusFor(err)
		respondWithJSONError(w, status, msg, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"msg":   "success",
		"color": event.Color,
		"id":    event.ID,
	})
}

// UpdateEvent handles PUT /saveEvent: a full overwrite of an existing
// entry
func (h *ScheduleHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var payload models.CalendarEvent
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.eventService.UpdateEvent(payload); err != nil {
		status, msg := jsonStatusFor(err)
		respondWithJSONError(w, status, msg, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"msg": "success"})
}

// DeleteEvent handles DELETE /saveEvent
func (h *ScheduleHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.eventService.DeleteEvent(payload.ID); err != nil {
		status, msg := jsonStatusFor(err)
		respondWithJSONError(w, status, msg, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"msg": "success"})
}
