package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"camperplus/internal/database"
	"camperplus/internal/models"
	"camperplus/internal/repository"
	"camperplus/internal/security"
	"camperplus/internal/service"
)

type testServer struct {
	db     *database.DB
	mux    *http.ServeMux
	groups *service.GroupService
	users  *repository.UserRepository
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	path := fmt.Sprintf("test_%s_%d.db", t.Name(), time.Now().UnixNano())
	db, err := database.Initialize(path)
	if err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}
	if err := db.RunMigrations("../../migrations"); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(path)
		os.Remove(path + "-wal")
		os.Remove(path + "-shm")
	})

	userRepo := repository.NewUserRepository(db)
	parentRepo := repository.NewParentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	eventRepo := repository.NewEventRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	authService := service.NewAuthService(db, userRepo, parentRepo, invitationRepo, time.Hour, 24*time.Hour)
	groupService := service.NewGroupService(groupRepo)
	eventService := service.NewEventService(db, eventRepo, groupRepo)

	if _, err := groupService.EnsureDefaultGroup(); err != nil {
		t.Fatalf("failed to seed default group: %v", err)
	}

	csrf := security.NewCSRFGenerator("test-secret")
	limiter := security.NewRateLimiter(100, time.Minute)
	middleware := NewMiddleware(authService, csrf, limiter)
	scheduleHandler := NewScheduleHandler(eventService, groupService, middleware, template.New("none"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /getCampEvents", middleware.RequireAdmin(scheduleHandler.GetCampEvents))
	mux.HandleFunc("POST /saveEvent", middleware.RequireAdmin(scheduleHandler.CreateEvent))
	mux.HandleFunc("PUT /saveEvent", middleware.RequireAdmin(scheduleHandler.UpdateEvent))
	mux.HandleFunc("DELETE /saveEvent", middleware.RequireAdmin(scheduleHandler.DeleteEvent))

	return &testServer{db: db, mux: mux, groups: groupService, users: userRepo}
}

// loginAs creates a user with the given role and returns a live session
// cookie for it
func (ts *testServer) loginAs(t *testing.T, email string, role models.Role) *http.Cookie {
	t.Helper()

	hash, err := security.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user, err := ts.users.CreateUser(email, hash, role, nil)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	sessionID := security.GenerateSessionID()
	if _, err := ts.users.CreateSession(sessionID, user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return &http.Cookie{Name: security.SessionCookieName, Value: sessionID}
}

func (ts *testServer) request(t *testing.T, method, target string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(into); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestSaveEventScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := setupTestServer(t)
	admin := ts.loginAs(t, "admin@camp.org", models.RoleAdmin)

	group, err := ts.groups.CreateGroup("falcons", "yellow")
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	groupRef := strconv.FormatInt(group.ID, 10)

	// Create
	rec := ts.request(t, "POST", "/saveEvent", map[string]string{
		"title":    "Test Event",
		"start":    "2017-08-08T12:00:00",
		"end":      "2017-08-08T12:00:00",
		"group_id": groupRef,
	}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Msg   string `json:"msg"`
		Color string `json:"color"`
		ID    int64  `json:"id"`
	}
	decodeJSON(t, rec, &created)
	if created.Msg != "success" || created.Color != "yellow" || created.ID == 0 {
		t.Fatalf("create response = %+v", created)
	}

	// List
	rec = ts.request(t, "GET", "/getCampEvents?start=2017-08-01&end=2017-08-31", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []models.CalendarEvent
	decodeJSON(t, rec, &listed)
	if len(listed) != 1 {
		t.Fatalf("listed %d events, want 1", len(listed))
	}
	if listed[0].Color != "yellow" || listed[0].Start != "2017-08-08T12:00:00" {
		t.Errorf("listed event = %+v", listed[0])
	}

	// Update the title, resending everything else unchanged
	rec = ts.request(t, "PUT", "/saveEvent", map[string]interface{}{
		"id":       created.ID,
		"title":    "soccer",
		"start":    "2017-08-08T12:00:00",
		"end":      "2017-08-08T12:00:00",
		"group_id": groupRef,
	}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.request(t, "GET", "/getCampEvents", nil, admin)
	decodeJSON(t, rec, &listed)
	if listed[0].Title != "soccer" {
		t.Errorf("title after update = %q, want soccer", listed[0].Title)
	}

	// Delete twice: second call hits a missing record
	rec = ts.request(t, "DELETE", "/saveEvent", map[string]int64{"id": created.ID}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("first delete status = %d", rec.Code)
	}
	rec = ts.request(t, "DELETE", "/saveEvent", map[string]int64{"id": created.ID}, admin)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSaveEventRejectsBadPayloads(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := setupTestServer(t)
	admin := ts.loginAs(t, "admin@camp.org", models.RoleAdmin)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"malformed start", map[string]string{"title": "x", "start": "tomorrow", "end": "2017-08-08T13:00:00", "group_id": "1"}},
		{"non-numeric group", map[string]string{"title": "x", "start": "2017-08-08T12:00:00", "end": "2017-08-08T13:00:00", "group_id": "falcons"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.request(t, "POST", "/saveEvent", tt.body, admin)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var resp struct {
				Success bool   `json:"success"`
				Msg     string `json:"msg"`
			}
			decodeJSON(t, rec, &resp)
			if resp.Success {
				t.Error("error response reported success")
			}
			if resp.Msg == "" {
				t.Error("error response has no message")
			}
		})
	}
}

func TestAdminRoutesGatedByRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := setupTestServer(t)
	parent := ts.loginAs(t, "jane@example.com", models.RoleParent)

	rec := ts.request(t, "POST", "/saveEvent", map[string]string{
		"title": "x", "start": "2017-08-08T12:00:00", "end": "2017-08-08T13:00:00", "group_id": "1",
	}, parent)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("parent-role status = %d, want 401", rec.Code)
	}

	// The handler must not have run.
	admin := ts.loginAs(t, "admin@camp.org", models.RoleAdmin)
	listRec := ts.request(t, "GET", "/getCampEvents", nil, admin)
	var listed []models.CalendarEvent
	decodeJSON(t, listRec, &listed)
	if len(listed) != 0 {
		t.Errorf("gated request created %d events", len(listed))
	}

	// No session at all redirects to login.
	rec = ts.request(t, "GET", "/getCampEvents", nil, nil)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("anonymous status = %d, want 303", rec.Code)
	}
}
