package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"camperplus/internal/database"
	"camperplus/internal/models"
	"camperplus/internal/repository"
)

// setupTestDB creates a throwaway SQLite database with the full schema
func setupTestDB(t *testing.T) *database.DB {
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

	return db
}

type testEnv struct {
	db     *database.DB
	auth   *AuthService
	groups *GroupService
	roster *RosterService
	events *EventService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	parentRepo := repository.NewParentRepository(db)
	camperRepo := repository.NewCamperRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	eventRepo := repository.NewEventRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	env := &testEnv{
		db:     db,
		auth:   NewAuthService(db, userRepo, parentRepo, invitationRepo, time.Hour, 24*time.Hour),
		groups: NewGroupService(groupRepo),
		roster: NewRosterService(db, parentRepo, camperRepo, groupRepo),
		events: NewEventService(db, eventRepo, groupRepo),
	}

	if _, err := env.groups.EnsureDefaultGroup(); err != nil {
		t.Fatalf("failed to seed default group: %v", err)
	}

	return env
}

func (e *testEnv) createParent(t *testing.T, first, last, email string) *models.Parent {
	t.Helper()
	parent, err := e.roster.CreateParent(&models.Parent{
		FirstName:     first,
		LastName:      last,
		BirthDate:     time.Date(1985, time.March, 10, 0, 0, 0, 0, time.UTC),
		Email:         email,
		StreetAddress: "12 lake rd",
		City:          "pinewood",
		State:         "mi",
		ZipCode:       "48000",
	})
	if err != nil {
		t.Fatalf("failed to create parent: %v", err)
	}
	return parent
}

func (e *testEnv) createCamper(t *testing.T, parent *models.Parent, first string, active bool) *models.Camper {
	t.Helper()
	camper, err := e.roster.CreateCamper(&models.Camper{
		FirstName: first,
		LastName:  parent.LastName,
		BirthDate: time.Date(2016, time.July, 1, 0, 0, 0, 0, time.UTC),
		ParentID:  parent.ID,
		IsActive:  active,
	})
	if err != nil {
		t.Fatalf("failed to create camper: %v", err)
	}
	return camper
}

func TestEventLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	group, err := env.groups.CreateGroup("falcons", "yellow")
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	groupRef := strconv.FormatInt(group.ID, 10)

	created, err := env.events.CreateEvent(models.CalendarEvent{
		Title:   "Test Event",
		Start:   "2017-08-08T12:00:00",
		End:     "2017-08-08T12:00:00",
		GroupID: groupRef,
	})
	if err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}
	if created.ID == 0 {
		t.Error("created event has no id")
	}
	if created.Color != "yellow" {
		t.Errorf("created color = %q, want yellow", created.Color)
	}

	events, err := env.events.ListEvents("2017-08-01", "2017-08-31")
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("listed %d events, want 1", len(events))
	}
	if events[0].Color != "yellow" {
		t.Errorf("listed color = %q, want yellow", events[0].Color)
	}
	wire := events[0].ToCalendarEvent()
	if wire.Start != "2017-08-08T12:00:00" {
		t.Errorf("listed start = %q, round trip broken", wire.Start)
	}

	// Full overwrite keeps everything except the new title.
	if err := env.events.UpdateEvent(models.CalendarEvent{
		ID:      created.ID,
		Title:   "soccer",
		Start:   wire.Start,
		End:     wire.End,
		GroupID: groupRef,
	}); err != nil {
		t.Fatalf("UpdateEvent returned error: %v", err)
	}

	events, _ = env.events.ListEvents("", "")
	if events[0].Title != "soccer" {
		t.Errorf("title after update = %q, want soccer", events[0].Title)
	}
	if got := events[0].ToCalendarEvent(); got.Start != wire.Start || got.End != wire.End {
		t.Errorf("timestamps changed on update: %q / %q", got.Start, got.End)
	}

	// Resubmitting the same payload changes nothing but still succeeds.
	if err := env.events.UpdateEvent(models.CalendarEvent{
		ID:      created.ID,
		Title:   "soccer",
		Start:   wire.Start,
		End:     wire.End,
		GroupID: groupRef,
	}); err != nil {
		t.Errorf("no-op update returned error: %v", err)
	}

	if err := env.events.UpdateEvent(models.CalendarEvent{
		ID:      999,
		Title:   "ghost",
		Start:   wire.Start,
		End:     wire.End,
		GroupID: groupRef,
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of unknown event error = %v, want ErrNotFound", err)
	}

	if err := env.events.DeleteEvent(created.ID); err != nil {
		t.Fatalf("first delete returned error: %v", err)
	}
	if err := env.events.DeleteEvent(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestEventCreateRejectsBadPayloads(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	tests := []struct {
		name    string
		payload models.CalendarEvent
		wantErr error
	}{
		{
			name:    "malformed start",
			payload: models.CalendarEvent{Title: "x", Start: "2017-08-08", End: "2017-08-08T13:00:00", GroupID: "1"},
			wantErr: models.ErrMalformedTimestamp,
		},
		{
			name:    "non-numeric group",
			payload: models.CalendarEvent{Title: "x", Start: "2017-08-08T12:00:00", End: "2017-08-08T13:00:00", GroupID: "falcons"},
			wantErr: models.ErrInvalidReference,
		},
		{
			name:    "unknown group",
			payload: models.CalendarEvent{Title: "x", Start: "2017-08-08T12:00:00", End: "2017-08-08T13:00:00", GroupID: "999"},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.events.CreateEvent(tt.payload); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateEvent error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	events, err := env.events.ListEvents("", "")
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("rejected payloads left %d events behind", len(events))
	}
}

func TestGroupDeletionGuards(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	def, err := env.groups.EnsureDefaultGroup()
	if err != nil {
		t.Fatalf("EnsureDefaultGroup returned error: %v", err)
	}
	if err := env.groups.DeleteGroup(def.ID); !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("default group delete error = %v, want ErrConstraintViolation", err)
	}

	group, err := env.groups.CreateGroup("bears", "brown")
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	event, err := env.events.CreateEvent(models.CalendarEvent{
		Title:   "Hike",
		Start:   "2017-08-08T09:00:00",
		End:     "2017-08-08T11:00:00",
		GroupID: strconv.FormatInt(group.ID, 10),
	})
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	if err := env.groups.DeleteGroup(group.ID); !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("referenced group delete error = %v, want ErrConstraintViolation", err)
	}

	if err := env.events.DeleteEvent(event.ID); err != nil {
		t.Fatalf("failed to delete event: %v", err)
	}
	if err := env.groups.DeleteGroup(group.ID); err != nil {
		t.Errorf("unreferenced group delete returned error: %v", err)
	}

	if err := env.groups.DeleteGroup(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown group delete error = %v, want ErrNotFound", err)
	}
}

func TestParentDeletionGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	parent := env.createParent(t, "jane", "doe", "jane@example.com")
	camper := env.createCamper(t, parent, "billy", true)

	if err := env.roster.DeleteParent(parent.ID); !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("delete with campers error = %v, want ErrConstraintViolation", err)
	}
	if _, err := env.roster.GetParent(parent.ID); err != nil {
		t.Errorf("parent vanished after blocked delete: %v", err)
	}

	if err := env.roster.DeleteCamper(camper.ID); err != nil {
		t.Fatalf("failed to delete camper: %v", err)
	}
	if err := env.roster.DeleteParent(parent.ID); err != nil {
		t.Errorf("delete without campers returned error: %v", err)
	}
	if _, err := env.roster.GetParent(parent.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("parent still present after delete: %v", err)
	}
}

func TestCamperDefaults(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	parent := env.createParent(t, "jane", "doe", "jane@example.com")
	camper := env.createCamper(t, parent, "billy", false)

	if camper.StreetAddress != parent.StreetAddress || camper.City != parent.City {
		t.Errorf("blank address not copied from parent: %q %q", camper.StreetAddress, camper.City)
	}
	if camper.IsActive {
		t.Error("pending camper created active")
	}

	def, _ := env.groups.EnsureDefaultGroup()
	if camper.GroupID != def.ID {
		t.Errorf("camper group = %d, want default group %d", camper.GroupID, def.ID)
	}

	group, _ := env.groups.CreateGroup("otters", "teal")
	if err := env.roster.ReassignCamperGroup(camper.ID, group.ID); err != nil {
		t.Fatalf("ReassignCamperGroup returned error: %v", err)
	}
	if err := env.roster.SetCamperEnrollment(camper.ID, true); err != nil {
		t.Fatalf("SetCamperEnrollment returned error: %v", err)
	}

	reloaded, err := env.roster.GetCamper(camper.ID)
	if err != nil {
		t.Fatalf("GetCamper returned error: %v", err)
	}
	if reloaded.GroupID != group.ID || !reloaded.IsActive {
		t.Errorf("camper after updates = group %d active %v", reloaded.GroupID, reloaded.IsActive)
	}

	if err := env.roster.ReassignCamperGroup(camper.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("reassign to unknown group error = %v, want ErrNotFound", err)
	}
}

func TestCamperAddressFallback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	parent := env.createParent(t, "jane", "doe", "jane@example.com")

	// A missing street pulls in the parent's whole address, even when
	// other address fields were submitted.
	camper, err := env.roster.CreateCamper(&models.Camper{
		FirstName: "mia",
		LastName:  "doe",
		BirthDate: time.Date(2015, time.May, 2, 0, 0, 0, 0, time.UTC),
		ParentID:  parent.ID,
		City:      "elsewhere",
	})
	if err != nil {
		t.Fatalf("CreateCamper returned error: %v", err)
	}
	if camper.StreetAddress != parent.StreetAddress || camper.City != parent.City ||
		camper.State != parent.State || camper.ZipCode != parent.ZipCode {
		t.Errorf("address = %q %q %q %q, want parent's", camper.StreetAddress, camper.City, camper.State, camper.ZipCode)
	}

	// A camper with their own street keeps the submitted address.
	own, err := env.roster.CreateCamper(&models.Camper{
		FirstName:     "max",
		LastName:      "doe",
		BirthDate:     time.Date(2014, time.May, 2, 0, 0, 0, 0, time.UTC),
		ParentID:      parent.ID,
		StreetAddress: "9 hill st",
		City:          "elm grove",
		State:         "wi",
		ZipCode:       "53100",
	})
	if err != nil {
		t.Fatalf("CreateCamper returned error: %v", err)
	}
	if own.StreetAddress != "9 hill st" || own.City != "elm grove" {
		t.Errorf("own address overwritten: %q %q", own.StreetAddress, own.City)
	}
}

func TestLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	if err := env.auth.SeedAdmin("admin@camp.org", "password123"); err != nil {
		t.Fatalf("SeedAdmin returned error: %v", err)
	}

	if _, _, err := env.auth.Login("admin@camp.org", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := env.auth.Login("nobody@camp.org", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}

	// Email lookup is case-insensitive.
	session, user, err := env.auth.Login("ADMIN@CAMP.ORG", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}

	got, err := env.auth.ValidateSession(session.ID)
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("session user = %d, want %d", got.ID, user.ID)
	}

	if err := env.auth.Logout(session.ID); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := env.auth.ValidateSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("validate after logout error = %v, want ErrSessionNotFound", err)
	}

	// Logout of an unknown session is a no-op.
	if err := env.auth.Logout("missing-session"); err != nil {
		t.Errorf("logout of unknown session returned error: %v", err)
	}
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	if err := env.auth.SeedAdmin("admin@camp.org", "password123"); err != nil {
		t.Fatalf("first seed returned error: %v", err)
	}
	if err := env.auth.SeedAdmin("other@camp.org", "password456"); err != nil {
		t.Fatalf("second seed returned error: %v", err)
	}

	// The second call must not create another admin.
	if _, _, err := env.auth.Login("other@camp.org", "password456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("second admin exists: %v", err)
	}
}

func TestSeedAdminGeneratesTempPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	// A blank password still seeds the account, with a generated
	// temporary password the operator reads from the log.
	if err := env.auth.SeedAdmin("admin@camp.org", ""); err != nil {
		t.Fatalf("SeedAdmin returned error: %v", err)
	}

	user, err := repository.NewUserRepository(env.db).GetUserByEmail("admin@camp.org")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if user == nil {
		t.Fatal("admin not seeded with blank password")
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("seeded role = %q, want admin", user.Role)
	}
	if user.PasswordHash == "" {
		t.Error("seeded admin has no password hash")
	}

	// A blank email still disables seeding entirely.
	env2 := setupServices(t)
	if err := env2.auth.SeedAdmin("", ""); err != nil {
		t.Fatalf("SeedAdmin returned error: %v", err)
	}
	none, err := repository.NewUserRepository(env2.db).GetUserByEmail("admin@camp.org")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if none != nil {
		t.Error("blank email seeded an admin")
	}
}

func TestInvitationActivationFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := setupServices(t)

	parent := env.createParent(t, "jane", "doe", "jane@example.com")

	invitation, err := env.auth.InviteParent(context.Background(), nil, parent.ID)
	if err != nil {
		t.Fatalf("InviteParent returned error: %v", err)
	}
	if invitation.Code == "" {
		t.Fatal("invitation has no code")
	}

	user, err := env.auth.ActivateAccount(invitation.Code, "hunter2hunter2")
	if err != nil {
		t.Fatalf("ActivateAccount returned error: %v", err)
	}
	if user.Role != models.RoleParent {
		t.Errorf("activated role = %q, want parent", user.Role)
	}
	if user.ParentID == nil || *user.ParentID != parent.ID {
		t.Errorf("activated user not linked to parent %d", parent.ID)
	}

	// The code is single use.
	if _, err := env.auth.ActivateAccount(invitation.Code, "hunter2hunter2"); !errors.Is(err, ErrInvalidInvitation) {
		t.Errorf("reused code error = %v, want ErrInvalidInvitation", err)
	}

	if _, _, err := env.auth.Login("jane@example.com", "hunter2hunter2"); err != nil {
		t.Errorf("activated parent cannot log in: %v", err)
	}

	if _, err := env.auth.InviteParent(context.Background(), nil, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("invite for unknown parent error = %v, want ErrNotFound", err)
	}
}
