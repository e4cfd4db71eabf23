package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"camperplus/internal/config"
	"camperplus/internal/database"
	"camperplus/internal/handlers"
	"camperplus/internal/repository"
	"camperplus/internal/security"
	"camperplus/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	parentRepo := repository.NewParentRepository(db)
	camperRepo := repository.NewCamperRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	eventRepo := repository.NewEventRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Initialize services
	authService := service.NewAuthService(db, userRepo, parentRepo, invitationRepo, cfg.SessionDuration, cfg.InvitationDuration)
	groupService := service.NewGroupService(groupRepo)
	rosterService := service.NewRosterService(db, parentRepo, camperRepo, groupRepo)
	eventService := service.NewEventService(db, eventRepo, groupRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Seed the default group and the admin account
	if _, err := groupService.EnsureDefaultGroup(); err != nil {
		log.Fatalf("Failed to seed default group: %v", err)
	}
	if err := authService.SeedAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Warning: Failed to seed admin account: %v", err)
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	loginLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, csrf, loginLimiter)
	authHandler := handlers.NewAuthHandler(authService, templates)
	scheduleHandler := handlers.NewScheduleHandler(eventService, groupService, middleware, templates)
	manageHandler := handlers.NewManageHandler(rosterService, groupService, authService, emailService, middleware, templates)
	parentHandler := handlers.NewParentHandler(rosterService, groupService, eventService, emailService, middleware, templates)

	// Setup routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Public routes
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /logout", authHandler.Logout)
	mux.HandleFunc("GET /faq", authHandler.FAQ)
	mux.HandleFunc("GET /activate", authHandler.ShowActivate)
	mux.HandleFunc("POST /activate", middleware.RateLimit(authHandler.Activate))

	// Admin schedule routes
	mux.HandleFunc("GET /schedule", middleware.RequireAdmin(scheduleHandler.ShowSchedule))
	mux.HandleFunc("GET /getCampEvents", middleware.RequireAdmin(scheduleHandler.GetCampEvents))
	mux.HandleFunc("POST /saveEvent", middleware.RequireAdmin(scheduleHandler.CreateEvent))
	mux.HandleFunc("PUT /saveEvent", middleware.RequireAdmin(scheduleHandler.UpdateEvent))
	mux.HandleFunc("DELETE /saveEvent", middleware.RequireAdmin(scheduleHandler.DeleteEvent))

	// Admin management routes
	mux.HandleFunc("GET /campers", middleware.RequireAdmin(manageHandler.ShowRoster))
	mux.HandleFunc("POST /manage/parent", middleware.RequireAdmin(middleware.CSRFProtect(manageHandler.CreateParent)))
	mux.HandleFunc("DELETE /manage/parent", middleware.RequireAdmin(manageHandler.DeleteParent))
	mux.HandleFunc("POST /manage/camper", middleware.RequireAdmin(middleware.CSRFProtect(manageHandler.CreateCamper)))
	mux.HandleFunc("PATCH /manage/camper", middleware.RequireAdmin(manageHandler.PatchCamper))
	mux.HandleFunc("DELETE /manage/camper", middleware.RequireAdmin(manageHandler.DeleteCamper))
	mux.HandleFunc("POST /manage/campgroup", middleware.RequireAdmin(middleware.CSRFProtect(manageHandler.CreateGroup)))
	mux.HandleFunc("DELETE /manage/campgroup", middleware.RequireAdmin(manageHandler.DeleteGroup))

	// Parent routes
	mux.HandleFunc("GET /parent/schedule", middleware.RequireParent(parentHandler.ShowSchedule))
	mux.HandleFunc("GET /parent/enrollments", middleware.RequireParent(parentHandler.ShowEnrollments))
	mux.HandleFunc("GET /parent/register", middleware.RequireParent(parentHandler.ShowRegister))
	mux.HandleFunc("POST /parent/register", middleware.RequireParent(middleware.CSRFProtect(parentHandler.Register)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	files, err := filepath.Glob(filepath.Join(templatesPath, "*.tmpl"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatFormDate": func(t time.Time) string {
			return t.Format("02 January, 2006")
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// cleanupExpiredSessions periodically removes expired sessions and
// stale invitations
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
