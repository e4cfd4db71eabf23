package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"camperplus/internal/models"
	"camperplus/internal/security"
	"camperplus/internal/service"
	"camperplus/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	templates   *template.Template
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, templates *template.Template) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		templates:   templates,
	}
}

// Home redirects an authenticated user to their role's landing page,
// anyone else to the login page
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if user, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, landingPage(user.Role), http.StatusSeeOther)
			return
		}
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if user, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, landingPage(user.Role), http.StatusSeeOther)
			return
		}
	}

	h.renderLogin(w, LoginViewData{Title: "Login - Camper+"})
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	session, user, err := h.authService.Login(email, password)
	if err != nil {
		h.renderLogin(w, LoginViewData{
			Title: "Login - Camper+",
			Error: "Invalid email or password",
			Email: email,
		})
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))
	http.Redirect(w, r, landingPage(user.Role), http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// FAQ renders the public FAQ page
func (h *AuthHandler) FAQ(w http.ResponseWriter, r *http.Request) {
	data := FAQViewData{Title: "FAQ - Camper+"}
	if err := h.templates.ExecuteTemplate(w, "faq.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error rendering faq template", err)
	}
}

// ShowActivate renders the account activation form for an invitation code
func (h *AuthHandler) ShowActivate(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	invitation, err := h.authService.GetInvitation(code)
	if err != nil {
		h.renderActivate(w, ActivateViewData{
			Title: "Activate Account - Camper+",
			Error: "This invitation link is invalid or has expired.",
		})
		return
	}

	h.renderActivate(w, ActivateViewData{
		Title: "Activate Account - Camper+",
		Code:  code,
		Email: invitation.Email,
	})
}

// Activate handles the activation form: the parent picks a password and
// gets logged in
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	code := r.FormValue("code")
	password := r.FormValue("password")

	user, err := h.authService.ActivateAccount(code, password)
	if err != nil {
		msg := "Could not activate the account."
		switch {
		case errors.Is(err, service.ErrInvalidInvitation):
			msg = "This invitation link is invalid or has expired."
		case errors.Is(err, service.ErrEmailTaken):
			msg = "An account with this email already exists."
		default:
			var verr validation.ValidationError
			if errors.As(err, &verr) {
				msg = verr.Error()
			}
		}
		h.renderActivate(w, ActivateViewData{
			Title: "Activate Account - Camper+",
			Code:  code,
			Error: msg,
		})
		return
	}

	session, _, err := h.authService.Login(user.Email, password)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))
	http.Redirect(w, r, landingPage(user.Role), http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, data LoginViewData) {
	if err := h.templates.ExecuteTemplate(w, "login.tmpl", data); err != nil {
		log.Printf("Error rendering login template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) renderActivate(w http.ResponseWriter, data ActivateViewData) {
	if err := h.templates.ExecuteTemplate(w, "activate.tmpl", data); err != nil {
		log.Printf("Error rendering activate template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// landingPage maps a role to its post-login destination
func landingPage(role models.Role) string {
	if role == models.RoleAdmin {
		return "/schedule"
	}
	return "/parent/schedule"
}
