package http

import (
	"errors"
	"net/http"

	"github.com/Strob0t/SkillSprint/internal/domain"
	"github.com/Strob0t/SkillSprint/internal/domain/user"
	"github.com/Strob0t/SkillSprint/internal/session"
)

// Flash messages shown around authentication.
const (
	msgRegistered     = "Registration successful. Please login!"
	msgDuplicateEmail = "Email already registered!"
	msgLoggedIn       = "Login successful!"
	msgBadCredentials = "Invalid login credentials!"
	msgLoggedOut      = "Logged out successfully!"
)

const (
	registerTemplate = "register.html"
	loginTemplate    = "login.html"
)

// authForm keeps submitted values for a re-rendered form. Passwords are
// never echoed back.
type authForm struct {
	Name  string
	Email string
}

// RegisterPage handles GET /register
func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, registerTemplate, page{Title: "Register", Data: authForm{}})
}

// Register handles POST /register
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if !readForm(w, r) {
		return
	}
	req := user.CreateRequest{
		Name:     r.PostForm.Get("name"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}

	_, err := h.Auth.Register(r.Context(), &req)
	form := authForm{Name: req.Name, Email: req.Email}
	switch {
	case err == nil:
		h.redirectFlash(w, r, "/login", session.FlashSuccess, msgRegistered)
	case errors.Is(err, domain.ErrDuplicateEmail):
		h.render(w, r, http.StatusOK, registerTemplate, page{Title: "Register", Flash: danger(msgDuplicateEmail), Data: form})
	case errors.Is(err, domain.ErrValidation):
		h.render(w, r, http.StatusOK, registerTemplate, page{Title: "Register", Flash: danger(domain.Reason(err)), Data: form})
	default:
		h.writeInternalError(w, r, err)
	}
}

// LoginPage handles GET /login
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, loginTemplate, page{Title: "Login", Data: authForm{}})
}

// Login handles POST /login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if !readForm(w, r) {
		return
	}
	req := user.LoginRequest{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}

	u, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrValidation) {
			h.render(w, r, http.StatusOK, loginTemplate, page{
				Title: "Login",
				Flash: danger(msgBadCredentials),
				Data:  authForm{Email: req.Email},
			})
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	if err := h.Sessions.Establish(w, session.Session{UserID: u.ID, Name: u.Name}); err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	h.redirectFlash(w, r, "/dashboard", session.FlashSuccess, msgLoggedIn)
}

// Logout handles GET /logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	h.redirectFlash(w, r, "/", session.FlashSuccess, msgLoggedOut)
}
