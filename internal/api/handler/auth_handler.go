package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/catalogworks/catalog/internal/api/metrics"
	"github.com/catalogworks/catalog/internal/api/session"
	"github.com/catalogworks/catalog/internal/core/domain"
	"github.com/catalogworks/catalog/internal/core/ports"
)

// AuthHandler serves the login, register, logout, and history pages.
type AuthHandler struct {
	auth     ports.AuthService
	sessions *session.Manager
	logger   zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, sessions *session.Manager, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, logger: logger}
}

type loginRequest struct {
	UserName string `form:"userName" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type registerRequest struct {
	UserName string `form:"userName" validate:"required,max=100"`
	Email    string `form:"email" validate:"omitempty,email"`
	Password string `form:"password" validate:"required,min=8"`
}

type loginPage struct {
	ErrorMessage string
	UserName     string
}

type registerPage struct {
	SuccessMessage string
	ErrorMessage   string
	UserName       string
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", loginPage{})
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", registerPage{})
}

// Login handles POST /login: authenticate, set the session cookie, and
// redirect to the item listing. On failure the form is re-rendered with the
// error and the submitted user name pre-filled.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusOK, "login.html", loginPage{ErrorMessage: "invalid form"})
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, "login.html", loginPage{ErrorMessage: err.Error(), UserName: req.UserName})
	}

	user, err := h.auth.Login(c.Request().Context(), ports.Credentials{
		UserName:  req.UserName,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return c.Render(http.StatusOK, "login.html", loginPage{
			ErrorMessage: loginErrorMessage(err),
			UserName:     req.UserName,
		})
	}

	if err := h.sessions.Issue(c, user); err != nil {
		h.logger.Error().Err(err).Str("user", user.UserName).Msg("failed to issue session")
		return c.Render(http.StatusOK, "login.html", loginPage{
			ErrorMessage: "unable to start a session",
			UserName:     req.UserName,
		})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusFound, "/items")
}

// Register handles POST /register. Both outcomes re-render the form, with
// a success or error message.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusOK, "register.html", registerPage{ErrorMessage: "invalid form"})
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, "register.html", registerPage{ErrorMessage: err.Error(), UserName: req.UserName})
	}

	_, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		msg := "unable to create user"
		if errors.Is(err, domain.ErrUserExists) {
			msg = "user name already taken"
		}
		return c.Render(http.StatusOK, "register.html", registerPage{ErrorMessage: msg, UserName: req.UserName})
	}

	return c.Render(http.StatusOK, "register.html", registerPage{SuccessMessage: "User created"})
}

// Logout handles GET /logout: the session is invalidated immediately,
// independent of its timer.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.Redirect(http.StatusFound, "/")
}

// UserHistory handles GET /userHistory; the history is read from the
// session carried by the request.
func (h *AuthHandler) UserHistory(c echo.Context) error {
	return c.Render(http.StatusOK, "userHistory.html", nil)
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "too many failed attempts, try again later"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid user name or password"
	default:
		return "unable to log in"
	}
}
