package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
	"github.com/ecoshop/storefront/internal/core/service"
)

type AuthHandler struct {
	pages
	auth     ports.AuthService
	sessions ports.SessionService
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionService, notices ports.NoticeBoard) *AuthHandler {
	return &AuthHandler{pages: pages{notices: notices}, auth: auth, sessions: sessions}
}

// LoginPage renders the sign-in form.
//
// @Summary      Login form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return h.render(c, "login", formView{Action: domain.PathLogin, Fields: []string{"username", "password"}})
}

// Login signs in and makes the result the process session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest       true  "Login credentials"
// @Success      200   {object}  actionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.auth.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return fail(err, "Login failed. Please try again.")
	}
	return h.done(c, http.StatusOK, "Welcome, "+s.Identity.Username+"!", 0, domain.PathHome, toSessionView(s))
}

// RegisterPage renders the sign-up form.
//
// @Summary      Registration form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /register [get]
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return h.render(c, "register", formView{Action: domain.PathRegister, Fields: []string{"username", "email", "password"}})
}

// Register creates the account and signs into it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest    true  "User registration details"
// @Success      201   {object}  actionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.SignUpInput{Username: req.Username, Email: req.Email, Password: req.Password}
	s, msg, err := h.auth.RegisterAndSignIn(c.Request().Context(), in)
	switch {
	case errors.Is(err, service.ErrRegisteredNotSignedIn):
		return h.done(c, http.StatusCreated, msg+". Please login.", 0, domain.PathLogin, nil)
	case err != nil:
		return fail(err, "Registration failed. Please try again.")
	}
	return h.done(c, http.StatusCreated, msg, 0, domain.PathHome, toSessionView(s))
}

// Logout forgets the credential. It never fails.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  actionResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	s := h.sessions.Logout(c.Request().Context())
	return h.done(c, http.StatusOK, "You have been logged out", 0, domain.PathHome, toSessionView(s))
}

// Session reports the current session without gating.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionView
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionView(currentSession(c)))
}
