package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// AuthHandler handles signup, login, logout, and verification resends.
type AuthHandler struct {
	directory ports.DirectoryService
}

func NewAuthHandler(directory ports.DirectoryService) *AuthHandler {
	return &AuthHandler{directory: directory}
}

type signupRequest struct {
	Email     string   `json:"email"     validate:"required,email"`
	Password  string   `json:"password"  validate:"required,min=8"`
	Role      string   `json:"role"      validate:"required,oneof=pup handler furry ally admin"`
	Name      string   `json:"name"      validate:"required"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
	Avatar    string   `json:"avatar"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type authResponse struct {
	Token string              `json:"token,omitempty"`
	User  *domain.UserProfile `json:"user,omitempty"`
}

// Signup registers a new profile and opens a session.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.directory.Signup(c.Request().Context(), ports.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
		Name:      req.Name,
		Bio:       req.Bio,
		Interests: req.Interests,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.directory.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// Logout destroys the caller's session.
//
// @Summary      Log out
// @Tags         auth
// @Security     BearerAuth
// @Success      204  "session destroyed"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.directory.Logout(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ResendVerification re-sends the verification email, subject to a cooldown.
//
// @Summary      Resend verification email
// @Tags         auth
// @Accept       json
// @Param        body  body  resendRequest  true  "Account email"
// @Success      202   "verification queued"
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.directory.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}
