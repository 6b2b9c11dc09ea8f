package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	directory ports.DirectoryService
}

func NewProfileHandler(directory ports.DirectoryService) *ProfileHandler {
	return &ProfileHandler{directory: directory}
}

type updateProfileRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=1"`
	Bio       *string  `json:"bio"`
	Interests []string `json:"interests"`
	Avatar    *string  `json:"avatar"`
}

// Me returns the caller's current profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserProfile
// @Failure      404  {object}  map[string]string
// @Router       /me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.directory.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update merges the given fields into the caller's profile. Role and blocked
// status cannot be edited here; those are admin-only operations.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.UserProfile
// @Failure      400   {object}  map[string]string
// @Router       /me [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.directory.UpdateProfile(c.Request().Context(), userID, ports.UpdateProfileInput{
		Name:      req.Name,
		Bio:       req.Bio,
		Interests: req.Interests,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
