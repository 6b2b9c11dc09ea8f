package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// AdminHandler exposes the moderation panel operations. Every route is
// guarded by the RBAC middleware, so the role check happens server-side
// before any of these run.
type AdminHandler struct {
	directory ports.DirectoryService
}

func NewAdminHandler(directory ports.DirectoryService) *AdminHandler {
	return &AdminHandler{directory: directory}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=pup handler furry ally admin"`
}

// ListUsers returns the full directory, including the caller.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.directory.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.UserProfile{}
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}

// DeleteUser removes a profile. If the target is currently logged in, their
// session is destroyed with it.
//
// @Summary      Delete a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204  "user removed"
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.directory.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangeRole sets a user's role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  domain.UserProfile
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.directory.ChangeUserRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ToggleBlock flips a user's blocked flag.
//
// @Summary      Block or unblock a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  domain.UserProfile
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id}/block [post]
func (h *AdminHandler) ToggleBlock(c echo.Context) error {
	user, err := h.directory.ToggleBlockUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
