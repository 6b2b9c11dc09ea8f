package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// DirectoryHandler serves the discover listing.
type DirectoryHandler struct {
	directory ports.DirectoryService
}

func NewDirectoryHandler(directory ports.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

type listUsersResponse struct {
	Users []domain.UserProfile `json:"users"`
}

// List returns every other member of the directory in signup order,
// optionally filtered by role.
//
// @Summary      Discover members
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "Filter by role"
// @Success      200   {object}  listUsersResponse
// @Router       /users [get]
func (h *DirectoryHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	roleFilter := domain.Role(c.QueryParam("role"))
	if roleFilter != "" && !roleFilter.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role filter")
	}

	users, err := h.directory.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	filtered := make([]domain.UserProfile, 0, len(users))
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		if roleFilter != "" && u.Role != roleFilter {
			continue
		}
		filtered = append(filtered, u)
	}

	return c.JSON(http.StatusOK, listUsersResponse{Users: filtered})
}
