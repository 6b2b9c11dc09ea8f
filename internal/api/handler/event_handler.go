package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// EventHandler serves the community events page.
type EventHandler struct {
	events ports.EventService
}

func NewEventHandler(events ports.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type createEventRequest struct {
	Title       string    `json:"title"       validate:"required"`
	StartsAt    time.Time `json:"starts_at"   validate:"required"`
	Location    string    `json:"location"    validate:"required"`
	Description string    `json:"description"`
}

type listEventsResponse struct {
	Events []domain.Event `json:"events"`
}

// List returns upcoming events ordered by start time.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200  {object}  listEventsResponse
// @Router       /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.events.List(c.Request().Context())
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return c.JSON(http.StatusOK, listEventsResponse{Events: events})
}

// Create adds an event to the catalog. Admin only.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event details"
// @Success      201   {object}  domain.Event
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.events.Create(c.Request().Context(), ports.CreateEventInput{
		Title:       req.Title,
		StartsAt:    req.StartsAt,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}
