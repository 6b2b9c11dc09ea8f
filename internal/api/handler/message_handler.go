package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// MessageHandler serves direct-message conversations. Clients poll the GET
// endpoint for new messages.
type MessageHandler struct {
	messages ports.MessageService
}

func NewMessageHandler(messages ports.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type conversationResponse struct {
	Messages []domain.Message `json:"messages"`
}

// Conversation returns the full message log with the given user.
//
// @Summary      Read a conversation
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Other participant's user id"
// @Success      200  {object}  conversationResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/messages [get]
func (h *MessageHandler) Conversation(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	msgs, err := h.messages.Conversation(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return c.JSON(http.StatusOK, conversationResponse{Messages: msgs})
}

// Send appends a message to the conversation with the given user.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Recipient's user id"
// @Param        body  body      sendMessageRequest  true  "Message text"
// @Success      201   {object}  domain.Message
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.messages.Send(c.Request().Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}
