package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jordanlanch/leaddesk/pkg/api/errors"
	"github.com/jordanlanch/leaddesk/pkg/messages"
	"github.com/jordanlanch/leaddesk/pkg/models"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles lead transcript endpoints
type MessageHandler struct {
	service   *messages.Service
	validator *validator.Validate
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(service *messages.Service) *MessageHandler {
	return &MessageHandler{
		service:   service,
		validator: validator.New(),
	}
}

// List godoc
// @Summary List a lead's messages
// @Description Transcript of a lead in chronological order
// @Tags Messages
// @Produce json
// @Param leadId path int true "Lead ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /messages/{leadId} [get]
func (h *MessageHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	leadID, ok := parseID(c, "leadId")
	if !ok {
		return errors.InvalidIDError(c, "Lead ID")
	}

	msgs, err := h.service.List(ctx, leadID)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "success",
		"data":    msgs,
	})
}

// Append godoc
// @Summary Append a message
// @Description Stores a message and moves the lead's last interaction to its time
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body models.AppendMessageRequest true "Message"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Append(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var req models.AppendMessageRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	msg, err := h.service.Append(ctx, req)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "success",
		"data":    msg,
	})
}
