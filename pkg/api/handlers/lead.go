package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jordanlanch/leaddesk/pkg/api/errors"
	"github.com/jordanlanch/leaddesk/pkg/leads"
	"github.com/jordanlanch/leaddesk/pkg/models"
	"github.com/labstack/echo/v4"
)

const requestTimeout = 5 * time.Second

// LeadHandler handles lead endpoints
type LeadHandler struct {
	service   *leads.Service
	validator *validator.Validate
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(service *leads.Service) *LeadHandler {
	return &LeadHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Register mounts the lead routes on g
func (h *LeadHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/bulk/status", h.BulkStatus)
	g.POST("/bulk/tags", h.BulkTags)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/tags", h.AddTag)
	g.DELETE("/:id/tags/:tag", h.RemoveTag)
}

// parseID reads a positive integer path parameter
func parseID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// List godoc
// @Summary List leads
// @Description All leads, most recent interaction first, optionally filtered
// @Tags Leads
// @Produce json
// @Param q query string false "Free text over name, email, source and tags"
// @Param status query string false "Exact status"
// @Param tag query string false "Tag membership"
// @Param min_score query int false "Minimum score"
// @Param max_score query int false "Maximum score"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	filter := models.LeadFilter{
		Query:  c.QueryParam("q"),
		Status: c.QueryParam("status"),
		Tag:    c.QueryParam("tag"),
	}
	for name, dst := range map[string]**int{"min_score": &filter.MinScore, "max_score": &filter.MaxScore} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return errors.ValidationMessage(c, name+" must be an integer")
		}
		*dst = &v
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "success",
		"data":    result,
	})
}

// Get godoc
// @Summary Get a lead
// @Description A lead with its score history, newest entry first
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} models.LeadDetail
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, ok := parseID(c, "id")
	if !ok {
		return errors.InvalidIDError(c, "Lead ID")
	}

	detail, err := h.service.Get(ctx, id)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusOK, detail)
}

// Create godoc
// @Summary Create a lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body models.CreateLeadRequest true "Lead"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var req models.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	lead, err := h.service.Create(ctx, req)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "success",
		"data":    lead,
		"id":      lead.ID,
	})
}

// Update godoc
// @Summary Update a lead
// @Description Sparse update, only fields present in the body are written. A score change is recorded in the ledger.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body models.UpdateLeadRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads/{id} [put]
func (h *LeadHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, ok := parseID(c, "id")
	if !ok {
		return errors.InvalidIDError(c, "Lead ID")
	}

	var req models.UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	result, err := h.service.Update(ctx, id, req)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "success",
		"changes":    result.Changes,
		"updated_id": result.UpdatedID,
	})
}

// Delete godoc
// @Summary Delete a lead
// @Description Removes the lead together with its messages and score history
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, ok := parseID(c, "id")
	if !ok {
		return errors.InvalidIDError(c, "Lead ID")
	}

	changes, err := h.service.Delete(ctx, id)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "deleted",
		"changes": changes,
	})
}

// AddTag godoc
// @Summary Add a tag to a lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body models.TagRequest true "Tag"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /leads/{id}/tags [post]
func (h *LeadHandler) AddTag(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, ok := parseID(c, "id")
	if !ok {
		return errors.InvalidIDError(c, "Lead ID")
	}

	var req models.TagRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	tags, err := h.service.AddTag(ctx, id, req.Tag)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "success",
		"data":    tags,
	})
}

// RemoveTag godoc
// @Summary Remove a tag from a lead
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Param tag path string true "Tag"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /leads/{id}/tags/{tag} [delete]
func (h *LeadHandler) RemoveTag(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, ok := parseID(c, "id")
	if !ok {
		return errors.InvalidIDError(c, "Lead ID")
	}

	tag, err := url.PathUnescape(c.Param("tag"))
	if err != nil {
		return errors.ValidationError(c, err)
	}

	tags, err := h.service.RemoveTag(ctx, id, tag)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "success",
		"data":    tags,
	})
}

// BulkStatus godoc
// @Summary Set the status of several leads
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body models.BulkStatusRequest true "Lead ids and status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads/bulk/status [post]
func (h *LeadHandler) BulkStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var req models.BulkStatusRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	changes, err := h.service.BulkUpdateStatus(ctx, req.IDs, req.Status)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "success",
		"changes": changes,
	})
}

// BulkTags godoc
// @Summary Add a tag to several leads
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body models.BulkTagRequest true "Lead ids and tag"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads/bulk/tags [post]
func (h *LeadHandler) BulkTags(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var req models.BulkTagRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	changes, err := h.service.BulkAddTag(ctx, req.IDs, req.Tag)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "success",
		"changes": changes,
	})
}
