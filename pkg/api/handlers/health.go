package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency whose reachability is reported by /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and dependency status
type HealthHandler struct {
	database Pinger
	cache    Pinger
}

// NewHealthHandler creates a health handler. cache may be nil when Redis is not configured.
func NewHealthHandler(database, cache Pinger) *HealthHandler {
	return &HealthHandler{database: database, cache: cache}
}

// Check godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.database.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "down",
		})
	}

	resp := map[string]string{
		"status":   "ok",
		"database": "up",
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			resp["status"] = "degraded"
			resp["cache"] = "down"
		} else {
			resp["cache"] = "up"
		}
	}

	return c.JSON(http.StatusOK, resp)
}
