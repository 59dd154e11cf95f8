package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/jordanlanch/leaddesk/pkg/api/errors"
	"github.com/jordanlanch/leaddesk/pkg/export"
	"github.com/jordanlanch/leaddesk/pkg/leads"
	"github.com/jordanlanch/leaddesk/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// ExportHandler serves the lead export download
type ExportHandler struct {
	leads   *leads.Service
	metrics *metrics.Metrics
}

// NewExportHandler creates a new export handler. m may be nil.
func NewExportHandler(leadService *leads.Service, m *metrics.Metrics) *ExportHandler {
	return &ExportHandler{leads: leadService, metrics: m}
}

// Download godoc
// @Summary Export leads
// @Description Every lead as a CSV or Excel attachment
// @Tags Export
// @Produce text/csv
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /export [get]
func (h *ExportHandler) Download(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	format := strings.ToLower(c.QueryParam("format"))
	if format == "" {
		format = export.FormatCSV
	}
	mime, filename, err := export.ContentType(format)
	if err != nil {
		return errors.ValidationMessage(c, "format must be csv or xlsx")
	}

	records, err := h.leads.Snapshot(ctx)
	if err != nil {
		return errors.HandleServiceError(c, err, "Lead")
	}

	// Render fully before writing headers so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, records); err != nil {
		return errors.InternalError(c, err)
	}
	h.metrics.RecordExportCreated(format)

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, mime, buf.Bytes())
}
