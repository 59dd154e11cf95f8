package handlers

import (
	"github.com/jordanlanch/leaddesk/pkg/leads"
	"github.com/jordanlanch/leaddesk/pkg/messages"
	"github.com/jordanlanch/leaddesk/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// Register mounts the lead, message and export routes
func Register(e *echo.Echo, leadService *leads.Service, msgService *messages.Service, m *metrics.Metrics) {
	NewLeadHandler(leadService).Register(e.Group("/leads"))

	messageHandler := NewMessageHandler(msgService)
	e.GET("/messages/:leadId", messageHandler.List)
	e.POST("/messages", messageHandler.Append)

	e.GET("/export", NewExportHandler(leadService, m).Download)
}
