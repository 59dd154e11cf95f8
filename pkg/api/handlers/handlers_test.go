package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jordanlanch/leaddesk/pkg/database"
	"github.com/jordanlanch/leaddesk/pkg/database/dbtest"
	"github.com/jordanlanch/leaddesk/pkg/leads"
	"github.com/jordanlanch/leaddesk/pkg/logger"
	"github.com/jordanlanch/leaddesk/pkg/messages"
	"github.com/jordanlanch/leaddesk/pkg/metrics"
	"github.com/jordanlanch/leaddesk/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e        *echo.Echo
	db       *database.Client
	leads    *leads.Service
	messages *messages.Service
	metrics  *metrics.Metrics
}

// newTestServer wires the handlers over a fresh in-memory database the same
// way cmd/api does.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := dbtest.Open(t)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	leadService := leads.NewService(leads.NewStore(db.DB, db.Dialect()), logger.Discard(), leads.WithMetrics(m))
	msgService := messages.NewService(messages.NewStore(db.DB, db.Dialect()), leadService, logger.Discard(), nil, m)

	e := echo.New()
	Register(e, leadService, msgService, m)
	e.GET("/health", NewHealthHandler(db, nil).Check)

	return &testServer{e: e, db: db, leads: leadService, messages: msgService, metrics: m}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createLead(t *testing.T, req models.CreateLeadRequest) *models.Lead {
	t.Helper()
	lead, err := s.leads.Create(context.Background(), req)
	require.NoError(t, err)
	return lead
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// envelope is the success body shared by the lead and message endpoints
type envelope[T any] struct {
	Message   string `json:"message"`
	Data      T      `json:"data"`
	ID        int64  `json:"id"`
	Changes   int64  `json:"changes"`
	UpdatedID int64  `json:"updated_id"`
}
