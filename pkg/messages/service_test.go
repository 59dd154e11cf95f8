package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jordanlanch/leaddesk/pkg/database/dbtest"
	"github.com/jordanlanch/leaddesk/pkg/domain"
	"github.com/jordanlanch/leaddesk/pkg/events"
	"github.com/jordanlanch/leaddesk/pkg/leads"
	"github.com/jordanlanch/leaddesk/pkg/logger"
	"github.com/jordanlanch/leaddesk/pkg/metrics"
	"github.com/jordanlanch/leaddesk/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLeads struct {
	mock.Mock
}

func (m *mockLeads) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockLeads) TouchInteraction(ctx context.Context, id int64, at time.Time) (int64, error) {
	args := m.Called(ctx, id, at)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	messages *Service
	leads    *leads.Service
	events   *events.Recorder
	metrics  *metrics.Metrics
}

func setupTestServices(t *testing.T) fixture {
	db := dbtest.Open(t)
	rec := &events.Recorder{}
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	leadService := leads.NewService(leads.NewStore(db.DB, db.Dialect()), logger.Discard())
	msgService := NewService(NewStore(db.DB, db.Dialect()), leadService, logger.Discard(), rec, m)

	return fixture{messages: msgService, leads: leadService, events: rec, metrics: m}
}

func TestAppend(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - stored and touches the lead", func(t *testing.T) {
		f := setupTestServices(t)
		lead, err := f.leads.Create(ctx, models.CreateLeadRequest{Name: "Sarah Parker"})
		require.NoError(t, err)

		at := lead.LastInteraction.Add(time.Hour)
		f.messages.now = func() time.Time { return at }

		msg, err := f.messages.Append(ctx, models.AppendMessageRequest{LeadID: lead.ID, Sender: models.SenderLead, Message: "Hi! I saw your ad."})
		require.NoError(t, err)
		assert.NotZero(t, msg.ID)
		assert.True(t, at.Equal(msg.Timestamp))

		detail, err := f.leads.Get(ctx, lead.ID)
		require.NoError(t, err)
		assert.True(t, at.Equal(detail.LastInteraction))

		assert.Equal(t, []string{events.MessageAppended}, f.events.Types())
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.MessagesAppended))
	})

	t.Run("Error - validation", func(t *testing.T) {
		f := setupTestServices(t)
		lead, err := f.leads.Create(ctx, models.CreateLeadRequest{Name: "Mike"})
		require.NoError(t, err)

		cases := []models.AppendMessageRequest{
			{LeadID: lead.ID, Sender: "bot", Message: "hi"},
			{LeadID: lead.ID, Sender: models.SenderUser, Message: "   "},
			{LeadID: 0, Sender: models.SenderUser, Message: "hi"},
			{LeadID: 9999, Sender: models.SenderUser, Message: "hi"},
		}
		for _, req := range cases {
			_, err := f.messages.Append(ctx, req)
			assert.True(t, domain.IsValidation(err), "request %+v", req)
		}

		msgs, err := f.messages.List(ctx, lead.ID)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestAppend_TouchFailureDoesNotFailAppend(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	leadService := leads.NewService(leads.NewStore(db.DB, db.Dialect()), logger.Discard())
	lead, err := leadService.Create(ctx, models.CreateLeadRequest{Name: "Linda Chen"})
	require.NoError(t, err)

	ml := new(mockLeads)
	ml.On("Exists", mock.Anything, lead.ID).Return(true, nil)
	ml.On("TouchInteraction", mock.Anything, lead.ID, mock.AnythingOfType("time.Time")).
		Return(int64(0), domain.NewStorageError("touch lead interaction", errors.New("database is locked")))

	svc := NewService(NewStore(db.DB, db.Dialect()), ml, logger.Discard(), nil, m)

	msg, err := svc.Append(ctx, models.AppendMessageRequest{LeadID: lead.ID, Sender: models.SenderUser, Message: "Following up"})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectFailures.WithLabelValues("touch_interaction")))
	ml.AssertExpectations(t)

	msgs, err := svc.List(ctx, lead.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestAppend_LookupFailureSurfaces(t *testing.T) {
	db := dbtest.Open(t)
	ml := new(mockLeads)
	ml.On("Exists", mock.Anything, int64(3)).Return(false, domain.NewStorageError("look up lead", errors.New("boom")))

	svc := NewService(NewStore(db.DB, db.Dialect()), ml, logger.Discard(), nil, nil)

	_, err := svc.Append(context.Background(), models.AppendMessageRequest{LeadID: 3, Sender: models.SenderLead, Message: "hi"})
	assert.True(t, domain.IsStorageFailure(err))
	ml.AssertNotCalled(t, "TouchInteraction", mock.Anything, mock.Anything, mock.Anything)
}

func TestList_ChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	f := setupTestServices(t)
	lead, err := f.leads.Create(ctx, models.CreateLeadRequest{Name: "Sarah Parker"})
	require.NoError(t, err)
	other, err := f.leads.Create(ctx, models.CreateLeadRequest{Name: "Other"})
	require.NoError(t, err)

	base := time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)
	texts := []string{"Hi! I saw your ad.", "Hey Sarah! Thanks for reaching out.", "Yes, what is the price?"}
	senders := []string{models.SenderLead, models.SenderUser, models.SenderLead}
	for i, text := range texts {
		at := base.Add(time.Duration(i) * time.Minute)
		f.messages.now = func() time.Time { return at }
		_, err := f.messages.Append(ctx, models.AppendMessageRequest{LeadID: lead.ID, Sender: senders[i], Message: text})
		require.NoError(t, err)
	}
	_, err = f.messages.Append(ctx, models.AppendMessageRequest{LeadID: other.ID, Sender: models.SenderLead, Message: "unrelated"})
	require.NoError(t, err)

	msgs, err := f.messages.List(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, m := range msgs {
		assert.Equal(t, texts[i], m.Message)
		assert.Equal(t, senders[i], m.Sender)
	}

	empty, err := f.messages.List(ctx, 4242)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDeleteLeadRemovesTranscript(t *testing.T) {
	ctx := context.Background()
	f := setupTestServices(t)
	lead, err := f.leads.Create(ctx, models.CreateLeadRequest{Name: "Kevin Harris"})
	require.NoError(t, err)

	_, err = f.messages.Append(ctx, models.AppendMessageRequest{LeadID: lead.ID, Sender: models.SenderLead, Message: "hello"})
	require.NoError(t, err)

	_, err = f.leads.Delete(ctx, lead.ID)
	require.NoError(t, err)

	msgs, err := f.messages.List(ctx, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
