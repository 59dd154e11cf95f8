package messages

import (
	"context"
	"strings"
	"time"

	"github.com/jordanlanch/leaddesk/pkg/domain"
	"github.com/jordanlanch/leaddesk/pkg/events"
	"github.com/jordanlanch/leaddesk/pkg/logger"
	"github.com/jordanlanch/leaddesk/pkg/metrics"
	"github.com/jordanlanch/leaddesk/pkg/models"
)

// Leads is what the message service needs from the lead service
type Leads interface {
	Exists(ctx context.Context, id int64) (bool, error)
	TouchInteraction(ctx context.Context, id int64, at time.Time) (int64, error)
}

// Service handles lead transcripts
type Service struct {
	store     *Store
	leads     Leads
	log       logger.Logger
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the time source used to stamp messages
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new message service. publisher and m may be nil.
func NewService(store *Store, leads Leads, log logger.Logger, publisher events.Publisher, m *metrics.Metrics, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	s := &Service{
		store:     store,
		leads:     leads,
		log:       log.With("component", "messages"),
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a lead's transcript, oldest first. Unknown leads have an
// empty transcript.
func (s *Service) List(ctx context.Context, leadID int64) ([]models.Message, error) {
	msgs, err := s.store.List(ctx, leadID)
	if err != nil {
		return nil, domain.NewStorageError("list messages", err)
	}
	return msgs, nil
}

// Append stores a message and then moves the lead's last interaction to the
// message time. The touch is a secondary write: its failure is logged and
// the append still succeeds.
func (s *Service) Append(ctx context.Context, req models.AppendMessageRequest) (*models.Message, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	ok, err := s.leads.Exists(ctx, req.LeadID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewValidationError("lead does not exist")
	}

	msg := models.Message{
		LeadID:    req.LeadID,
		Sender:    req.Sender,
		Message:   req.Message,
		Timestamp: s.now().UTC(),
	}

	id, err := s.store.Insert(ctx, msg)
	if err != nil {
		return nil, domain.NewStorageError("append message", err)
	}
	msg.ID = id
	s.metrics.RecordMessageAppended()

	if _, err := s.leads.TouchInteraction(ctx, msg.LeadID, msg.Timestamp); err != nil {
		s.log.Error("secondary write failed", "operation", "touch_interaction", "lead_id", msg.LeadID, "error", err)
		s.metrics.RecordSideEffectFailure("touch_interaction")
	}

	event := events.Event{Type: events.MessageAppended, LeadID: msg.LeadID, OccurredAt: msg.Timestamp, Payload: msg}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("secondary write failed", "operation", "publish_event", "event", event.Type, "error", err)
		s.metrics.RecordSideEffectFailure("publish_event")
	}

	return &msg, nil
}

func validate(req models.AppendMessageRequest) error {
	if req.LeadID <= 0 {
		return domain.NewValidationError("lead_id must be positive")
	}
	if req.Sender != models.SenderLead && req.Sender != models.SenderUser {
		return domain.NewValidationError("sender must be lead or user")
	}
	if strings.TrimSpace(req.Message) == "" {
		return domain.NewValidationError("message is required")
	}
	return nil
}
