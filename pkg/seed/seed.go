// Package seed loads demo and generated leads through the services so the
// score ledger and transcripts stay consistent.
package seed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jordanlanch/leaddesk/pkg/database"
	"github.com/jordanlanch/leaddesk/pkg/leads"
	"github.com/jordanlanch/leaddesk/pkg/logger"
	"github.com/jordanlanch/leaddesk/pkg/messages"
	"github.com/jordanlanch/leaddesk/pkg/models"
)

// Result counts what a run stored
type Result struct {
	Leads    int
	Messages int
	Removed  int64
}

// Seeder writes fixtures through the lead and message services
type Seeder struct {
	leads    *leads.Service
	messages *messages.Service
	log      logger.Logger

	mu sync.Mutex
	at time.Time
}

// NewSeeder creates a seeder over db. leadService is used for every lead
// write; transcripts go through a message service stamped by the seeder.
func NewSeeder(db *database.Client, leadService *leads.Service, log logger.Logger) *Seeder {
	s := &Seeder{leads: leadService, log: log.With("component", "seed")}
	s.messages = messages.NewService(
		messages.NewStore(db.DB, db.Dialect()),
		leadService,
		log,
		nil,
		nil,
		messages.WithClock(s.clock),
	)
	return s
}

func (s *Seeder) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.at
}

func (s *Seeder) setClock(t time.Time) {
	s.mu.Lock()
	s.at = t
	s.mu.Unlock()
}

// Reset deletes every stored lead. Messages and ledger entries go with them.
func (s *Seeder) Reset(ctx context.Context) (int64, error) {
	records, err := s.leads.Snapshot(ctx)
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, r := range records {
		n, err := s.leads.Delete(ctx, r.ID)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

// Load stores fixtures relative to now. Each lead ends with its last
// interaction at now minus its Ago, whatever its transcript says.
func (s *Seeder) Load(ctx context.Context, fixtures []LeadFixture, now time.Time) (Result, error) {
	var res Result
	for _, f := range fixtures {
		lead, err := s.leads.Create(ctx, f.Lead)
		if err != nil {
			return res, fmt.Errorf("failed to create lead %q: %w", f.Lead.Name, err)
		}
		res.Leads++

		for _, m := range f.Messages {
			s.setClock(now.Add(-m.Ago))
			if _, err := s.messages.Append(ctx, models.AppendMessageRequest{LeadID: lead.ID, Sender: m.Sender, Message: m.Text}); err != nil {
				return res, fmt.Errorf("failed to append message for lead %d: %w", lead.ID, err)
			}
			res.Messages++
		}

		at := now.Add(-f.Ago).UTC()
		if _, err := s.leads.Update(ctx, lead.ID, models.UpdateLeadRequest{LastInteraction: models.Some(at)}); err != nil {
			return res, fmt.Errorf("failed to date lead %d: %w", lead.ID, err)
		}
	}

	s.log.Info("seed loaded", "leads", res.Leads, "messages", res.Messages)
	return res, nil
}
