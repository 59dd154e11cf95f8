package leads

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/jordanlanch/leaddesk/pkg/domain"
	"github.com/jordanlanch/leaddesk/pkg/events"
	"github.com/jordanlanch/leaddesk/pkg/logger"
	"github.com/jordanlanch/leaddesk/pkg/metrics"
	"github.com/jordanlanch/leaddesk/pkg/models"
	"golang.org/x/text/cases"
)

const listCacheKey = "leads:list"

// ListCache is the cache the lead list is served from. *cache.Client
// satisfies it.
type ListCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	IsMiss(err error) bool
}

// Service handles lead business logic
type Service struct {
	store     *Store
	locks     *keyedMutex
	log       logger.Logger
	cache     ListCache
	cacheTTL  time.Duration
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithCache serves the unfiltered list from c for ttl
func WithCache(c ListCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithPublisher publishes lead events to p
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics records business metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new lead service
func NewService(store *Store, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		locks:     newKeyedMutex(),
		log:       log.With("component", "leads"),
		publisher: events.Noop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns leads ordered by last interaction, newest first, narrowed by filter
func (s *Service) List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	all, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return all, nil
	}
	return applyFilter(all, filter), nil
}

func (s *Service) listAll(ctx context.Context) ([]models.Lead, error) {
	if cached, ok := s.cachedList(ctx); ok {
		return cached, nil
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, domain.NewStorageError("list leads", err)
	}

	leads := make([]models.Lead, 0, len(records))
	for _, rec := range records {
		leads = append(leads, rec.Lead())
	}

	s.storeList(ctx, leads)
	return leads, nil
}

func (s *Service) cachedList(ctx context.Context) ([]models.Lead, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, listCacheKey)
	if err != nil && !s.cache.IsMiss(err) {
		s.sideEffectFailed("cache_read", err)
		return nil, false
	}
	if err != nil || raw == "" {
		s.metrics.RecordCacheMiss("redis")
		return nil, false
	}

	var leads []models.Lead
	if err := json.Unmarshal([]byte(raw), &leads); err != nil {
		s.log.Warn("discarding unreadable cached lead list", "error", err)
		s.metrics.RecordCacheMiss("redis")
		return nil, false
	}

	s.metrics.RecordCacheHit("redis")
	return leads, true
}

func (s *Service) storeList(ctx context.Context, leads []models.Lead) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(leads)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, listCacheKey, data, s.cacheTTL); err != nil {
		s.sideEffectFailed("cache_store", err)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.sideEffectFailed("cache_invalidate", err)
	}
}

// applyFilter keeps the leads matching every set criterion. Text comparisons
// use Unicode case folding.
func applyFilter(leads []models.Lead, f models.LeadFilter) []models.Lead {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(f.Query))
	status := fold.String(strings.TrimSpace(f.Status))
	tag := fold.String(strings.TrimSpace(f.Tag))

	out := []models.Lead{}
	for _, l := range leads {
		if status != "" && fold.String(l.Status) != status {
			continue
		}
		if f.MinScore != nil && l.Score < *f.MinScore {
			continue
		}
		if f.MaxScore != nil && l.Score > *f.MaxScore {
			continue
		}

		tags := l.Tags.Values()
		if tag != "" && !slices.ContainsFunc(tags, func(t string) bool { return fold.String(t) == tag }) {
			continue
		}

		if query != "" {
			fields := append([]string{l.Name, l.Email, l.Source}, tags...)
			if !slices.ContainsFunc(fields, func(v string) bool { return strings.Contains(fold.String(v), query) }) {
				continue
			}
		}

		out = append(out, l)
	}
	return out
}

// Get returns a lead with its score history. A failing history read is
// logged and yields an empty history.
func (s *Service) Get(ctx context.Context, id int64) (*models.LeadDetail, error) {
	rec, err := s.store.Get(ctx, id)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, domain.NewNotFoundError("lead")
	}
	if err != nil {
		return nil, domain.NewStorageError("get lead", err)
	}

	history, err := s.store.History(ctx, id)
	if err != nil {
		s.sideEffectFailed("score_history_read", err, "lead_id", id)
		history = []models.ScoreEntry{}
	}

	return &models.LeadDetail{Lead: rec.Lead(), ScoreHistory: history}, nil
}

// Create stores a new lead. A positive initial score is recorded in the
// ledger; failing to do so is logged and does not fail the creation.
func (s *Service) Create(ctx context.Context, req models.CreateLeadRequest) (*models.Lead, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = models.StatusNewLead
	}

	rec := models.LeadRecord{
		Name:            req.Name,
		Email:           req.Email,
		Status:          status,
		Score:           req.Score,
		Tags:            req.Tags.Encode(),
		Source:          req.Source,
		AssignedTo:      req.AssignedTo,
		LastInteraction: s.now().UTC(),
		DealValue:       req.DealValue,
	}

	id, err := s.store.Insert(ctx, rec)
	if err != nil {
		return nil, domain.NewStorageError("create lead", err)
	}
	rec.ID = id

	if rec.Score > 0 {
		if _, err := s.store.AppendScore(ctx, id, rec.Score, models.ReasonInitialScore, rec.LastInteraction); err != nil {
			s.sideEffectFailed("initial_score", err, "lead_id", id)
		} else {
			s.metrics.RecordScoreEntry(models.ReasonInitialScore)
		}
	}

	s.invalidate(ctx)
	s.metrics.RecordLeadCreated()

	lead := rec.Lead()
	s.publish(ctx, events.LeadCreated, id, lead)
	s.log.Info("lead created", "lead_id", id)

	return &lead, nil
}

// Update applies a sparse update. A changed score writes one ledger entry
// with the delta in the same transaction as the row update, under the lead's
// lock. A missing lead yields zero changes.
func (s *Service) Update(ctx context.Context, id int64, req models.UpdateLeadRequest) (models.UpdateResult, error) {
	set, err := assignments(req)
	if err != nil {
		return models.UpdateResult{}, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	var (
		changes     int64
		ledgerEntry bool
	)
	err = s.store.InTx(ctx, func(tx *Store) error {
		if req.Score.Set {
			current, err := tx.Score(ctx, id)
			if errors.Is(err, stdsql.ErrNoRows) {
				return nil
			}
			if err != nil {
				return err
			}

			if delta := req.Score.Value - current; delta != 0 {
				if _, err := tx.AppendScore(ctx, id, delta, models.ReasonManualUpdate, s.now()); err != nil {
					return err
				}
				ledgerEntry = true
			}
		}

		n, err := tx.Update(ctx, id, set)
		changes = n
		return err
	})
	if err != nil {
		return models.UpdateResult{}, domain.NewStorageError("update lead", err)
	}

	if ledgerEntry {
		s.metrics.RecordScoreEntry(models.ReasonManualUpdate)
	}
	if changes > 0 {
		s.invalidate(ctx)
		s.publish(ctx, events.LeadUpdated, id, nil)
	}

	return models.UpdateResult{Changes: changes, UpdatedID: id}, nil
}

// assignments turns the present fields of req into column writes
func assignments(req models.UpdateLeadRequest) ([]assignment, error) {
	var set []assignment

	text := []struct {
		column string
		field  models.Optional[string]
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"status", req.Status},
		{"source", req.Source},
		{"assigned_to", req.AssignedTo},
	}
	for _, f := range text {
		if !f.field.Set {
			continue
		}
		if f.field.Null {
			return nil, domain.NewValidationError(f.column + " cannot be null")
		}
		set = append(set, assignment{column: f.column, value: f.field.Value})
	}

	if req.Score.Set {
		if req.Score.Null {
			return nil, domain.NewValidationError("score cannot be null")
		}
		set = append(set, assignment{column: "score", value: req.Score.Value})
	}
	if req.Tags.Set {
		if req.Tags.Null {
			return nil, domain.NewValidationError("tags cannot be null")
		}
		set = append(set, assignment{column: "tags", value: req.Tags.Value.Encode()})
	}
	if req.LastInteraction.Set {
		if req.LastInteraction.Null {
			return nil, domain.NewValidationError("last_interaction cannot be null")
		}
		set = append(set, assignment{column: "last_interaction", value: req.LastInteraction.Value.UTC()})
	}
	if req.DealValue.Set {
		if req.DealValue.Null {
			set = append(set, assignment{column: "deal_value", null: true})
		} else {
			set = append(set, assignment{column: "deal_value", value: req.DealValue.Value})
		}
	}

	if len(set) == 0 {
		return nil, domain.NewValidationError("no fields to update")
	}
	return set, nil
}

// Delete removes a lead together with its messages and ledger entries
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	changes, err := s.store.Delete(ctx, id)
	if err != nil {
		return 0, domain.NewStorageError("delete lead", err)
	}

	if changes > 0 {
		s.invalidate(ctx)
		s.publish(ctx, events.LeadDeleted, id, nil)
		s.log.Info("lead deleted", "lead_id", id)
	}
	return changes, nil
}

// AddTag adds tag to a lead's tag set and returns the resulting set
func (s *Service) AddTag(ctx context.Context, id int64, tag string) (models.TagSet, error) {
	tags, _, err := s.editTags(ctx, id, tag, func(t *models.TagSet, v string) bool { return t.Add(v) })
	return tags, err
}

// RemoveTag removes tag from a lead's tag set. Removing an absent tag is a no-op.
func (s *Service) RemoveTag(ctx context.Context, id int64, tag string) (models.TagSet, error) {
	tags, _, err := s.editTags(ctx, id, tag, func(t *models.TagSet, v string) bool { return t.Remove(v) })
	return tags, err
}

func (s *Service) editTags(ctx context.Context, id int64, tag string, edit func(*models.TagSet, string) bool) (models.TagSet, bool, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return models.TagSet{}, false, domain.NewValidationError("tag is required")
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	var (
		tags    models.TagSet
		changed bool
	)
	err := s.store.InTx(ctx, func(tx *Store) error {
		rec, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}

		tags = models.ParseTagSet(rec.Tags)
		if changed = edit(&tags, tag); !changed {
			return nil
		}

		_, err = tx.Update(ctx, id, []assignment{{column: "tags", value: tags.Encode()}})
		return err
	})
	if errors.Is(err, stdsql.ErrNoRows) {
		return models.TagSet{}, false, domain.NewNotFoundError("lead")
	}
	if err != nil {
		return models.TagSet{}, false, domain.NewStorageError("update lead tags", err)
	}

	if changed {
		s.invalidate(ctx)
		s.publish(ctx, events.LeadUpdated, id, nil)
	}
	return tags, changed, nil
}

// BulkUpdateStatus sets status on every listed lead and returns the total changes
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewValidationError("ids are required")
	}
	if strings.TrimSpace(status) == "" {
		return 0, domain.NewValidationError("status is required")
	}

	var total int64
	for _, id := range ids {
		res, err := s.Update(ctx, id, models.UpdateLeadRequest{Status: models.Some(status)})
		if err != nil {
			return total, err
		}
		total += res.Changes
	}
	return total, nil
}

// BulkAddTag adds tag to every listed lead. Missing leads are skipped and
// leads that already carry the tag do not count as changed.
func (s *Service) BulkAddTag(ctx context.Context, ids []int64, tag string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewValidationError("ids are required")
	}

	var total int64
	for _, id := range ids {
		_, changed, err := s.editTags(ctx, id, tag, func(t *models.TagSet, v string) bool { return t.Add(v) })
		if domain.IsNotFound(err) {
			continue
		}
		if err != nil {
			return total, err
		}
		if changed {
			total++
		}
	}
	return total, nil
}

// TouchInteraction moves a lead's last interaction to at
func (s *Service) TouchInteraction(ctx context.Context, id int64, at time.Time) (int64, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	changes, err := s.store.Update(ctx, id, []assignment{{column: "last_interaction", value: at.UTC()}})
	if err != nil {
		return 0, domain.NewStorageError("touch lead interaction", err)
	}
	if changes > 0 {
		s.invalidate(ctx)
	}
	return changes, nil
}

// Exists reports whether a lead with id is stored
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.store.Score(ctx, id)
	if errors.Is(err, stdsql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewStorageError("look up lead", err)
	}
	return true, nil
}

// Snapshot returns every lead as stored, ordered by id, for export
func (s *Service) Snapshot(ctx context.Context) ([]models.LeadRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, domain.NewStorageError("snapshot leads", err)
	}
	slices.SortFunc(records, func(a, b models.LeadRecord) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return records, nil
}

func (s *Service) publish(ctx context.Context, eventType string, leadID int64, payload any) {
	event := events.Event{Type: eventType, LeadID: leadID, OccurredAt: s.now().UTC(), Payload: payload}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.sideEffectFailed("publish_event", err, "event", eventType, "lead_id", leadID)
	}
}

func (s *Service) sideEffectFailed(op string, err error, args ...any) {
	s.log.Error("secondary write failed", append([]any{"operation", op, "error", err}, args...)...)
	s.metrics.RecordSideEffectFailure(op)
}
