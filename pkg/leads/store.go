package leads

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/jordanlanch/leaddesk/pkg/database"
	"github.com/jordanlanch/leaddesk/pkg/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (stdsql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*stdsql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *stdsql.Row
}

var leadColumns = []string{
	"id", "name", "email", "status", "score", "tags",
	"source", "assigned_to", "last_interaction", "deal_value",
}

// Store persists leads and their score ledger. Statements are built with the
// ent SQL builder so placeholders and quoting follow the active dialect.
type Store struct {
	db      *stdsql.DB
	q       querier
	dialect string
}

// NewStore creates a store over db speaking the given ent dialect
func NewStore(db *stdsql.DB, dialect string) *Store {
	return &Store{db: db, q: db, dialect: dialect}
}

// InTx runs fn against a store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		// Already inside a transaction
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Store{q: tx, dialect: s.dialect}); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) builder() *sql.DialectBuilder {
	return sql.Dialect(s.dialect)
}

func scanLead(scan func(dest ...any) error) (models.LeadRecord, error) {
	var (
		rec  models.LeadRecord
		deal stdsql.NullFloat64
	)
	err := scan(&rec.ID, &rec.Name, &rec.Email, &rec.Status, &rec.Score, &rec.Tags,
		&rec.Source, &rec.AssignedTo, &rec.LastInteraction, &deal)
	if err != nil {
		return rec, err
	}
	rec.LastInteraction = rec.LastInteraction.UTC()
	if deal.Valid {
		v := deal.Float64
		rec.DealValue = &v
	}
	return rec, nil
}

// List returns every lead, most recently touched first
func (s *Store) List(ctx context.Context) ([]models.LeadRecord, error) {
	query, args := s.builder().
		Select(leadColumns...).
		From(sql.Table(database.LeadsTable)).
		OrderBy(sql.Desc("last_interaction"), sql.Desc("id")).
		Query()

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.LeadRecord{}
	for rows.Next() {
		rec, err := scanLead(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns one lead or sql.ErrNoRows
func (s *Store) Get(ctx context.Context, id int64) (models.LeadRecord, error) {
	query, args := s.builder().
		Select(leadColumns...).
		From(sql.Table(database.LeadsTable)).
		Where(sql.EQ("id", id)).
		Query()

	return scanLead(s.q.QueryRowContext(ctx, query, args...).Scan)
}

// Score returns the current score of a lead or sql.ErrNoRows
func (s *Store) Score(ctx context.Context, id int64) (int, error) {
	query, args := s.builder().
		Select("score").
		From(sql.Table(database.LeadsTable)).
		Where(sql.EQ("id", id)).
		Query()

	var score int
	err := s.q.QueryRowContext(ctx, query, args...).Scan(&score)
	return score, err
}

// Insert stores a new lead and returns its id
func (s *Store) Insert(ctx context.Context, rec models.LeadRecord) (int64, error) {
	query, args := s.builder().
		Insert(database.LeadsTable).
		Columns("name", "email", "status", "score", "tags", "source", "assigned_to", "last_interaction", "deal_value").
		Values(rec.Name, rec.Email, rec.Status, rec.Score, rec.Tags, rec.Source, rec.AssignedTo, rec.LastInteraction.UTC(), rec.DealValue).
		Returning("id").
		Query()

	var id int64
	if err := s.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// assignment is one column write of a sparse update
type assignment struct {
	column string
	value  any
	null   bool
}

// Update applies the assignments to one lead and returns the affected rows
func (s *Store) Update(ctx context.Context, id int64, set []assignment) (int64, error) {
	u := s.builder().Update(database.LeadsTable)
	for _, a := range set {
		if a.null {
			u.SetNull(a.column)
			continue
		}
		u.Set(a.column, a.value)
	}
	query, args := u.Where(sql.EQ("id", id)).Query()

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a lead. Messages and ledger entries go with it through the
// foreign key cascade.
func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	query, args := s.builder().
		Delete(database.LeadsTable).
		Where(sql.EQ("id", id)).
		Query()

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AppendScore writes one ledger entry
func (s *Store) AppendScore(ctx context.Context, leadID int64, change int, reason string, at time.Time) (int64, error) {
	query, args := s.builder().
		Insert(database.ScoreHistoryTable).
		Columns("lead_id", "change", "reason", "timestamp").
		Values(leadID, change, reason, at.UTC()).
		Returning("id").
		Query()

	var id int64
	if err := s.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// History returns the ledger of a lead, newest first
func (s *Store) History(ctx context.Context, leadID int64) ([]models.ScoreEntry, error) {
	query, args := s.builder().
		Select("id", "lead_id", "change", "reason", "timestamp").
		From(sql.Table(database.ScoreHistoryTable)).
		Where(sql.EQ("lead_id", leadID)).
		OrderBy(sql.Desc("timestamp"), sql.Desc("id")).
		Query()

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.ScoreEntry{}
	for rows.Next() {
		var e models.ScoreEntry
		if err := rows.Scan(&e.ID, &e.LeadID, &e.Change, &e.Reason, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
