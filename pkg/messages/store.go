package messages

import (
	"context"
	stdsql "database/sql"

	"entgo.io/ent/dialect/sql"
	"github.com/jordanlanch/leaddesk/pkg/database"
	"github.com/jordanlanch/leaddesk/pkg/models"
)

// Store persists lead transcripts
type Store struct {
	db      *stdsql.DB
	dialect string
}

// NewStore creates a store over db speaking the given ent dialect
func NewStore(db *stdsql.DB, dialect string) *Store {
	return &Store{db: db, dialect: dialect}
}

// List returns the transcript of a lead in chronological order
func (s *Store) List(ctx context.Context, leadID int64) ([]models.Message, error) {
	query, args := sql.Dialect(s.dialect).
		Select("id", "lead_id", "sender", "message", "timestamp").
		From(sql.Table(database.MessagesTable)).
		Where(sql.EQ("lead_id", leadID)).
		OrderBy(sql.Asc("timestamp"), sql.Asc("id")).
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.LeadID, &m.Sender, &m.Message, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Timestamp = m.Timestamp.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// Insert appends a message and returns its id
func (s *Store) Insert(ctx context.Context, m models.Message) (int64, error) {
	query, args := sql.Dialect(s.dialect).
		Insert(database.MessagesTable).
		Columns("lead_id", "sender", "message", "timestamp").
		Values(m.LeadID, m.Sender, m.Message, m.Timestamp.UTC()).
		Returning("id").
		Query()

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
