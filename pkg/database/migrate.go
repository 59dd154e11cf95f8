package database

import (
	"context"
	"fmt"
	"log"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names
const (
	LeadsTable        = "leads"
	MessagesTable     = "messages"
	ScoreHistoryTable = "score_history"
)

// textSize forces an unbounded text column on PostgreSQL
const textSize = 2147483647

var (
	leadsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "email", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "status", Type: field.TypeString, Size: textSize, Default: "New Lead"},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "tags", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "source", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "assigned_to", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "last_interaction", Type: field.TypeTime},
		{Name: "deal_value", Type: field.TypeFloat64, Nullable: true},
	}
	leadsTable = &schema.Table{
		Name:       LeadsTable,
		Columns:    leadsColumns,
		PrimaryKey: []*schema.Column{leadsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "lead_last_interaction", Columns: []*schema.Column{leadsColumns[8]}},
		},
	}

	messagesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sender", Type: field.TypeString, Size: 16},
		{Name: "message", Type: field.TypeString, Size: textSize},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "lead_id", Type: field.TypeInt64},
	}
	messagesTable = &schema.Table{
		Name:       MessagesTable,
		Columns:    messagesColumns,
		PrimaryKey: []*schema.Column{messagesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "messages_leads_messages",
				Columns:    []*schema.Column{messagesColumns[4]},
				RefColumns: []*schema.Column{leadsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "message_lead_id_timestamp", Columns: []*schema.Column{messagesColumns[4], messagesColumns[3]}},
		},
	}

	scoreHistoryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "change", Type: field.TypeInt},
		{Name: "reason", Type: field.TypeString, Size: 64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "lead_id", Type: field.TypeInt64},
	}
	scoreHistoryTable = &schema.Table{
		Name:       ScoreHistoryTable,
		Columns:    scoreHistoryColumns,
		PrimaryKey: []*schema.Column{scoreHistoryColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "score_history_leads_score_history",
				Columns:    []*schema.Column{scoreHistoryColumns[4]},
				RefColumns: []*schema.Column{leadsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "scorehistory_lead_id_timestamp", Columns: []*schema.Column{scoreHistoryColumns[4], scoreHistoryColumns[3]}},
		},
	}

	// Tables lists every table in dependency order
	Tables = []*schema.Table{leadsTable, messagesTable, scoreHistoryTable}
)

func init() {
	messagesTable.ForeignKeys[0].RefTable = leadsTable
	scoreHistoryTable.ForeignKeys[0].RefTable = leadsTable
}

// Migrate creates or upgrades the schema. SQLite connections must be opened
// with foreign keys enabled (_fk=1) so deletes cascade.
func (c *Client) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(c.Driver)
	if err != nil {
		return fmt.Errorf("failed creating migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("failed creating schema resources: %w", err)
	}

	log.Println("✅ Database migrations applied")
	return nil
}
