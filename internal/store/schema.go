package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	progressTable = "item_progress"
	eventsTable   = "answer_events"
)

var (
	// ItemProgressColumns holds the columns for the "item_progress" table.
	ItemProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "scope", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeInt},
		{Name: "tier", Type: field.TypeInt},
		{Name: "updated_at", Type: field.TypeInt64},
		{Name: "data", Type: field.TypeString, Size: 2147483647},
	}
	// ItemProgressTable holds the schema information for the "item_progress" table.
	ItemProgressTable = &schema.Table{
		Name:       progressTable,
		Columns:    ItemProgressColumns,
		PrimaryKey: []*schema.Column{ItemProgressColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "itemprogress_scope_item_id",
				Unique:  true,
				Columns: []*schema.Column{ItemProgressColumns[1], ItemProgressColumns[2]},
			},
			{
				Name:    "itemprogress_scope_tier",
				Unique:  false,
				Columns: []*schema.Column{ItemProgressColumns[1], ItemProgressColumns[3]},
			},
		},
	}
	// AnswerEventsColumns holds the columns for the "answer_events" table.
	AnswerEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "at_ms", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString},
		{Name: "scope", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeInt},
		{Name: "drilled_tier", Type: field.TypeInt},
		{Name: "tier", Type: field.TypeInt},
		{Name: "confidence", Type: field.TypeInt},
		{Name: "quick_correct_streak", Type: field.TypeInt},
		{Name: "seen_total", Type: field.TypeInt},
		{Name: "timing", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "dont_know", Type: field.TypeBool},
	}
	// AnswerEventsTable holds the schema information for the "answer_events" table.
	AnswerEventsTable = &schema.Table{
		Name:       eventsTable,
		Columns:    AnswerEventsColumns,
		PrimaryKey: []*schema.Column{AnswerEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "answerevent_scope_item_id",
				Unique:  false,
				Columns: []*schema.Column{AnswerEventsColumns[4], AnswerEventsColumns[5]},
			},
			{
				Name:    "answerevent_session_id",
				Unique:  false,
				Columns: []*schema.Column{AnswerEventsColumns[3]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ItemProgressTable,
		AnswerEventsTable,
	}
)
