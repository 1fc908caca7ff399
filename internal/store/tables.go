package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableAppState     = "app_state"
	tableRewardEvents = "reward_events"
)

var (
	// AppStateColumns holds the columns for the "app_state" table.
	AppStateColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "version", Type: field.TypeInt, Default: StateVersion},
		{Name: "data", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// AppStateTable holds the schema information for the "app_state" table.
	AppStateTable = &schema.Table{
		Name:       tableAppState,
		Columns:    AppStateColumns,
		PrimaryKey: []*schema.Column{AppStateColumns[0]},
	}

	// RewardEventsColumns holds the columns for the "reward_events" table.
	RewardEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "video_id", Type: field.TypeString, Nullable: true},
		{Name: "reason", Type: field.TypeString, Nullable: true},
		{Name: "remaining_seconds", Type: field.TypeInt, Default: 0},
	}
	// RewardEventsTable holds the schema information for the "reward_events" table.
	RewardEventsTable = &schema.Table{
		Name:       tableRewardEvents,
		Columns:    RewardEventsColumns,
		PrimaryKey: []*schema.Column{RewardEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "rewardevent_session_id", Unique: false, Columns: []*schema.Column{RewardEventsColumns[2]}},
			{Name: "rewardevent_timestamp", Unique: false, Columns: []*schema.Column{RewardEventsColumns[1]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		AppStateTable,
		RewardEventsTable,
	}
)
