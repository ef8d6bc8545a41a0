package events

import "github.com/studyhub/studyhub-backend/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select("id",
		"title",
		"event_type",
		"user_id",
		"assigned_by",
		"start_date",
		"start_minutes",
		"duration_minutes",
		"recurring",
		"recurrence_rule",
		"description",
		"properties",
	).
	From(database.EventsTable)
