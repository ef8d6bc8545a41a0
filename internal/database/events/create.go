package events

import (
	"context"
	"fmt"

	"github.com/studyhub/studyhub-backend/internal/database"
	"github.com/studyhub/studyhub-backend/internal/model"
)

func (*Repository) CreateEvent(ctx context.Context, q database.Queryable, event *model.Event) (int64, error) {
	qb := database.PSQL.
		Insert(database.EventsTable).
		Columns(
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
		Values(
			event.Title,
			event.EventType,
			event.UserID,
			event.AssignedBy,
			event.Date,
			event.StartMinutes,
			event.DurationMinutes,
			event.Recurring,
			event.RecurrenceRule,
			event.Description,
			mapToPropertyDTOs(event.Properties),
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
