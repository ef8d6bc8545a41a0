package events

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/studyhub/studyhub-backend/internal/database"
	"github.com/studyhub/studyhub-backend/internal/model"
)

func (*Repository) UpdateEvent(ctx context.Context, q database.Queryable, id int64, event *model.Event) error {
	qb := database.PSQL.
		Update(database.EventsTable).
		SetMap(map[string]interface{}{
			"title":            event.Title,
			"event_type":       event.EventType,
			"user_id":          event.UserID,
			"assigned_by":      event.AssignedBy,
			"start_date":       event.Date,
			"start_minutes":    event.StartMinutes,
			"duration_minutes": event.DurationMinutes,
			"recurring":        event.Recurring,
			"recurrence_rule":  event.RecurrenceRule,
			"description":      event.Description,
			"properties":       mapToPropertyDTOs(event.Properties),
		}).
		Where(sq.Eq{"id": id})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
