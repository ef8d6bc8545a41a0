package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/studyhub/studyhub-backend/internal/database"
	"github.com/studyhub/studyhub-backend/internal/model"
)

func (*Repository) GetEventByID(ctx context.Context, q database.Queryable, id int64) (*model.Event, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id})

	dto := &eventDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToEvent(dto), nil
}

// GetEvents returns the user's plain events falling inside the filter
// window plus all of the user's recurring masters. Masters are not
// window-filtered here; occurrence expansion decides what they
// contribute.
func (*Repository) GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	owners := []string{filter.UserID}
	if filter.IncludeBroadcast {
		owners = append(owners, model.BroadcastUserID)
	}

	qb := baseQuery.
		Where(sq.Eq{"user_id": owners})

	// A zero window means the caller wants the raw unfiltered set (the
	// subscription stream does; it re-expands per delivery). Plain
	// events are filtered by calendar day; precise instants are the
	// expansion layer's business.
	if !filter.From.IsZero() || !filter.To.IsZero() {
		qb = qb.Where(sq.Or{
			sq.Eq{"recurring": true},
			sq.And{
				sq.GtOrEq{"start_date": dateOnly(filter.From)},
				sq.LtOrEq{"start_date": dateOnly(filter.To)},
			},
		})
	}

	var dtos []*eventDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Event, len(dtos))
	for i, d := range dtos {
		res[i] = mapToEvent(d)
	}

	return res, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
