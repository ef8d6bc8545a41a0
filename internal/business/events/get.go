package events

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jackc/pgconn"
	"github.com/studyhub/studyhub-backend/internal/model"
)

const pgCodeInsufficientPrivilege = "42501"

// storedEvents queries the user's events together with broadcast ones.
// When the broadcast clause is denied by the database, the query degrades
// to the user's own events instead of failing the whole request.
func (s *Service) storedEvents(ctx context.Context, filter model.EventsFilter) ([]*model.Event, error) {
	filter.IncludeBroadcast = true

	events, err := s.eventsRepository.GetEvents(ctx, s.db, filter)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCodeInsufficientPrivilege {
			s.logger.Warnw("broadcast events denied, serving own events only",
				"user_id", filter.UserID,
				"err", err,
			)

			filter.IncludeBroadcast = false
			return s.eventsRepository.GetEvents(ctx, s.db, filter)
		}

		return nil, fmt.Errorf("eventsRepository.GetEvents: %w", err)
	}

	return events, nil
}

// GetEvents returns the user's events expanded onto the filter window,
// ordered by start instant.
func (s *Service) GetEvents(ctx context.Context, filter model.EventsFilter) ([]*model.Event, error) {
	base, err := s.storedEvents(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := s.expandEvents(base, filter.From, filter.To)

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].StartAt().Before(res[j].StartAt())
	})

	return res, nil
}

// GetEvent resolves a master or occurrence id to a single event. For an
// occurrence id the master is expanded at exactly the requested instant,
// so ids pointing between occurrences yield ErrNoRecord.
func (s *Service) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	occ := model.ParseOccurrenceID(id)

	masterID, err := strconv.ParseInt(occ.MasterID, 10, 64)
	if err != nil {
		return nil, model.ErrNoRecord
	}

	event, err := s.eventsRepository.GetEventByID(ctx, s.db, masterID)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetEventByID: %w", err)
	}

	if occ.Start.IsZero() || !event.Recurring {
		return event, nil
	}

	for _, o := range s.expandEvents([]*model.Event{event}, occ.Start, occ.Start) {
		return o, nil
	}

	return nil, model.ErrNoRecord
}
