package events

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/studyhub/studyhub-backend/internal/config"
	"github.com/studyhub/studyhub-backend/internal/model"
	"github.com/studyhub/studyhub-backend/internal/pkg/gcal"
)

// CalendarView is one fully merged timeline for a visible window:
// stored plain events, expanded occurrences and imported external
// events, each tagged with the viewer's permissions. SyncMessage carries
// an actionable description when the external fetch failed; the local
// part of the view is served regardless.
type CalendarView struct {
	Events      []*model.ViewEvent
	SyncMessage string
}

func (s *Service) CalendarView(ctx context.Context, viewer *model.User, from, to time.Time) (*CalendarView, error) {
	stored, err := s.storedEvents(ctx, model.EventsFilter{
		UserID: viewer.IDString(),
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, err
	}

	merged := s.expandEvents(stored, from, to)

	external, syncMessage := s.externalEvents(ctx, viewer, from, to)
	merged = append(merged, external...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartAt().Before(merged[j].StartAt())
	})

	view := &CalendarView{SyncMessage: syncMessage}
	view.Events = make([]*model.ViewEvent, len(merged))
	for i, e := range merged {
		view.Events[i] = decorate(e)
	}

	return view, nil
}

// externalEvents fetches the linked Google calendar over a window padded
// on both sides, then filters back to the exact visible window. Any
// failure degrades to local events only; the classified message is the
// only thing surfaced.
func (s *Service) externalEvents(ctx context.Context, viewer *model.User, from, to time.Time) ([]*model.Event, string) {
	token, err := s.googleTokens.Get(ctx, viewer.IDString())
	if err != nil {
		if !errors.Is(err, model.ErrNoRecord) {
			s.logger.Errorw("failed to load google token", "user_id", viewer.ID, "err", err)
		}
		return nil, ""
	}

	pad := config.CalendarFetchPadding()
	fetched, err := s.calendar.FetchEvents(ctx, token, from.Add(-pad), to.Add(pad))
	if err != nil {
		s.logger.Warnw("google calendar fetch failed", "user_id", viewer.ID, "err", err)
		return nil, gcal.UserMessage(err)
	}

	var res []*model.Event
	for _, e := range fetched {
		start := e.StartAt()
		if start.Before(from) || start.After(to) {
			continue
		}
		res = append(res, e)
	}

	return res, ""
}

// decorate applies per-event edit eligibility in precedence order:
// external origin, then admin assignment, then editable.
func decorate(e *model.Event) *model.ViewEvent {
	switch {
	case strings.HasPrefix(e.ID, gcal.IDPrefix):
		return &model.ViewEvent{Event: e, Editable: false, ReadOnlyReason: model.ReadOnlyExternal}
	case e.AssignedBy == model.AssignedByAdmin:
		return &model.ViewEvent{Event: e, Editable: false, ReadOnlyReason: model.ReadOnlyAdmin}
	default:
		return &model.ViewEvent{Event: e, Editable: true}
	}
}
