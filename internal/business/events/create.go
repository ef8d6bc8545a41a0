package events

import (
	"context"
	"fmt"
	"strconv"

	"github.com/studyhub/studyhub-backend/internal/model"
	"github.com/studyhub/studyhub-backend/internal/pkg/recurrence"
)

// CreateEvent stores a new plain event, or a recurring master when a
// repeat rule is given. The rule is persisted in its compact encoded
// form; an interval below 1 is normalized before encoding.
func (s *Service) CreateEvent(ctx context.Context, info *model.EventCreate, repeat *recurrence.Rule) (*model.Event, error) {
	event := &model.Event{EventCreate: *info}

	if repeat != nil {
		if repeat.Interval < 1 {
			repeat.Interval = 1
		}
		event.Recurring = true
		event.RecurrenceRule = repeat.Encode()
	}

	id, err := s.eventsRepository.CreateEvent(ctx, s.db, event)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.CreateEvent: %w", err)
	}

	event.ID = strconv.FormatInt(id, 10)
	s.notifyChanged(ctx, event.UserID)

	return event, nil
}
