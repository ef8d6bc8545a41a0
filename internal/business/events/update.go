package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyhub/studyhub-backend/internal/model"
	"github.com/studyhub/studyhub-backend/internal/pkg/gcal"
	"github.com/studyhub/studyhub-backend/internal/pkg/recurrence"
)

// UpdateEvent edits a master event. An occurrence id is accepted and
// redirected to its master, so editing any instance edits the whole
// series. External and admin-assigned events are rejected before any
// store call.
func (s *Service) UpdateEvent(ctx context.Context, viewer *model.User, id string, info *model.EventCreate, repeat *recurrence.Rule) error {
	old, err := s.resolveOwned(ctx, viewer, id)
	if err != nil {
		return err
	}

	event := &model.Event{EventCreate: *info}
	// Ownership never changes on update.
	event.UserID = old.UserID
	event.AssignedBy = old.AssignedBy

	if repeat != nil {
		if repeat.Interval < 1 {
			repeat.Interval = 1
		}
		event.Recurring = true
		event.RecurrenceRule = repeat.Encode()
	}

	occ := model.ParseOccurrenceID(id)
	masterID, err := masterIDOf(occ)
	if err != nil {
		return model.ErrNoRecord
	}

	if err := s.eventsRepository.UpdateEvent(ctx, s.db, masterID, event); err != nil {
		return fmt.Errorf("eventsRepository.UpdateEvent: %w", err)
	}

	s.notifyChanged(ctx, old.UserID)
	return nil
}

// resolveOwned fetches the master behind id and checks the viewer may
// mutate it, applying the permission precedence: external first, then
// admin assignment, then ownership.
func (s *Service) resolveOwned(ctx context.Context, viewer *model.User, id string) (*model.Event, error) {
	if strings.HasPrefix(id, gcal.IDPrefix) {
		return nil, model.ErrExternalEvent
	}

	occ := model.ParseOccurrenceID(id)
	masterID, err := masterIDOf(occ)
	if err != nil {
		return nil, model.ErrNoRecord
	}

	event, err := s.eventsRepository.GetEventByID(ctx, s.db, masterID)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetEventByID: %w", err)
	}

	if event.AssignedBy == model.AssignedByAdmin && !viewer.Admin {
		return nil, model.ErrReadOnly
	}

	if event.UserID == model.BroadcastUserID {
		if !viewer.Admin {
			return nil, model.ErrReadOnly
		}
		return event, nil
	}

	if event.UserID != viewer.IDString() {
		return nil, model.ErrNoRecord
	}

	return event, nil
}
