package events

import (
	"context"
	"fmt"
	"strconv"

	"github.com/studyhub/studyhub-backend/internal/model"
)

// DeleteEvent removes a master event. Deleting any occurrence deletes
// the whole series; the occurrence suffix is stripped before the store
// call.
func (s *Service) DeleteEvent(ctx context.Context, viewer *model.User, id string) error {
	old, err := s.resolveOwned(ctx, viewer, id)
	if err != nil {
		return err
	}

	masterID, err := masterIDOf(model.ParseOccurrenceID(id))
	if err != nil {
		return model.ErrNoRecord
	}

	if err := s.eventsRepository.DeleteEvent(ctx, s.db, masterID); err != nil {
		return fmt.Errorf("eventsRepository.DeleteEvent: %w", err)
	}

	s.notifyChanged(ctx, old.UserID)
	return nil
}

func masterIDOf(occ model.OccurrenceID) (int64, error) {
	return strconv.ParseInt(occ.MasterID, 10, 64)
}
