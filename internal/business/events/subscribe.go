package events

import (
	"context"

	"github.com/studyhub/studyhub-backend/internal/database"
	"github.com/studyhub/studyhub-backend/internal/model"
)

// Subscribe opens a long-lived stream of the user's raw event set. An
// initial snapshot is pushed immediately; after that, every mutation
// touching the user's events (or broadcast events) triggers a
// re-delivery of the full current set. Consumers re-run expansion on
// each delivery; no diffing is done. The stream closes when ctx does.
func (s *Service) Subscribe(ctx context.Context, userID string) (<-chan []*model.Event, error) {
	conn, err := s.listener.Listen(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []*model.Event)

	go func() {
		defer conn.Release()
		defer close(ch)

		send := func() {
			events, err := s.storedEvents(ctx, model.EventsFilter{UserID: userID})
			if err != nil {
				s.logger.Errorw("failed to load events for subscription", "user_id", userID, "err", err)
				return
			}

			select {
			case ch <- events:
			case <-ctx.Done():
			}
		}

		send()

		for {
			payload, err := conn.WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Errorw("events subscription broken", "user_id", userID, "err", err)
				}
				return
			}

			if payload == userID || payload == model.BroadcastUserID {
				send()
			}
		}
	}()

	return ch, nil
}

// notifyChanged fans a mutation out to subscribers. Failures are logged
// only; the write itself has already succeeded.
func (s *Service) notifyChanged(ctx context.Context, ownerID string) {
	if _, err := s.db.ExecRaw(ctx, "select pg_notify($1, $2)", database.EventsChannel, ownerID); err != nil {
		s.logger.Errorw("failed to notify event change", "owner_id", ownerID, "err", err)
	}
}
