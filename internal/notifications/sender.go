// Package notifications delivers push reminders shortly before events
// start. It rides on the same expansion pipeline the calendar view
// uses, so recurring events remind on every occurrence.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/studyhub/studyhub-backend/internal/config"
	"github.com/studyhub/studyhub-backend/internal/database"
	"github.com/studyhub/studyhub-backend/internal/model"
	"github.com/studyhub/studyhub-backend/internal/pkg/fcm"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

type Sender struct {
	db            database.PGX
	logger        *zap.SugaredLogger
	users         usersRepository
	eventsService eventsService
	fcm           fcmService
}

type usersRepository interface {
	GetAllUsers(ctx context.Context, q database.Queryable) ([]*model.User, error)
}

type eventsService interface {
	GetEvents(ctx context.Context, filter model.EventsFilter) ([]*model.Event, error)
}

type fcmService interface {
	SendMessageBatch(ctx context.Context, ms []*fcm.Message) error
}

func NewSender(
	db database.PGX,
	logger *zap.SugaredLogger,
	users usersRepository,
	eventsService eventsService,
	fcm fcmService,
) *Sender {
	return &Sender{
		db:            db,
		logger:        logger,
		users:         users,
		eventsService: eventsService,
		fcm:           fcm,
	}
}

// Start ticks once a minute and reminds about events starting exactly
// one reminder lead away from the covered minute.
func (s *Sender) Start(ctx context.Context) {
	now := time.Now().UTC()

	from := now.Truncate(time.Minute)
	to := from.Add(time.Minute)
	go s.findAndSendReminders(ctx, from, to)

	ticker := time.NewTicker(time.Minute)
	done := make(chan bool)

	closer.Bind(func() {
		done <- true
		ticker.Stop()
	})

	for {
		select {
		case <-done:
			return
		case t := <-ticker.C:
			from = to
			to = t.UTC().Truncate(time.Minute).Add(time.Minute)
			go s.findAndSendReminders(ctx, from, to)
		}
	}
}

func (s *Sender) findAndSendReminders(ctx context.Context, from, to time.Time) {
	lead := config.ReminderLead()
	wFrom := from.Add(lead)
	wTo := to.Add(lead)

	s.logger.Debugw("sending reminders", "from", wFrom, "to", wTo)

	users, err := s.users.GetAllUsers(ctx, s.db)
	if err != nil {
		s.logger.Errorw("failed to get users", "err", err)
		return
	}

	var messages []*fcm.Message

	for _, u := range users {
		if len(u.DeviceTokens) == 0 {
			continue
		}

		events, err := s.eventsService.GetEvents(ctx, model.EventsFilter{
			UserID: u.IDString(),
			From:   wFrom,
			To:     wTo,
		})
		if err != nil {
			s.logger.Errorw("failed to get events", "user_id", u.ID, "err", err)
			continue
		}

		for _, e := range events {
			start := e.StartAt()
			if start.Before(wFrom) || !start.Before(wTo) {
				continue
			}

			messages = append(messages, remindersFor(u, e, lead)...)
		}
	}

	if len(messages) == 0 {
		return
	}

	if err := s.fcm.SendMessageBatch(ctx, messages); err != nil {
		s.logger.Errorw("failed to send reminders", "count", len(messages), "err", err)
	}
}

func remindersFor(u *model.User, e *model.Event, lead time.Duration) []*fcm.Message {
	body := fmt.Sprintf("Starts in %v", lead)

	messages := make([]*fcm.Message, len(u.DeviceTokens))
	for i, token := range u.DeviceTokens {
		messages[i] = &fcm.Message{
			Token: token,
			Title: e.Title,
			Body:  body,
			Data: map[string]string{
				"event_id":   e.ID,
				"event_type": string(e.EventType),
			},
		}
	}

	return messages
}
