package events

import (
	"context"
	"time"

	"github.com/studyhub/studyhub-backend/internal/database"
	"github.com/studyhub/studyhub-backend/internal/model"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type Service struct {
	db               database.PGX
	logger           *zap.SugaredLogger
	eventsRepository eventsRepository
	listener         changeListener
	calendar         calendarClient
	googleTokens     googleTokenRepository
}

type eventsRepository interface {
	CreateEvent(ctx context.Context, q database.Queryable, event *model.Event) (int64, error)
	GetEventByID(ctx context.Context, q database.Queryable, id int64) (*model.Event, error)
	GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, q database.Queryable, id int64, event *model.Event) error
	DeleteEvent(ctx context.Context, q database.Queryable, id int64) error
}

type changeListener interface {
	Listen(ctx context.Context) (database.NotificationConn, error)
}

type calendarClient interface {
	Exchange(ctx context.Context, authCode string) (*oauth2.Token, error)
	FetchEvents(ctx context.Context, token *oauth2.Token, from, to time.Time) ([]*model.Event, error)
}

type googleTokenRepository interface {
	Add(ctx context.Context, userID string, token *oauth2.Token) error
	Set(ctx context.Context, userID string, token *oauth2.Token) error
	Get(ctx context.Context, userID string) (*oauth2.Token, error)
}

func NewService(
	db database.PGX,
	logger *zap.SugaredLogger,
	repo eventsRepository,
	listener changeListener,
	calendar calendarClient,
	googleTokens googleTokenRepository,
) *Service {
	return &Service{
		db:               db,
		logger:           logger,
		eventsRepository: repo,
		listener:         listener,
		calendar:         calendar,
		googleTokens:     googleTokens,
	}
}
