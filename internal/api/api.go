package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/studyhub/studyhub-backend/internal/business/events"
	"github.com/studyhub/studyhub-backend/internal/database"
	"github.com/studyhub/studyhub-backend/internal/model"
	"github.com/studyhub/studyhub-backend/internal/pkg/oauth"
	"github.com/studyhub/studyhub-backend/internal/pkg/recurrence"
	"go.uber.org/zap"
)

type Api struct {
	handler    http.Handler
	logger     *zap.SugaredLogger
	randSource io.Reader

	jwts          jwtManager
	tokenParser   tokenParser
	refreshTokens refreshTokenRepository

	db            database.PGX
	users         userRepository
	eventsService eventsService
}

type jwtManager interface {
	CreateToken(id int64) (string, error)
	GetIdFromToken(token string) (int64, error)
}

type tokenParser interface {
	GetInfoGoogle(ctx context.Context, authCode string) (*oauth.GoogleInfo, error)
}

type refreshTokenRepository interface {
	Add(ctx context.Context, session string, id int64) error
	Get(ctx context.Context, session string) (int64, error)
	Refresh(ctx context.Context, old, new string) error
	Delete(ctx context.Context, session string) error
	DeleteByUserID(ctx context.Context, id int64) error
}

type userRepository interface {
	CreateUser(ctx context.Context, q database.Queryable, user *model.User) (int64, error)
	GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error)
	GetUserByID(ctx context.Context, q database.Queryable, id int64) (*model.User, error)
	AddDeviceToken(ctx context.Context, q database.Queryable, id int64, token string) error
}

type eventsService interface {
	CreateEvent(ctx context.Context, info *model.EventCreate, repeat *recurrence.Rule) (*model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	UpdateEvent(ctx context.Context, viewer *model.User, id string, info *model.EventCreate, repeat *recurrence.Rule) error
	DeleteEvent(ctx context.Context, viewer *model.User, id string) error
	CalendarView(ctx context.Context, viewer *model.User, from, to time.Time) (*events.CalendarView, error)
	Subscribe(ctx context.Context, userID string) (<-chan []*model.Event, error)
	LinkGoogleCalendar(ctx context.Context, userID string, authCode string) error
}

func NewApi(
	logger *zap.SugaredLogger,
	randSource io.Reader,
	jwts jwtManager,
	tokenParser tokenParser,
	refreshTokens refreshTokenRepository,
	db database.PGX,
	users userRepository,
	eventsService eventsService,
) (*Api, error) {
	a := &Api{
		logger:        logger,
		randSource:    randSource,
		jwts:          jwts,
		tokenParser:   tokenParser,
		refreshTokens: refreshTokens,
		db:            db,
		users:         users,
		eventsService: eventsService,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin/google", a.signInGoogleHandler)
		r.Post("/refresh", a.refreshTokenHandler)
		r.Post("/logout", a.logoutUserHandler)
	})

	r.With(a.auth, a.userCtx).Route("/", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Get("/", a.getUserHandler)
			r.Put("/device", a.registerDeviceHandler)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", a.getCalendarHandler)
			r.Get("/stream", a.eventsStreamHandler)
			r.Post("/", a.createEventHandler)
			r.Get("/{eventID}", a.getEventHandler)
			r.Patch("/{eventID}", a.updateEventHandler)
			r.Delete("/{eventID}", a.deleteEventHandler)
		})

		r.Post("/google/link", a.linkGoogleCalendarHandler)

		r.With(a.adminOnly).Route("/admin", func(r chi.Router) {
			r.Post("/events", a.createAdminEventHandler)
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
