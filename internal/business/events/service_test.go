package events

import (
	"context"
	"errors"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/studyhub-backend/internal/database"
	"github.com/studyhub/studyhub-backend/internal/model"
	"github.com/studyhub/studyhub-backend/internal/pkg/gcal"
	"github.com/studyhub/studyhub-backend/internal/pkg/recurrence"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type fakeEventsRepo struct {
	events        map[int64]*model.Event
	updated       map[int64]*model.Event
	deleted       []int64
	denyBroadcast bool
	listCalls     []model.EventsFilter
}

func newFakeEventsRepo(events ...*model.Event) *fakeEventsRepo {
	repo := &fakeEventsRepo{
		events:  map[int64]*model.Event{},
		updated: map[int64]*model.Event{},
	}
	for i, e := range events {
		repo.events[int64(i)+1] = e
	}
	return repo
}

func (r *fakeEventsRepo) CreateEvent(_ context.Context, _ database.Queryable, event *model.Event) (int64, error) {
	id := int64(len(r.events)) + 1
	r.events[id] = event
	return id, nil
}

func (r *fakeEventsRepo) GetEventByID(_ context.Context, _ database.Queryable, id int64) (*model.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return event, nil
}

func (r *fakeEventsRepo) GetEvents(_ context.Context, _ database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	r.listCalls = append(r.listCalls, filter)

	if filter.IncludeBroadcast && r.denyBroadcast {
		return nil, &pgconn.PgError{Code: pgCodeInsufficientPrivilege}
	}

	var res []*model.Event
	for _, e := range r.events {
		if e.UserID == filter.UserID || (filter.IncludeBroadcast && e.UserID == model.BroadcastUserID) {
			res = append(res, e)
		}
	}
	return res, nil
}

func (r *fakeEventsRepo) UpdateEvent(_ context.Context, _ database.Queryable, id int64, event *model.Event) error {
	if _, ok := r.events[id]; !ok {
		return model.ErrNoRecord
	}
	r.updated[id] = event
	return nil
}

func (r *fakeEventsRepo) DeleteEvent(_ context.Context, _ database.Queryable, id int64) error {
	if _, ok := r.events[id]; !ok {
		return model.ErrNoRecord
	}
	delete(r.events, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeTokenRepo struct {
	tokens   map[string]*oauth2.Token
	setCalls int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*oauth2.Token{}}
}

func (r *fakeTokenRepo) Add(_ context.Context, userID string, token *oauth2.Token) error {
	if _, ok := r.tokens[userID]; ok {
		return model.ErrAlreadyExists
	}
	r.tokens[userID] = token
	return nil
}

func (r *fakeTokenRepo) Set(_ context.Context, userID string, token *oauth2.Token) error {
	r.setCalls++
	r.tokens[userID] = token
	return nil
}

func (r *fakeTokenRepo) Get(_ context.Context, userID string) (*oauth2.Token, error) {
	token, ok := r.tokens[userID]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return token, nil
}

type fakeCalendar struct {
	exchanged *oauth2.Token
	events    []*model.Event
	fetchErr  error
}

func (c *fakeCalendar) Exchange(context.Context, string) (*oauth2.Token, error) {
	if c.exchanged == nil {
		return nil, errors.New("exchange failed")
	}
	return c.exchanged, nil
}

func (c *fakeCalendar) FetchEvents(context.Context, *oauth2.Token, time.Time, time.Time) ([]*model.Event, error) {
	return c.events, c.fetchErr
}

func newTestService(repo *fakeEventsRepo, calendar *fakeCalendar, tokens *fakeTokenRepo) *Service {
	if calendar == nil {
		calendar = &fakeCalendar{}
	}
	if tokens == nil {
		tokens = newFakeTokenRepo()
	}
	return &Service{
		db:               nopDB{},
		logger:           zap.NewNop().Sugar(),
		eventsRepository: repo,
		calendar:         calendar,
		googleTokens:     tokens,
	}
}

// nopDB satisfies the pool interface for paths that only notify.
type nopDB struct{}

func (nopDB) Exec(context.Context, sq.Sqlizer) (pgconn.CommandTag, error) { return nil, nil }

func (nopDB) Get(context.Context, interface{}, sq.Sqlizer) error { return nil }

func (nopDB) Select(context.Context, interface{}, sq.Sqlizer) error { return nil }

func (nopDB) ExecRaw(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, nil
}

func (nopDB) GetPool(context.Context) *pgxpool.Pool { return nil }

func (nopDB) BeginTx(context.Context, *pgx.TxOptions) (database.Tx, error) {
	return nil, errors.New("not supported")
}

func ownEvent(userID string) *model.Event {
	return &model.Event{
		ID: "1",
		EventCreate: model.EventCreate{
			Title:        "Linear algebra",
			EventType:    model.EventTypeClass,
			Date:         day(2024, 1, 10),
			StartMinutes: 540,
			UserID:       userID,
			AssignedBy:   model.AssignedByUser,
		},
	}
}

func TestUpdateEventPermissions(t *testing.T) {
	viewer := &model.User{ID: 7}
	admin := &model.User{ID: 1, Admin: true}

	tests := []struct {
		name    string
		viewer  *model.User
		id      string
		event   *model.Event
		wantErr error
	}{
		{
			name:    "external event rejected",
			viewer:  viewer,
			id:      "gcal_abc",
			wantErr: model.ErrExternalEvent,
		},
		{
			name:   "admin assignment locked for owner",
			viewer: viewer,
			id:     "1",
			event: &model.Event{
				ID:          "1",
				EventCreate: model.EventCreate{UserID: "7", AssignedBy: model.AssignedByAdmin},
			},
			wantErr: model.ErrReadOnly,
		},
		{
			name:   "broadcast locked for regular user",
			viewer: viewer,
			id:     "1",
			event: &model.Event{
				ID:          "1",
				EventCreate: model.EventCreate{UserID: model.BroadcastUserID, AssignedBy: model.AssignedByAdmin},
			},
			wantErr: model.ErrReadOnly,
		},
		{
			name:   "broadcast editable by admin",
			viewer: admin,
			id:     "1",
			event: &model.Event{
				ID:          "1",
				EventCreate: model.EventCreate{UserID: model.BroadcastUserID, AssignedBy: model.AssignedByAdmin},
			},
		},
		{
			name:    "foreign event hidden",
			viewer:  viewer,
			id:      "1",
			event:   ownEvent("8"),
			wantErr: model.ErrNoRecord,
		},
		{
			name:   "own event editable",
			viewer: viewer,
			id:     "1",
			event:  ownEvent("7"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventsRepo()
			if tt.event != nil {
				repo.events[1] = tt.event
			}
			s := newTestService(repo, nil, nil)

			err := s.UpdateEvent(context.Background(), tt.viewer, tt.id, &model.EventCreate{Title: "Edited"}, nil)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.updated)
				return
			}

			require.NoError(t, err)
			require.Contains(t, repo.updated, int64(1))
		})
	}
}

func TestUpdateEventKeepsOwnership(t *testing.T) {
	repo := newFakeEventsRepo(ownEvent("7"))
	s := newTestService(repo, nil, nil)

	info := &model.EventCreate{Title: "Edited", UserID: "999", AssignedBy: model.AssignedByAdmin}
	require.NoError(t, s.UpdateEvent(context.Background(), &model.User{ID: 7}, "1", info, nil))

	updated := repo.updated[1]
	require.NotNil(t, updated)
	assert.Equal(t, "7", updated.UserID)
	assert.Equal(t, model.AssignedByUser, updated.AssignedBy)
}

func TestUpdateOccurrenceEditsWholeSeries(t *testing.T) {
	master := ownEvent("7")
	master.Recurring = true
	master.RecurrenceRule = "FREQ=WEEKLY"
	repo := newFakeEventsRepo(master)
	s := newTestService(repo, nil, nil)

	occID := model.OccurrenceID{MasterID: "1", Start: master.StartAt().AddDate(0, 0, 7)}.String()
	rule := &recurrence.Rule{Freq: recurrence.Daily, Interval: 1}
	require.NoError(t, s.UpdateEvent(context.Background(), &model.User{ID: 7}, occID, &model.EventCreate{Title: "Edited"}, rule))

	updated := repo.updated[1]
	require.NotNil(t, updated)
	assert.True(t, updated.Recurring)
	assert.Equal(t, "FREQ=DAILY", updated.RecurrenceRule)
}

func TestDeleteOccurrenceDeletesSeries(t *testing.T) {
	master := ownEvent("7")
	master.Recurring = true
	master.RecurrenceRule = "FREQ=DAILY"
	repo := newFakeEventsRepo(master)
	s := newTestService(repo, nil, nil)

	occID := model.OccurrenceID{MasterID: "1", Start: master.StartAt().AddDate(0, 0, 3)}.String()
	require.NoError(t, s.DeleteEvent(context.Background(), &model.User{ID: 7}, occID))

	assert.Equal(t, []int64{1}, repo.deleted)
}

func TestStoredEventsBroadcastFallback(t *testing.T) {
	repo := newFakeEventsRepo(ownEvent("7"))
	repo.denyBroadcast = true
	s := newTestService(repo, nil, nil)

	got, err := s.storedEvents(context.Background(), model.EventsFilter{UserID: "7"})

	require.NoError(t, err)
	assert.Len(t, got, 1)

	// First attempt includes broadcast, the retry does not.
	require.Len(t, repo.listCalls, 2)
	assert.True(t, repo.listCalls[0].IncludeBroadcast)
	assert.False(t, repo.listCalls[1].IncludeBroadcast)
}

func TestGetEventResolvesOccurrence(t *testing.T) {
	master := ownEvent("7")
	master.Recurring = true
	master.RecurrenceRule = "FREQ=WEEKLY"
	repo := newFakeEventsRepo(master)
	s := newTestService(repo, nil, nil)

	t.Run("master id returns master", func(t *testing.T) {
		got, err := s.GetEvent(context.Background(), "1")
		require.NoError(t, err)
		assert.Same(t, master, got)
	})

	t.Run("occurrence id returns derived instance", func(t *testing.T) {
		start := master.StartAt().AddDate(0, 0, 14)
		got, err := s.GetEvent(context.Background(), model.OccurrenceID{MasterID: "1", Start: start}.String())
		require.NoError(t, err)
		assert.Equal(t, start, got.StartAt())
		assert.False(t, got.Recurring)
	})

	t.Run("id between occurrences misses", func(t *testing.T) {
		start := master.StartAt().AddDate(0, 0, 3)
		_, err := s.GetEvent(context.Background(), model.OccurrenceID{MasterID: "1", Start: start}.String())
		assert.ErrorIs(t, err, model.ErrNoRecord)
	})

	t.Run("unknown master", func(t *testing.T) {
		_, err := s.GetEvent(context.Background(), "99")
		assert.Error(t, err)
	})
}

func TestLinkGoogleCalendar(t *testing.T) {
	token := &oauth2.Token{AccessToken: "fresh"}
	calendar := &fakeCalendar{exchanged: token}

	t.Run("first link stores credential", func(t *testing.T) {
		tokens := newFakeTokenRepo()
		s := newTestService(newFakeEventsRepo(), calendar, tokens)

		require.NoError(t, s.LinkGoogleCalendar(context.Background(), "7", "code"))
		assert.Equal(t, token, tokens.tokens["7"])
		assert.Zero(t, tokens.setCalls)
	})

	t.Run("relink replaces credential", func(t *testing.T) {
		tokens := newFakeTokenRepo()
		tokens.tokens["7"] = &oauth2.Token{AccessToken: "stale"}
		s := newTestService(newFakeEventsRepo(), calendar, tokens)

		require.NoError(t, s.LinkGoogleCalendar(context.Background(), "7", "code"))
		assert.Equal(t, 1, tokens.setCalls)
		assert.Equal(t, token, tokens.tokens["7"])
	})
}

func TestCalendarViewMergesExternalEvents(t *testing.T) {
	local := ownEvent("7")
	external := &model.Event{
		ID: gcal.IDPrefix + "abc",
		EventCreate: model.EventCreate{
			Title:        "Imported seminar",
			EventType:    model.EventTypeOther,
			Date:         day(2024, 1, 10),
			StartMinutes: 600,
			AssignedBy:   model.AssignedByUser,
		},
	}

	repo := newFakeEventsRepo(local)
	calendar := &fakeCalendar{events: []*model.Event{external}}
	tokens := newFakeTokenRepo()
	tokens.tokens["7"] = &oauth2.Token{AccessToken: "linked"}
	s := newTestService(repo, calendar, tokens)

	view, err := s.CalendarView(context.Background(), &model.User{ID: 7}, day(2024, 1, 1), endOfDay(2024, 1, 31))

	require.NoError(t, err)
	assert.Empty(t, view.SyncMessage)
	require.Len(t, view.Events, 2)

	assert.True(t, view.Events[0].Editable)
	assert.False(t, view.Events[1].Editable)
	assert.Equal(t, model.ReadOnlyExternal, view.Events[1].ReadOnlyReason)
}

func TestCalendarViewDegradesOnSyncFailure(t *testing.T) {
	repo := newFakeEventsRepo(ownEvent("7"))
	calendar := &fakeCalendar{fetchErr: &gcal.SyncError{Reason: gcal.ReasonTokenExpired}}
	tokens := newFakeTokenRepo()
	tokens.tokens["7"] = &oauth2.Token{AccessToken: "expired"}
	s := newTestService(repo, calendar, tokens)

	view, err := s.CalendarView(context.Background(), &model.User{ID: 7}, day(2024, 1, 1), endOfDay(2024, 1, 31))

	require.NoError(t, err)
	require.Len(t, view.Events, 1)
	assert.Contains(t, view.SyncMessage, "Re-link")
}

func TestCalendarViewWithoutLinkedCalendar(t *testing.T) {
	repo := newFakeEventsRepo(ownEvent("7"))
	s := newTestService(repo, nil, nil)

	view, err := s.CalendarView(context.Background(), &model.User{ID: 7}, day(2024, 1, 1), endOfDay(2024, 1, 31))

	require.NoError(t, err)
	assert.Empty(t, view.SyncMessage)
	assert.Len(t, view.Events, 1)
}
