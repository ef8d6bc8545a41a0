package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/studyhub/studyhub-backend/internal/model"
	"github.com/studyhub/studyhub-backend/internal/pkg/recurrence"
	"github.com/studyhub/studyhub-backend/internal/pkg/validator"
)

type eventRequest struct {
	Title           string           `json:"title"`
	EventType       model.EventType  `json:"event_type"`
	Date            date             `json:"date"`
	Time            timeOfDay        `json:"time"`
	DurationMinutes int              `json:"duration_minutes"`
	Description     string           `json:"description"`
	Properties      []model.Property `json:"properties"`
	Repeat          *repeatRequest   `json:"repeat"`
}

type repeatRequest struct {
	Frequency string `json:"frequency"`
	Interval  int    `json:"interval"`
	EndDate   *date  `json:"end_date"`
}

func (req *eventRequest) validate(v *validator.Validator) {
	v.Check(len(req.Title) != 0, "title", "title must be provided")
	v.Check(!time.Time(req.Date).IsZero(), "date", "date must be provided")
	v.Check(req.DurationMinutes >= 0, "duration_minutes", "duration must not be negative")

	switch req.EventType {
	case "", model.EventTypeClass, model.EventTypeStudy, model.EventTypeExam, model.EventTypeOther:
	default:
		v.AddError("event_type", "unknown event type")
	}

	if req.Repeat != nil {
		switch recurrence.Frequency(req.Repeat.Frequency) {
		case recurrence.Daily, recurrence.Weekly, recurrence.Monthly:
		default:
			v.AddError("repeat.frequency", "frequency must be DAILY, WEEKLY or MONTHLY")
		}
	}
}

func (req *eventRequest) toCreate(userID string, assignedBy model.Assigner) *model.EventCreate {
	eventType := req.EventType
	if eventType == "" {
		eventType = model.EventTypeOther
	}

	return &model.EventCreate{
		Title:           req.Title,
		EventType:       eventType,
		Date:            time.Time(req.Date),
		StartMinutes:    int(req.Time),
		DurationMinutes: req.DurationMinutes,
		UserID:          userID,
		AssignedBy:      assignedBy,
		Description:     req.Description,
		Properties:      req.Properties,
	}
}

func (req *eventRequest) toRule() *recurrence.Rule {
	if req.Repeat == nil {
		return nil
	}

	rule := &recurrence.Rule{
		Freq:     recurrence.Frequency(req.Repeat.Frequency),
		Interval: req.Repeat.Interval,
	}
	if rule.Interval < 1 {
		rule.Interval = 1
	}
	if req.Repeat.EndDate != nil {
		until := time.Time(*req.Repeat.EndDate)
		rule.Until = &until
	}

	return rule
}

func (a *Api) createEventHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	req := &eventRequest{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	req.validate(v)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	event, err := a.eventsService.CreateEvent(r.Context(), req.toCreate(user.IDString(), model.AssignedByUser), req.toRule())
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("create event: %w", err))
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, mapToEventResp(event), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) createAdminEventHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		eventRequest
		UserID string `json:"user_id"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if req.UserID == "" {
		req.UserID = model.BroadcastUserID
	}

	v := validator.New()
	req.validate(v)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	event, err := a.eventsService.CreateEvent(r.Context(), req.toCreate(req.UserID, model.AssignedByAdmin), req.toRule())
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("create admin event: %w", err))
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, mapToEventResp(event), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getCalendarHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	from, to, err := parseWindowQuery(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	view, err := a.eventsService.CalendarView(r.Context(), user, from, to)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("calendar view: %w", err))
		return
	}

	resp := &struct {
		Events      []*viewEventResp `json:"events"`
		SyncMessage string           `json:"sync_message,omitempty"`
	}{
		SyncMessage: view.SyncMessage,
	}
	resp.Events, _ = mapSlice(view.Events, func(e *model.ViewEvent) (*viewEventResp, error) {
		return mapToViewEventResp(e), nil
	})

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventHandler(w http.ResponseWriter, r *http.Request) {
	event, err := a.eventsService.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get event: %w", err))
		}
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapToEventResp(event), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	req := &eventRequest{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	req.validate(v)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	id := chi.URLParam(r, "eventID")
	if err := a.eventsService.UpdateEvent(r.Context(), user, id, req.toCreate(user.IDString(), model.AssignedByUser), req.toRule()); err != nil {
		a.mutationErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	if err := a.eventsService.DeleteEvent(r.Context(), user, chi.URLParam(r, "eventID")); err != nil {
		a.mutationErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) mutationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrNoRecord):
		a.notFoundResponse(w, r)
	case errors.Is(err, model.ErrExternalEvent):
		a.forbiddenResponse(w, r, "imported calendar events can only be changed in the external calendar")
	case errors.Is(err, model.ErrReadOnly):
		a.forbiddenResponse(w, r, "this event was assigned by an administrator and cannot be changed")
	default:
		a.serverErrorResponse(w, r, err)
	}
}

// parseWindowQuery reads the visible window as two calendar days; the
// upper bound is widened to the end of its day so it is inclusive.
func parseWindowQuery(r *http.Request) (time.Time, time.Time, error) {
	fromParam := r.URL.Query().Get("from")
	if fromParam == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from must be provided")
	}
	from, err := time.ParseInLocation(dateFormat, fromParam, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}

	toParam := r.URL.Query().Get("to")
	if toParam == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be provided")
	}
	to, err := time.ParseInLocation(dateFormat, toParam, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}

	to = to.Add(24*time.Hour - time.Second)

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}

	return from, to, nil
}

type eventResp struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	EventType       model.EventType  `json:"event_type"`
	Date            date             `json:"date"`
	Time            timeOfDay        `json:"time"`
	StartMinutes    int              `json:"start_minutes"`
	DurationMinutes int              `json:"duration_minutes"`
	UserID          string           `json:"user_id"`
	AssignedBy      model.Assigner   `json:"assigned_by"`
	Recurring       bool             `json:"recurring"`
	RecurrenceRule  string           `json:"rrule,omitempty"`
	Description     string           `json:"description,omitempty"`
	Properties      []model.Property `json:"properties,omitempty"`
}

type viewEventResp struct {
	eventResp
	Editable       bool                 `json:"editable"`
	ReadOnlyReason model.ReadOnlyReason `json:"read_only_reason,omitempty"`
}

func mapToEventResp(e *model.Event) *eventResp {
	return &eventResp{
		ID:              e.ID,
		Title:           e.Title,
		EventType:       e.EventType,
		Date:            date(e.Date),
		Time:            timeOfDay(e.StartMinutes),
		StartMinutes:    e.StartMinutes,
		DurationMinutes: e.DurationMinutes,
		UserID:          e.UserID,
		AssignedBy:      e.AssignedBy,
		Recurring:       e.Recurring,
		RecurrenceRule:  e.RecurrenceRule,
		Description:     e.Description,
		Properties:      e.Properties,
	}
}

func mapToViewEventResp(e *model.ViewEvent) *viewEventResp {
	return &viewEventResp{
		eventResp:      *mapToEventResp(e.Event),
		Editable:       e.Editable,
		ReadOnlyReason: e.ReadOnlyReason,
	}
}
