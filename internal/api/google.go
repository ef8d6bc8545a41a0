package api

import (
	"fmt"
	"net/http"

	"github.com/studyhub/studyhub-backend/internal/model"
	"github.com/studyhub/studyhub-backend/internal/pkg/validator"
)

// linkGoogleCalendarHandler connects the caller's Google Calendar.
// Linking again replaces the stored credentials, which is how an
// expired grant is refreshed.
func (a *Api) linkGoogleCalendarHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	req := &struct {
		AuthCode string `json:"auth_code"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(req.AuthCode) != 0, "auth_code", "auth code must be provided")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.eventsService.LinkGoogleCalendar(r.Context(), user.IDString(), req.AuthCode); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("link google calendar: %w", err))
		return
	}

	w.WriteHeader(http.StatusOK)
}
