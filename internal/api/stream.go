package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/studyhub/studyhub-backend/internal/model"
)

// eventsStreamHandler streams the caller's full event set as
// server-sent events. A fresh snapshot is pushed whenever anything
// relevant to the user changes.
func (a *Api) eventsStreamHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("streaming unsupported by connection"))
		return
	}

	updates, err := a.eventsService.Subscribe(r.Context(), user.IDString())
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("subscribe to events: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for events := range updates {
		resp, _ := mapSlice(events, func(e *model.Event) (*eventResp, error) {
			return mapToEventResp(e), nil
		})

		data, err := json.Marshal(resp)
		if err != nil {
			a.logError(r, err)
			return
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}
}
