package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/studyhub-backend/internal/model"
)

func TestEventsStreamHandler(t *testing.T) {
	stream := make(chan []*model.Event, 2)
	stream <- []*model.Event{{
		ID: "1",
		EventCreate: model.EventCreate{
			Title:        "Algorithms lecture",
			EventType:    model.EventTypeClass,
			Date:         time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			StartMinutes: 540,
			UserID:       "7",
			AssignedBy:   model.AssignedByUser,
		},
	}}
	stream <- []*model.Event{}
	close(stream)

	a := newTestApi(&fakeEventsService{stream: stream})

	rec := httptest.NewRecorder()
	a.eventsStreamHandler(rec, authedRequest(http.MethodGet, "/events/stream", nil, &model.User{ID: 7}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	frames := strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n")
	require.Len(t, frames, 2)
	assert.True(t, strings.HasPrefix(frames[0], "data: "))
	assert.Contains(t, frames[0], `"id":"1"`)
	assert.Contains(t, frames[0], `"date":"2024-01-08"`)
	assert.Equal(t, "data: []", frames[1])
}
