package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/studyhub/studyhub-backend/internal/model"
)

func TestMapToEventCoercesInvalidFields(t *testing.T) {
	dto := &eventDTO{
		ID:              7,
		Title:           "Biology",
		EventType:       "birthday",
		UserID:          "3",
		AssignedBy:      "someone",
		StartDate:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		StartMinutes:    480,
		DurationMinutes: -30,
	}

	got := mapToEvent(dto)

	assert.Equal(t, "7", got.ID)
	assert.Equal(t, model.EventTypeOther, got.EventType)
	assert.Equal(t, model.AssignedByUser, got.AssignedBy)
	assert.Equal(t, 0, got.DurationMinutes)
}

func TestMapToEventKeepsValidFields(t *testing.T) {
	dto := &eventDTO{
		ID:              1,
		Title:           "Final exam",
		EventType:       string(model.EventTypeExam),
		UserID:          model.BroadcastUserID,
		AssignedBy:      string(model.AssignedByAdmin),
		StartDate:       time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		StartMinutes:    600,
		DurationMinutes: 120,
		Recurring:       true,
		RecurrenceRule:  "FREQ=WEEKLY",
		Properties:      []*propertyDTO{{Name: "room", Kind: "text", Value: "B204"}},
	}

	got := mapToEvent(dto)

	assert.Equal(t, model.EventTypeExam, got.EventType)
	assert.Equal(t, model.AssignedByAdmin, got.AssignedBy)
	assert.Equal(t, model.BroadcastUserID, got.UserID)
	assert.True(t, got.Recurring)
	assert.Equal(t, "FREQ=WEEKLY", got.RecurrenceRule)
	assert.Equal(t, []model.Property{{Name: "room", Kind: "text", Value: "B204"}}, got.Properties)
}
