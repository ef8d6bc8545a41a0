package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/studyhub/studyhub-backend/internal/model"
)

func TestDecoratePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		event      *model.Event
		editable   bool
		reason     model.ReadOnlyReason
	}{
		{
			name: "own event editable",
			event: &model.Event{
				ID:          "5",
				EventCreate: model.EventCreate{UserID: "7", AssignedBy: model.AssignedByUser},
			},
			editable: true,
		},
		{
			name: "admin assigned locked",
			event: &model.Event{
				ID:          "6",
				EventCreate: model.EventCreate{UserID: "7", AssignedBy: model.AssignedByAdmin},
			},
			editable: false,
			reason:   model.ReadOnlyAdmin,
		},
		{
			name: "external locked",
			event: &model.Event{
				ID:          "gcal_xyz",
				EventCreate: model.EventCreate{UserID: "7", AssignedBy: model.AssignedByUser},
			},
			editable: false,
			reason:   model.ReadOnlyExternal,
		},
		{
			name: "external origin wins over admin assignment",
			event: &model.Event{
				ID:          "gcal_xyz",
				EventCreate: model.EventCreate{UserID: "7", AssignedBy: model.AssignedByAdmin},
			},
			editable: false,
			reason:   model.ReadOnlyExternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decorate(tt.event)

			assert.Same(t, tt.event, got.Event)
			assert.Equal(t, tt.editable, got.Editable)
			assert.Equal(t, tt.reason, got.ReadOnlyReason)
		})
	}
}
