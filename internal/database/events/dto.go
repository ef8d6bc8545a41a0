package events

import (
	"strconv"
	"time"

	"github.com/studyhub/studyhub-backend/internal/model"
)

type eventDTO struct {
	ID              int64
	Title           string
	EventType       string
	UserID          string
	AssignedBy      string
	StartDate       time.Time
	StartMinutes    int
	DurationMinutes int
	Recurring       bool
	RecurrenceRule  string
	Description     string
	Properties      []*propertyDTO
}

type propertyDTO struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// mapToEvent is the validating decode step at the store boundary: raw
// documents are coerced into the strict event shape instead of trusting
// their fields downstream.
func mapToEvent(dto *eventDTO) *model.Event {
	eventType := model.EventType(dto.EventType)
	switch eventType {
	case model.EventTypeClass, model.EventTypeStudy, model.EventTypeExam, model.EventTypeOther:
	default:
		eventType = model.EventTypeOther
	}

	assignedBy := model.Assigner(dto.AssignedBy)
	if assignedBy != model.AssignedByAdmin {
		assignedBy = model.AssignedByUser
	}

	duration := dto.DurationMinutes
	if duration < 0 {
		duration = 0
	}

	properties := make([]model.Property, len(dto.Properties))
	for i, p := range dto.Properties {
		properties[i] = model.Property{
			Name:  p.Name,
			Kind:  model.PropertyKind(p.Kind),
			Value: p.Value,
		}
	}

	return &model.Event{
		ID:             strconv.FormatInt(dto.ID, 10),
		Recurring:      dto.Recurring,
		RecurrenceRule: dto.RecurrenceRule,
		EventCreate: model.EventCreate{
			Title:           dto.Title,
			EventType:       eventType,
			Date:            dto.StartDate.UTC(),
			StartMinutes:    dto.StartMinutes,
			DurationMinutes: duration,
			UserID:          dto.UserID,
			AssignedBy:      assignedBy,
			Description:     dto.Description,
			Properties:      properties,
		},
	}
}

func mapToPropertyDTOs(properties []model.Property) []*propertyDTO {
	dtos := make([]*propertyDTO, len(properties))
	for i, p := range properties {
		dtos[i] = &propertyDTO{
			Name:  p.Name,
			Kind:  string(p.Kind),
			Value: p.Value,
		}
	}

	return dtos
}
