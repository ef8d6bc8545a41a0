package gcal

import (
	"time"

	"github.com/studyhub/studyhub-backend/internal/model"
	"google.golang.org/api/calendar/v3"
)

const defaultDurationMinutes = 60

// normalizeEvent maps one raw API event into the common shape: id gets
// the external prefix, all-day events keep their date with no time of
// day, and a missing or non-positive duration defaults to an hour. The
// original deep link rides along as a url property.
func normalizeEvent(item *calendar.Event) *model.Event {
	if item == nil || item.Start == nil {
		return nil
	}

	start, allDay, ok := parseEventTime(item.Start)
	if !ok {
		return nil
	}

	duration := defaultDurationMinutes
	if !allDay && item.End != nil {
		if end, _, ok := parseEventTime(item.End); ok {
			if m := int(end.Sub(start) / time.Minute); m > 0 {
				duration = m
			}
		}
	}

	var properties []model.Property
	if item.HtmlLink != "" {
		properties = append(properties, model.Property{
			Name:  "link",
			Kind:  model.PropertyKindURL,
			Value: item.HtmlLink,
		})
	}

	return &model.Event{
		ID:        IDPrefix + item.Id,
		Recurring: false,
		EventCreate: model.EventCreate{
			Title:           item.Summary,
			EventType:       model.EventTypeOther,
			Date:            time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
			StartMinutes:    start.Hour()*60 + start.Minute(),
			DurationMinutes: duration,
			AssignedBy:      model.AssignedByUser,
			Description:     item.Description,
			Properties:      properties,
		},
	}
}

// parseEventTime handles the API's two start/end encodings: a dateTime
// for timed events, or a bare date for whole-day ones.
func parseEventTime(t *calendar.EventDateTime) (time.Time, bool, bool) {
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, false, false
		}
		return parsed.UTC(), false, true
	}

	if t.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", t.Date, time.UTC)
		if err != nil {
			return time.Time{}, false, false
		}
		return parsed, true, true
	}

	return time.Time{}, false, false
}
