package events

import (
	"time"

	"github.com/studyhub/studyhub-backend/internal/model"
	"github.com/studyhub/studyhub-backend/internal/pkg/recurrence"
	"github.com/teambition/rrule-go"
)

// maxOccurrencesPerMaster bounds expansion of a single master so a
// degenerate rule can never loop a request forever.
const maxOccurrencesPerMaster = 365

var frequencies = map[recurrence.Frequency]rrule.Frequency{
	recurrence.Daily:   rrule.DAILY,
	recurrence.Weekly:  rrule.WEEKLY,
	recurrence.Monthly: rrule.MONTHLY,
}

// expandEvents projects a mixed set of stored events onto the inclusive
// window [from, to]. Non-recurring events pass through untouched; each
// recurring master is replaced by its concrete occurrences inside the
// window. The projection is pure: identical inputs always produce
// identical output, and nothing is ever written back.
func (s *Service) expandEvents(events []*model.Event, from, to time.Time) []*model.Event {
	var res []*model.Event

	for _, e := range events {
		if !e.Recurring {
			res = append(res, e)
			continue
		}

		rule, err := recurrence.Decode(e.RecurrenceRule)
		if err != nil {
			// Named fallback: a rule without FREQ still expands, as daily.
			s.logger.Warnw("recurrence rule defaulted",
				"event_id", e.ID,
				"rule", e.RecurrenceRule,
				"err", err,
			)
		}

		occurrences, err := expandMaster(e, rule, from, to)
		if err != nil {
			s.logger.Errorw("failed to expand recurring event", "event_id", e.ID, "err", err)
			continue
		}

		res = append(res, occurrences...)
	}

	return res
}

// expandMaster walks the master's recurrence from its anchor (the anchor
// is occurrence zero) and emits a derived occurrence for every step
// landing inside [from, to]. Iteration stops once the cursor passes the
// window end, the rule's until date, or the safety cap.
func expandMaster(e *model.Event, rule recurrence.Rule, from, to time.Time) ([]*model.Event, error) {
	opt := rrule.ROption{
		Freq:     frequencies[rule.Freq],
		Interval: rule.Interval,
		Dtstart:  e.StartAt().UTC(),
	}
	if rule.Until != nil {
		opt.Until = *rule.Until
	}

	rr, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, err
	}

	var res []*model.Event

	next := rr.Iterator()
	for steps := 0; steps < maxOccurrencesPerMaster; steps++ {
		cursor, ok := next()
		if !ok {
			break
		}
		if cursor.After(to) {
			break
		}
		if cursor.Before(from) {
			continue
		}

		res = append(res, occurrenceOf(e, cursor))
	}

	return res, nil
}

// occurrenceOf clones the master at a concrete start instant. Only the
// date moves; the time of day stays the master's. The derived id keeps
// the master traceable and is never persisted.
func occurrenceOf(master *model.Event, start time.Time) *model.Event {
	clone := *master
	clone.ID = model.OccurrenceID{MasterID: master.ID, Start: start}.String()
	clone.Recurring = false
	clone.RecurrenceRule = ""
	clone.Date = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	return &clone
}
