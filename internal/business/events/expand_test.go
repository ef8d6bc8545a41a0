package events

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/studyhub-backend/internal/model"
	"go.uber.org/zap"
)

func testService() *Service {
	return &Service{logger: zap.NewNop().Sugar()}
}

func recurringEvent(id string, date time.Time, startMinutes int, rule string) *model.Event {
	return &model.Event{
		ID:             id,
		Recurring:      true,
		RecurrenceRule: rule,
		EventCreate: model.EventCreate{
			Title:           "Algorithms lecture",
			EventType:       model.EventTypeClass,
			Date:            date,
			StartMinutes:    startMinutes,
			DurationMinutes: 90,
			UserID:          "7",
			AssignedBy:      model.AssignedByUser,
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

func TestExpandWeekly(t *testing.T) {
	master := recurringEvent("1", day(2024, 1, 1), 540, "FREQ=WEEKLY")

	got := testService().expandEvents([]*model.Event{master}, day(2024, 1, 1), endOfDay(2024, 1, 21))

	require.Len(t, got, 3)
	assert.Equal(t, day(2024, 1, 1), got[0].Date)
	assert.Equal(t, day(2024, 1, 8), got[1].Date)
	assert.Equal(t, day(2024, 1, 15), got[2].Date)
}

func TestExpandUntilInclusive(t *testing.T) {
	master := recurringEvent("1", day(2024, 1, 1), 540, "FREQ=WEEKLY;UNTIL=20240108")

	got := testService().expandEvents([]*model.Event{master}, day(2024, 1, 1), endOfDay(2024, 1, 31))

	// The until date itself still produces an occurrence.
	require.Len(t, got, 2)
	assert.Equal(t, day(2024, 1, 8), got[1].Date)
}

func TestExpandWindowContainment(t *testing.T) {
	master := recurringEvent("1", day(2024, 1, 1), 540, "FREQ=WEEKLY")

	from, to := day(2024, 1, 9), endOfDay(2024, 1, 21)
	got := testService().expandEvents([]*model.Event{master}, from, to)

	require.NotEmpty(t, got)
	for _, occ := range got {
		assert.False(t, occ.StartAt().Before(from), "occurrence before window: %v", occ.StartAt())
		assert.False(t, occ.StartAt().After(to), "occurrence after window: %v", occ.StartAt())
	}
	assert.Equal(t, day(2024, 1, 15), got[0].Date)
}

func TestExpandAnchorIsFirstOccurrence(t *testing.T) {
	master := recurringEvent("1", day(2024, 1, 1), 600, "FREQ=DAILY;INTERVAL=2")

	got := testService().expandEvents([]*model.Event{master}, day(2024, 1, 1), endOfDay(2024, 1, 7))

	require.NotEmpty(t, got)
	assert.Equal(t, master.StartAt(), got[0].StartAt())
}

func TestExpandPreservesTimeOfDay(t *testing.T) {
	master := recurringEvent("1", day(2024, 1, 1), 825, "FREQ=DAILY")

	got := testService().expandEvents([]*model.Event{master}, day(2024, 1, 1), endOfDay(2024, 1, 5))

	require.Len(t, got, 5)
	for _, occ := range got {
		assert.Equal(t, 825, occ.StartMinutes)
		assert.Equal(t, occ.Date, occ.Date.Truncate(24*time.Hour))
		assert.False(t, occ.Recurring)
		assert.Empty(t, occ.RecurrenceRule)
	}
}

func TestExpandOccurrenceTraceability(t *testing.T) {
	master := recurringEvent("42", day(2024, 1, 1), 540, "FREQ=WEEKLY")

	got := testService().expandEvents([]*model.Event{master}, day(2024, 1, 1), endOfDay(2024, 1, 31))

	require.NotEmpty(t, got)
	for _, occ := range got {
		parsed := model.ParseOccurrenceID(occ.ID)
		assert.Equal(t, master.ID, parsed.MasterID)
		assert.Equal(t, occ.StartAt(), parsed.Start)
	}
}

func TestExpandMonthlySkipsShortMonths(t *testing.T) {
	master := recurringEvent("1", day(2024, 1, 31), 540, "FREQ=MONTHLY")

	got := testService().expandEvents([]*model.Event{master}, day(2024, 1, 1), endOfDay(2024, 5, 31))

	// February and April have no 31st; those months produce nothing.
	require.Len(t, got, 3)
	assert.Equal(t, day(2024, 1, 31), got[0].Date)
	assert.Equal(t, day(2024, 3, 31), got[1].Date)
	assert.Equal(t, day(2024, 5, 31), got[2].Date)
}

func TestExpandCapsRunawayRules(t *testing.T) {
	master := recurringEvent("1", day(2024, 1, 1), 540, "FREQ=DAILY")

	got := testService().expandEvents([]*model.Event{master}, day(2024, 1, 1), endOfDay(2033, 12, 31))

	assert.Len(t, got, maxOccurrencesPerMaster)
}

func TestExpandDefaultsRuleWithoutFreq(t *testing.T) {
	master := recurringEvent("1", day(2024, 1, 1), 540, "INTERVAL=1")

	got := testService().expandEvents([]*model.Event{master}, day(2024, 1, 1), endOfDay(2024, 1, 3))

	// The fallback still expands, as a daily rule.
	assert.Len(t, got, 3)
}

func TestExpandPassesThroughPlainEvents(t *testing.T) {
	plain := &model.Event{
		ID: "9",
		EventCreate: model.EventCreate{
			Title:        "Office hours",
			Date:         day(2024, 1, 10),
			StartMinutes: 720,
			UserID:       "7",
		},
	}
	master := recurringEvent("1", day(2024, 1, 1), 540, "FREQ=WEEKLY")

	got := testService().expandEvents([]*model.Event{plain, master}, day(2024, 1, 1), endOfDay(2024, 1, 14))

	require.Len(t, got, 3)
	assert.Same(t, plain, got[0])
}

func TestExpandIsIdempotent(t *testing.T) {
	masters := []*model.Event{
		recurringEvent("1", day(2024, 1, 1), 540, "FREQ=WEEKLY"),
		recurringEvent("2", day(2024, 1, 3), 600, "FREQ=DAILY;INTERVAL=3"),
	}
	from, to := day(2024, 1, 1), endOfDay(2024, 2, 29)

	s := testService()
	first := s.expandEvents(masters, from, to)
	second := s.expandEvents(masters, from, to)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, fmt.Sprintf("occurrence %d diverged", i))
		assert.Equal(t, first[i].StartAt(), second[i].StartAt())
	}
}
