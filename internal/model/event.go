package model

import "time"

// EventType classifies an event for display purposes only; it has no
// effect on recurrence expansion.
type EventType string

const (
	EventTypeClass EventType = "class"
	EventTypeStudy EventType = "study"
	EventTypeExam  EventType = "exam"
	EventTypeOther EventType = "other"
)

// Assigner records who created an event. Admin-assigned events are
// read-only for the viewing student regardless of ownership.
type Assigner string

const (
	AssignedByUser  Assigner = "user"
	AssignedByAdmin Assigner = "admin"
)

// BroadcastUserID is the owner sentinel for events visible to every user.
const BroadcastUserID = "all"

type PropertyKind string

const (
	PropertyKindText   PropertyKind = "text"
	PropertyKindSelect PropertyKind = "select"
	PropertyKindURL    PropertyKind = "url"
	PropertyKindStatus PropertyKind = "status"
)

type Property struct {
	Name  string       `json:"name"`
	Kind  PropertyKind `json:"kind"`
	Value string       `json:"value"`
}

type EventCreate struct {
	Title           string
	EventType       EventType
	Date            time.Time // calendar day, midnight UTC
	StartMinutes    int       // minutes after midnight, 0..1439
	DurationMinutes int
	UserID          string // owner id, or BroadcastUserID
	AssignedBy      Assigner
	Description     string
	Properties      []Property
}

// Event is either a persisted plain instance, a persisted recurring
// master (Recurring set, RecurrenceRule present, Date is the anchor), or
// a derived occurrence (never persisted, ID carries the start suffix).
type Event struct {
	ID             string
	Recurring      bool
	RecurrenceRule string
	EventCreate
}

// StartAt is the event's concrete start instant (Date + StartMinutes).
func (e *Event) StartAt() time.Time {
	return e.Date.Add(time.Duration(e.StartMinutes) * time.Minute)
}

// ViewEvent is an event decorated with the viewer's permissions.
type ViewEvent struct {
	*Event
	Editable       bool
	ReadOnlyReason ReadOnlyReason
}

type ReadOnlyReason string

const (
	ReadOnlyNone     ReadOnlyReason = ""
	ReadOnlyExternal ReadOnlyReason = "external"
	ReadOnlyAdmin    ReadOnlyReason = "admin"
)

type EventsFilter struct {
	UserID           string
	From             time.Time
	To               time.Time // inclusive upper bound
	IncludeBroadcast bool
}
