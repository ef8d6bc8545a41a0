package database

import sq "github.com/Masterminds/squirrel"

// PSQL is the shared builder configured for Postgres placeholders.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	EventsTable = "events"
	UsersTable  = "users"
)

// EventsChannel is the LISTEN/NOTIFY channel fired on every event
// mutation. The payload is the owner id of the touched event (or the
// broadcast sentinel).
const EventsChannel = "events_changed"
