package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OccurrenceID identifies one derived instance of a recurring master.
// It is kept structured inside the service and flattened to
// "{masterID}_{startUnixMilli}" only at the serialization boundary.
type OccurrenceID struct {
	MasterID string
	Start    time.Time
}

func (o OccurrenceID) String() string {
	return fmt.Sprintf("%v_%v", o.MasterID, o.Start.UnixMilli())
}

// ParseOccurrenceID splits a flattened id on its last underscore. A plain
// master id (no underscore) is returned with a zero Start, so callers can
// pass any event id through and always act on the master.
func ParseOccurrenceID(id string) OccurrenceID {
	i := strings.LastIndex(id, "_")
	if i < 0 {
		return OccurrenceID{MasterID: id}
	}

	ms, err := strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil {
		return OccurrenceID{MasterID: id}
	}

	return OccurrenceID{
		MasterID: id[:i],
		Start:    time.UnixMilli(ms).UTC(),
	}
}
