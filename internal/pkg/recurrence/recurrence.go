// Package recurrence implements the compact repeat-rule grammar persisted
// on recurring events:
//
//	FREQ=<DAILY|WEEKLY|MONTHLY>[;INTERVAL=<n>][;UNTIL=<YYYYMMDD>]
//
// It is a strict subset of the iCalendar RRULE grammar; unsupported
// fields (BYDAY, COUNT, EXDATE, ...) are ignored on decode.
package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
)

// ErrNoFreq marks the fallback path taken when a rule has no usable FREQ
// segment. Decode still returns a usable daily rule alongside it.
var ErrNoFreq = errors.New("recurrence rule has no FREQ")

type Rule struct {
	Freq     Frequency
	Interval int
	Until    *time.Time
}

const untilLayout = "20060102"

// Encode renders the rule in its canonical compact form. INTERVAL is
// omitted when 1, so decoders must treat a missing INTERVAL as 1.
func (r Rule) Encode() string {
	var b strings.Builder

	b.WriteString("FREQ=")
	b.WriteString(string(r.Freq))

	if r.Interval > 1 {
		fmt.Fprintf(&b, ";INTERVAL=%d", r.Interval)
	}

	if r.Until != nil {
		b.WriteString(";UNTIL=")
		b.WriteString(r.Until.Format(untilLayout))
	}

	return b.String()
}

// Decode parses a compact rule string. A missing or unknown FREQ returns
// ErrNoFreq together with a defaulted daily rule; an interval below 1 is
// normalized to 1. UNTIL is set to the end of its day (23:59:59 UTC) so
// upper-bound comparisons are inclusive.
func Decode(raw string) (Rule, error) {
	rule := Rule{Freq: Daily, Interval: 1}
	freqSeen := false

	for _, part := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}

		switch name {
		case "FREQ":
			switch Frequency(value) {
			case Daily, Weekly, Monthly:
				rule.Freq = Frequency(value)
				freqSeen = true
			}
		case "INTERVAL":
			if n, err := strconv.Atoi(value); err == nil && n >= 1 {
				rule.Interval = n
			}
		case "UNTIL":
			if d, err := time.ParseInLocation(untilLayout, value, time.UTC); err == nil {
				endOfDay := d.Add(24*time.Hour - time.Second)
				rule.Until = &endOfDay
			}
		}
	}

	if !freqSeen {
		return rule, ErrNoFreq
	}

	return rule, nil
}
