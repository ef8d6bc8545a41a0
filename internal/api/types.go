package api

import (
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// date marshals as a bare YYYY-MM-DD calendar day.
type date time.Time

func (d date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(dateFormat) + `"`), nil
}

func (d *date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = date(time.Time{})
		return nil
	}

	parsed, err := time.ParseInLocation(dateFormat, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}

	*d = date(parsed)
	return nil
}

// timeOfDay marshals minutes-after-midnight as 24h HH:MM.
type timeOfDay int

func (t timeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%02d:%02d"`, int(t)/60, int(t)%60)), nil
}

func (t *timeOfDay) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*t = 0
		return nil
	}

	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return fmt.Errorf("invalid time %q, want HH:MM", s)
	}

	*t = timeOfDay(parsed.Hour()*60 + parsed.Minute())
	return nil
}
