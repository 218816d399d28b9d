package service

import (
	"strings"
	"time"
)

// TimestampLayout is the wire format for reservation times: date, time and
// a numeric UTC offset.  Fractional seconds are written only when present,
// so whole-second instants render as 2006-01-02T15:04:05-07:00.
const TimestampLayout = "2006-01-02T15:04:05.999999-07:00"

// offsetLayouts carry their own zone.  Fractional seconds are accepted by
// time.Parse even when the layout omits them.
var offsetLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

// naiveLayouts carry no zone and are read as facility wall-clock time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Clock parses and formats reservation timestamps for one facility zone.
type Clock struct {
	loc *time.Location
}

// NewClock returns a Clock for loc; nil means UTC.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc}
}

// Location returns the facility zone.
func (c Clock) Location() *time.Location { return c.loc }

// Parse reads an ISO-8601 timestamp and converts it into the facility zone.
// Input carrying an offset keeps its instant and is only relabeled; input
// without one is taken as facility wall-clock time.  Storage keeps
// microseconds, so finer precision is rejected rather than rounded.
func (c Clock) Parse(field, raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return c.checkPrecision(field, raw, t.In(c.loc))
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return c.checkPrecision(field, raw, t)
		}
	}
	return time.Time{}, &ParseError{Field: field, Value: raw}
}

func (c Clock) checkPrecision(field, raw string, t time.Time) (time.Time, error) {
	if t.Nanosecond()%int(time.Microsecond) != 0 {
		return time.Time{}, &ParseError{Field: field, Value: raw}
	}
	return t, nil
}

// Format renders t in the facility zone using TimestampLayout.
func (c Clock) Format(t time.Time) string {
	return t.In(c.loc).Format(TimestampLayout)
}
