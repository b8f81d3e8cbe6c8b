package container

import (
	"fmt"
	"time"
)

// TimeKey identifies time.Time in every catalog.
const TimeKey = "time.Time"

// timeLayouts are tried in order when a datetime string is parsed.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

func defineBuiltins(cat *Catalog) {
	cat.Define(time.Time{},
		Constructor(newTime,
			Arg("datetime", OfType("string"), Default("now")),
			Arg("timezone", OfType(TypeKey((*time.Location)(nil))), Default(nil)),
		),
	)
}

// newTime builds a time.Time from a datetime string the way a date class
// constructor would: "now" (or "") is the current time, anything else is
// parsed in the given location (local time when nil).
func newTime(datetime string, timezone *time.Location) (time.Time, error) {
	if timezone == nil {
		timezone = time.Local
	}
	if datetime == "" || datetime == "now" {
		return time.Now().In(timezone), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, datetime, timezone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("container: cannot parse datetime %q", datetime)
}
