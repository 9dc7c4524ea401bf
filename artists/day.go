package artists

import (
	"fmt"
	"time"
)

// InvalidDateError is returned by ResolveDay for input it cannot parse.
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date string: %q", e.Input)
}

// Layouts accepted by ResolveDay. Zoned layouts keep their own offset,
// local layouts are read in time.Local, date-only input is UTC.
var (
	zonedLayouts = []string{time.RFC3339Nano, time.RFC3339, time.RFC1123Z, time.RFC1123}
	localLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04", "2006-01-02 15:04:05"}
	dateLayout   = "2006-01-02"
)

// DayName returns the English weekday name of t in t's own location.
func DayName(t time.Time) string {
	return t.Weekday().String()
}

// ResolveDay returns the weekday name for isoDate, or for the current time
// when isoDate is empty.
func ResolveDay(isoDate string) (string, error) {
	return resolveDay(isoDate, time.Now)
}

func resolveDay(isoDate string, now func() time.Time) (string, error) {
	if isoDate == "" {
		return DayName(now()), nil
	}

	t, err := parseDate(isoDate)
	if err != nil {
		return "", err
	}
	return DayName(t), nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, &InvalidDateError{Input: s}
}
