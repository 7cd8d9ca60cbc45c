package video

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a raw catalog timestamp cannot be converted to a calendar time
var ErrInvalidDate = errors.New("invalid date")

const (
	// TimestampLayout is how catalog dates are displayed
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is the accepted format for user-supplied dates
	DateLayout = "2006-01-02"

	minYear = 1
	maxYear = 9999
)

// referenceEpoch is the zero point of the catalog's timestamp encoding
var referenceEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// ToCalendar converts a raw catalog offset to a UTC time.
// A nil offset returns nil without error.
func ToCalendar(raw *float64) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	r := *raw
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, fmt.Errorf("%w: offset %v", ErrInvalidDate, r)
	}

	// Whole days keep the intermediate values far away from int64 overflow
	days := math.Floor(r / 86400)
	if days > 4e6 || days < -4e6 {
		return nil, fmt.Errorf("%w: offset %v out of range", ErrInvalidDate, r)
	}
	rest := r - days*86400
	secs := math.Floor(rest)
	nanos := math.Round((rest - secs) * 1e9)

	t := referenceEpoch.AddDate(0, 0, int(days)).
		Add(time.Duration(secs) * time.Second).
		Add(time.Duration(nanos))
	if t.Year() < minYear || t.Year() > maxYear {
		return nil, fmt.Errorf("%w: offset %v out of range", ErrInvalidDate, r)
	}
	return &t, nil
}

// ToRawOffset converts a calendar time to the catalog encoding, truncated to whole seconds
func ToRawOffset(t time.Time) float64 {
	return float64(t.Unix() - referenceEpoch.Unix())
}

const timestampInputLayout = "2006-01-02T15:04:05"

// ParseCalendarDate parses a user-supplied date (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS) in UTC
func ParseCalendarDate(s string) (time.Time, error) {
	t, _, err := parseDateInput(s)
	return t, err
}

// ParseDateUpperBound parses an inclusive user-supplied end date and returns the
// exclusive bound just after it: the next midnight for a bare date, one second
// later for a timestamp. Sub-second creation times on the last day stay inside.
func ParseDateUpperBound(s string) (time.Time, error) {
	t, bareDate, err := parseDateInput(s)
	if err != nil {
		return time.Time{}, err
	}
	if bareDate {
		return t.AddDate(0, 0, 1), nil
	}
	return t.Add(time.Second), nil
}

func parseDateInput(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(timestampInputLayout, s, time.UTC); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, true, nil
}
