package video

import (
	"fmt"
	"strings"
	"time"
)

// AssetRecord is one video row read from the Photos catalog
type AssetRecord struct {
	DurationSeconds float64
	Filename        string
	DateCreatedRaw  *float64 // seconds since 2001-01-01 UTC, nil when the catalog has no date
	Width           *int
	Height          *int
	AssetID         int64
	Favorite        bool
	Hidden          bool
	Trashed         bool
}

// Resolution returns the bucket for the record's dimensions
func (a AssetRecord) Resolution() ResolutionBucket {
	return Classify(a.Width, a.Height)
}

// EstimatedSizeMB returns the approximate encoded size, or nil when it cannot be estimated
func (a AssetRecord) EstimatedSizeMB() *float64 {
	return EstimateSizeMB(a.DurationSeconds, a.Width, a.Height)
}

// SortField selects the ordering of a video query
type SortField string

const (
	SortByDuration SortField = "duration"
	SortByDate     SortField = "date"
	SortBySize     SortField = "size"
	SortByFilename SortField = "filename"
)

// ParseSortField maps user input to a SortField. Unrecognized values fall back to duration.
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortByDate:
		return SortByDate
	case SortBySize:
		return SortBySize
	case SortByFilename:
		return SortByFilename
	default:
		return SortByDuration
	}
}

// Granularity is the date period used to group a report
type Granularity string

const (
	GroupNone  Granularity = ""
	GroupDay   Granularity = "day"
	GroupMonth Granularity = "month"
	GroupYear  Granularity = "year"
)

// ParseGranularity maps user input to a Granularity. Empty input means no grouping.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case GroupNone, GroupDay, GroupMonth, GroupYear:
		return g, nil
	default:
		return GroupNone, fmt.Errorf("invalid group-by period %q (expected day, month or year)", s)
	}
}

// FilterCriteria holds the validated filter, sort and limit options for one run.
// Nil pointers mean the bound is not applied.
type FilterCriteria struct {
	MinDuration *float64
	MaxDuration *float64
	DateFrom    *time.Time
	DateBefore  *time.Time // exclusive
	Resolution  *ResolutionBucket
	SearchTerm  string
	SortBy      SortField
	Limit       int // 0 = unbounded
	GroupBy     Granularity
}

// Validate checks that the criteria are internally consistent
func (c FilterCriteria) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}
	if c.MinDuration != nil && *c.MinDuration < 0 {
		return fmt.Errorf("minimum duration must not be negative, got %g", *c.MinDuration)
	}
	if c.MaxDuration != nil && *c.MaxDuration < 0 {
		return fmt.Errorf("maximum duration must not be negative, got %g", *c.MaxDuration)
	}
	if c.MinDuration != nil && c.MaxDuration != nil && *c.MinDuration > *c.MaxDuration {
		return fmt.Errorf("minimum duration %g is greater than maximum duration %g", *c.MinDuration, *c.MaxDuration)
	}
	if c.DateFrom != nil && c.DateBefore != nil && !c.DateFrom.Before(*c.DateBefore) {
		return fmt.Errorf("date range is empty: %s is not before %s",
			c.DateFrom.Format(TimestampLayout), c.DateBefore.Format(TimestampLayout))
	}
	return nil
}
