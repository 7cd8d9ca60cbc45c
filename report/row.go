// Package report renders video query results as a table, CSV or JSON.
//
// All three formats derive their per-record values from Row, so the same input
// always produces the same durations, resolution labels and size estimates.
package report

import (
	"strings"

	"github.com/lepinkainen/videoreport/catalog"
	"github.com/lepinkainen/videoreport/logging"
	"github.com/lepinkainen/videoreport/video"
)

const invalidDate = "Invalid date"

// Format is an output format
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// Row holds the display values derived from one AssetRecord
type Row struct {
	Rank              int
	DurationSeconds   float64
	DurationFormatted string
	Filename          string
	DateCreated       *string // nil when the catalog has no date
	Width             *int
	Height            *int
	Resolution        video.ResolutionBucket
	EstimatedSizeMB   *float64
	AssetID           int64
	Favorite          bool
	Hidden            bool
	Trashed           bool
}

// NewRow derives display values for a record at the given 1-based rank
func NewRow(rank int, rec video.AssetRecord) Row {
	row := Row{
		Rank:              rank,
		DurationSeconds:   rec.DurationSeconds,
		DurationFormatted: video.FormatDuration(rec.DurationSeconds),
		Filename:          rec.Filename,
		Width:             rec.Width,
		Height:            rec.Height,
		Resolution:        rec.Resolution(),
		EstimatedSizeMB:   rec.EstimatedSizeMB(),
		AssetID:           rec.AssetID,
		Favorite:          rec.Favorite,
		Hidden:            rec.Hidden,
		Trashed:           rec.Trashed,
	}
	if rec.DateCreatedRaw != nil {
		date := formatDate(rec)
		row.DateCreated = &date
	}
	return row
}

// formatDate renders a non-nil creation date. Unconvertible dates are logged and
// shown as a placeholder rather than failing the report.
func formatDate(rec video.AssetRecord) string {
	t, err := video.ToCalendar(rec.DateCreatedRaw)
	if err != nil {
		logging.Debug().
			Err(catalog.NewError(catalog.KindDateConversion, "convert creation date", err)).
			Int64("asset_id", rec.AssetID).
			Msg("Showing placeholder date")
		return invalidDate
	}
	return t.Format(video.TimestampLayout)
}

// NewRows ranks records in their given order starting at 1
func NewRows(records []video.AssetRecord) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = NewRow(i+1, rec)
	}
	return rows
}

// DateDisplay returns the creation date, or "N/A" when it is missing
func (r Row) DateDisplay() string {
	if r.DateCreated == nil {
		return "N/A"
	}
	return *r.DateCreated
}

// Flags summarizes favorite, hidden and trashed state, e.g. "Fav,Hidden"
func (r Row) Flags() string {
	var flags []string
	if r.Favorite {
		flags = append(flags, "Fav")
	}
	if r.Hidden {
		flags = append(flags, "Hidden")
	}
	if r.Trashed {
		flags = append(flags, "Trashed")
	}
	return strings.Join(flags, ",")
}
