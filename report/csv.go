package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/lepinkainen/videoreport/video"
)

// SubtotalLabel marks the synthetic per-group rows in grouped CSV output
const SubtotalLabel = "SUBTOTAL"

// csvHeader uses the same field names as the JSON output
var csvHeader = []string{
	"rank", "duration_seconds", "duration_formatted", "filename", "date_created",
	"width", "height", "resolution_category", "estimated_size_mb", "asset_id",
	"favorite", "hidden", "trashed",
}

// WriteCSV writes one header row and one row per record
func WriteCSV(w io.Writer, records []video.AssetRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range NewRows(records) {
		if err := cw.Write(csvRecord(r)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGroupedCSV prefixes every row with its group key and follows each
// group with a SUBTOTAL row
func WriteGroupedCSV(w io.Writer, groups []video.AssetGroup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"group"}, csvHeader...)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, g := range groups {
		for _, r := range NewRows(g.Records) {
			if err := cw.Write(append([]string{g.Key}, csvRecord(r)...)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		if err := cw.Write(subtotalRecord(g)); err != nil {
			return fmt.Errorf("failed to write CSV subtotal: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvRecord(r Row) []string {
	return []string{
		strconv.Itoa(r.Rank),
		formatFloat(r.DurationSeconds),
		r.DurationFormatted,
		r.Filename,
		r.DateDisplay(),
		optionalInt(r.Width),
		optionalInt(r.Height),
		r.Resolution.String(),
		optionalFloat(r.EstimatedSizeMB),
		strconv.FormatInt(r.AssetID, 10),
		yesNo(r.Favorite),
		yesNo(r.Hidden),
		yesNo(r.Trashed),
	}
}

// subtotalRecord fills the duration and size columns; the filename column carries the count
func subtotalRecord(g video.AssetGroup) []string {
	rec := make([]string, len(csvHeader)+1)
	rec[0] = g.Key
	rec[1] = SubtotalLabel
	rec[2] = formatFloat(g.TotalDuration)
	rec[3] = video.FormatDuration(g.TotalDuration)
	rec[4] = fmt.Sprintf("%d videos", g.Count())
	rec[9] = formatFloat(round1(g.TotalSizeMB))
	return rec
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
