package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/lepinkainen/videoreport/video"
)

// JSONRecord is the machine-readable form of one video.
// Field names are a stable contract for downstream tools.
type JSONRecord struct {
	Rank               int      `json:"rank"`
	DurationSeconds    float64  `json:"duration_seconds"`
	DurationFormatted  string   `json:"duration_formatted"`
	Filename           string   `json:"filename"`
	DateCreated        *string  `json:"date_created"`
	Width              *int     `json:"width"`
	Height             *int     `json:"height"`
	ResolutionCategory string   `json:"resolution_category"`
	EstimatedSizeMB    *float64 `json:"estimated_size_mb"`
	AssetID            int64    `json:"asset_id"`
	Favorite           bool     `json:"favorite"`
	Hidden             bool     `json:"hidden"`
	Trashed            bool     `json:"trashed"`
}

// JSONGroupSummary is the per-group summary in grouped JSON output
type JSONGroupSummary struct {
	Count                  int     `json:"count"`
	TotalDurationSeconds   float64 `json:"total_duration_seconds"`
	TotalDurationFormatted string  `json:"total_duration_formatted"`
	TotalEstimatedSizeMB   float64 `json:"total_estimated_size_mb"`
}

// JSONGroup is the value stored under each group key
type JSONGroup struct {
	Summary JSONGroupSummary `json:"summary"`
	Records []JSONRecord     `json:"records"`
}

// NewJSONRecord converts a derived row
func NewJSONRecord(r Row) JSONRecord {
	return JSONRecord{
		Rank:               r.Rank,
		DurationSeconds:    r.DurationSeconds,
		DurationFormatted:  r.DurationFormatted,
		Filename:           r.Filename,
		DateCreated:        r.DateCreated,
		Width:              r.Width,
		Height:             r.Height,
		ResolutionCategory: r.Resolution.String(),
		EstimatedSizeMB:    r.EstimatedSizeMB,
		AssetID:            r.AssetID,
		Favorite:           r.Favorite,
		Hidden:             r.Hidden,
		Trashed:            r.Trashed,
	}
}

func jsonRecords(records []video.AssetRecord) []JSONRecord {
	out := make([]JSONRecord, 0, len(records))
	for _, r := range NewRows(records) {
		out = append(out, NewJSONRecord(r))
	}
	return out
}

// WriteJSON writes records as a pretty-printed JSON array
func WriteJSON(w io.Writer, records []video.AssetRecord) error {
	data, err := json.Marshal(jsonRecords(records))
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return writeIndented(w, data)
}

// WriteGroupedJSON writes an object keyed by group. Keys appear in group order
// (newest first, Unknown last), which a Go map cannot preserve.
func WriteGroupedJSON(w io.Writer, groups []video.AssetGroup) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Key)
		if err != nil {
			return fmt.Errorf("failed to encode group key: %w", err)
		}
		value, err := json.Marshal(JSONGroup{
			Summary: JSONGroupSummary{
				Count:                  g.Count(),
				TotalDurationSeconds:   g.TotalDuration,
				TotalDurationFormatted: video.FormatDuration(g.TotalDuration),
				TotalEstimatedSizeMB:   round1(g.TotalSizeMB),
			},
			Records: jsonRecords(g.Records),
		})
		if err != nil {
			return fmt.Errorf("failed to encode group %s: %w", g.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return writeIndented(w, buf.Bytes())
}

func writeIndented(w io.Writer, data []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	out.WriteByte('\n')
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
